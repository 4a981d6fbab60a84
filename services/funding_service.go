package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateLayout is the wire format of award start and end dates.
const DateLayout = "2006-01-02"

// FundingService manages funding awards.
type FundingService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFundingService creates a new funding service
func NewFundingService(db *gorm.DB) *FundingService {
	return &FundingService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// FundingInput carries the writable fields of a funding award. Dates use DateLayout.
type FundingInput struct {
	AwardedToID   uint   `json:"awarded_to_id"`
	FundingTypeID uint   `json:"funding_type_id"`
	FundingSource string `json:"funding_source"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	Number        string `json:"number"`
	DeptID        string `json:"dept_id"`
	GrantCode     string `json:"grant_code"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Abstract      string `json:"abstract"`
}

func parseDate(field, value string) (datatypes.Date, error) {
	if value == "" {
		return datatypes.Date{}, newFieldError(field, field+" is required")
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return datatypes.Date{}, newFieldError(field, field+" must be a date in YYYY-MM-DD format")
	}
	return datatypes.Date(t), nil
}

func (s *FundingService) build(tx *gorm.DB, in FundingInput) (model.Funding, error) {
	f := model.Funding{
		AwardedToID:   in.AwardedToID,
		FundingTypeID: in.FundingTypeID,
		FundingSource: validation.SanitizeString(in.FundingSource),
		Name:          validation.SanitizeString(in.Name),
		ShortName:     validation.SanitizeString(in.ShortName),
		Number:        validation.SanitizeString(in.Number),
		DeptID:        validation.SanitizeString(in.DeptID),
		GrantCode:     validation.SanitizeString(in.GrantCode),
		Abstract:      in.Abstract,
	}
	if err := checkRecord(s.validator, f); err != nil {
		return f, err
	}

	var err error
	if f.StartDate, err = parseDate("start_date", in.StartDate); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate("end_date", in.EndDate); err != nil {
		return f, err
	}

	if err := requireRow(tx, "users", "awarded_to_id", f.AwardedToID); err != nil {
		return f, err
	}
	if err := requireRow(tx, "funding_types", "funding_type_id", f.FundingTypeID); err != nil {
		return f, err
	}
	return f, nil
}

// List returns a page of awards, latest end date first, optionally limited to one recipient.
func (s *FundingService) List(ctx context.Context, awardedToID uint, offset, limit int) ([]model.Funding, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Funding{})
	if awardedToID != 0 {
		query = query.Where("awarded_to_id = ?", awardedToID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count funding: %w", err)
	}

	awards := []model.Funding{}
	if err := query.Preload("AwardedTo").Preload("FundingType").
		Order("end_date DESC, id ASC").Offset(offset).Limit(limit).
		Find(&awards).Error; err != nil {
		return nil, 0, fmt.Errorf("list funding: %w", err)
	}
	return awards, total, nil
}

// EndingBetween returns awards whose end date falls in [from, to], soonest first.
func (s *FundingService) EndingBetween(ctx context.Context, from, to time.Time) ([]model.Funding, error) {
	awards := []model.Funding{}
	err := s.db.WithContext(ctx).Preload("AwardedTo").Preload("FundingType").
		Where("end_date >= ? AND end_date <= ?", datatypes.Date(from), datatypes.Date(to)).
		Order("end_date ASC, id ASC").
		Find(&awards).Error
	if err != nil {
		return nil, fmt.Errorf("list funding ending between %s and %s: %w",
			from.Format(DateLayout), to.Format(DateLayout), err)
	}
	return awards, nil
}

// Get looks up an award with its recipient and type loaded.
func (s *FundingService) Get(ctx context.Context, id uint) (*model.Funding, error) {
	var f model.Funding
	if err := s.db.WithContext(ctx).Preload("AwardedTo").Preload("FundingType").First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch funding %d: %w", id, err)
	}
	return &f, nil
}

// Create inserts a funding award.
func (s *FundingService) Create(ctx context.Context, in FundingInput) (*model.Funding, error) {
	var f model.Funding
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if f, err = s.build(tx, in); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&f).Error; err != nil {
			return fmt.Errorf("create funding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, f.ID)
}

// Update replaces the writable fields of a funding award.
func (s *FundingService) Update(ctx context.Context, id uint, in FundingInput) (*model.Funding, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Funding
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch funding %d: %w", id, err)
		}
		f, err := s.build(tx, in)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"awarded_to_id":   f.AwardedToID,
			"funding_type_id": f.FundingTypeID,
			"funding_source":  f.FundingSource,
			"name":            f.Name,
			"short_name":      f.ShortName,
			"number":          f.Number,
			"dept_id":         f.DeptID,
			"grant_code":      f.GrantCode,
			"start_date":      f.StartDate,
			"end_date":        f.EndDate,
			"abstract":        f.Abstract,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update funding %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a funding award. Nothing references awards.
func (s *FundingService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Funding{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete funding %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
