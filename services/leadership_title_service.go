package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/gorm"
)

const duplicateTitle = "leadership title with this title already exists"

// LeadershipTitleService manages the titles workgroup leads can hold.
type LeadershipTitleService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewLeadershipTitleService creates a new leadership title service
func NewLeadershipTitleService(db *gorm.DB) *LeadershipTitleService {
	return &LeadershipTitleService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// LeadershipTitleInput carries the writable fields of a leadership title.
type LeadershipTitleInput struct {
	Title       string  `json:"title"`
	TitleAbbrev *string `json:"title_abbrev"`
	Notes       *string `json:"notes"`
}

func (s *LeadershipTitleService) check(tx *gorm.DB, id uint, in *LeadershipTitleInput) error {
	in.Title = validation.SanitizeString(in.Title)
	in.TitleAbbrev = validation.SanitizeOptional(in.TitleAbbrev)
	in.Notes = validation.SanitizeOptional(in.Notes)

	if err := checkRecord(s.validator, model.LeadershipTitle{Title: in.Title, TitleAbbrev: in.TitleAbbrev}); err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&model.LeadershipTitle{}).Where("title = ? AND id <> ?", in.Title, id).Count(&count).Error; err != nil {
		return fmt.Errorf("check title uniqueness: %w", err)
	}
	if count > 0 {
		return newFieldError("title", duplicateTitle)
	}
	return nil
}

// List returns a page of leadership titles ordered by title.
func (s *LeadershipTitleService) List(ctx context.Context, offset, limit int) ([]model.LeadershipTitle, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.LeadershipTitle{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count leadership titles: %w", err)
	}

	titles := []model.LeadershipTitle{}
	if err := db.Order("title ASC").Offset(offset).Limit(limit).Find(&titles).Error; err != nil {
		return nil, 0, fmt.Errorf("list leadership titles: %w", err)
	}
	return titles, total, nil
}

// Get looks up a leadership title by primary key.
func (s *LeadershipTitleService) Get(ctx context.Context, id uint) (*model.LeadershipTitle, error) {
	var title model.LeadershipTitle
	if err := s.db.WithContext(ctx).First(&title, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch leadership title %d: %w", id, err)
	}
	return &title, nil
}

// Create inserts a leadership title. Titles are unique.
func (s *LeadershipTitleService) Create(ctx context.Context, in LeadershipTitleInput) (*model.LeadershipTitle, error) {
	var title model.LeadershipTitle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.check(tx, 0, &in); err != nil {
			return err
		}
		title = model.LeadershipTitle{Title: in.Title, TitleAbbrev: in.TitleAbbrev, Notes: in.Notes}
		if err := tx.Create(&title).Error; err != nil {
			if dup := duplicateField(err, "title", duplicateTitle); dup != nil {
				return dup
			}
			return fmt.Errorf("create leadership title: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &title, nil
}

// Update replaces the writable fields of a leadership title.
func (s *LeadershipTitleService) Update(ctx context.Context, id uint, in LeadershipTitleInput) (*model.LeadershipTitle, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var title model.LeadershipTitle
		if err := tx.First(&title, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch leadership title %d: %w", id, err)
		}
		if err := s.check(tx, id, &in); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"title":        in.Title,
			"title_abbrev": in.TitleAbbrev,
			"notes":        in.Notes,
		}
		if err := tx.Model(&title).Updates(updates).Error; err != nil {
			if dup := duplicateField(err, "title", duplicateTitle); dup != nil {
				return dup
			}
			return fmt.Errorf("update leadership title %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a leadership title no workgroup lead holds.
func (s *LeadershipTitleService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var title model.LeadershipTitle
		if err := tx.First(&title, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch leadership title %d: %w", id, err)
		}
		if err := deleteProtected(tx, "leadership title", id, leadershipTitleRefs, &title); err != nil {
			return err
		}
		return nil
	})
}
