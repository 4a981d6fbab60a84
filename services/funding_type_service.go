package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/gorm"
)

const duplicateFundingTypeName = "funding type with this name already exists"

// FundingTypeService manages the kinds of funding awards.
type FundingTypeService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFundingTypeService creates a new funding type service
func NewFundingTypeService(db *gorm.DB) *FundingTypeService {
	return &FundingTypeService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// FundingTypeInput carries the writable fields of a funding type.
type FundingTypeInput struct {
	Name      string  `json:"name"`
	ShortName *string `json:"short_name"`
	Notes     *string `json:"notes"`
}

func (s *FundingTypeService) check(tx *gorm.DB, id uint, in *FundingTypeInput) error {
	in.Name = validation.SanitizeString(in.Name)
	in.ShortName = validation.SanitizeOptional(in.ShortName)
	in.Notes = validation.SanitizeOptional(in.Notes)

	if err := checkRecord(s.validator, model.FundingType{Name: in.Name, ShortName: in.ShortName}); err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&model.FundingType{}).Where("name = ? AND id <> ?", in.Name, id).Count(&count).Error; err != nil {
		return fmt.Errorf("check name uniqueness: %w", err)
	}
	if count > 0 {
		return newFieldError("name", duplicateFundingTypeName)
	}
	return nil
}

// List returns a page of funding types ordered by name.
func (s *FundingTypeService) List(ctx context.Context, offset, limit int) ([]model.FundingType, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.FundingType{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count funding types: %w", err)
	}

	types := []model.FundingType{}
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&types).Error; err != nil {
		return nil, 0, fmt.Errorf("list funding types: %w", err)
	}
	return types, total, nil
}

// Get looks up a funding type by primary key.
func (s *FundingTypeService) Get(ctx context.Context, id uint) (*model.FundingType, error) {
	var ft model.FundingType
	if err := s.db.WithContext(ctx).First(&ft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch funding type %d: %w", id, err)
	}
	return &ft, nil
}

// Create inserts a funding type. Names are unique.
func (s *FundingTypeService) Create(ctx context.Context, in FundingTypeInput) (*model.FundingType, error) {
	var ft model.FundingType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.check(tx, 0, &in); err != nil {
			return err
		}
		ft = model.FundingType{Name: in.Name, ShortName: in.ShortName, Notes: in.Notes}
		if err := tx.Create(&ft).Error; err != nil {
			if dup := duplicateField(err, "name", duplicateFundingTypeName); dup != nil {
				return dup
			}
			return fmt.Errorf("create funding type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

// Update replaces the writable fields of a funding type.
func (s *FundingTypeService) Update(ctx context.Context, id uint, in FundingTypeInput) (*model.FundingType, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ft model.FundingType
		if err := tx.First(&ft, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch funding type %d: %w", id, err)
		}
		if err := s.check(tx, id, &in); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":       in.Name,
			"short_name": in.ShortName,
			"notes":      in.Notes,
		}
		if err := tx.Model(&ft).Updates(updates).Error; err != nil {
			if dup := duplicateField(err, "name", duplicateFundingTypeName); dup != nil {
				return dup
			}
			return fmt.Errorf("update funding type %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a funding type no funding award uses.
func (s *FundingTypeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ft model.FundingType
		if err := tx.First(&ft, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch funding type %d: %w", id, err)
		}
		if err := deleteProtected(tx, "funding type", id, fundingTypeRefs, &ft); err != nil {
			return err
		}
		return nil
	})
}
