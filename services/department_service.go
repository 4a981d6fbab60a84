package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartmentService manages departments and their rank within an institution.
type DepartmentService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDepartmentService creates a new department service
func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// UnitInput carries the writable fields shared by departments and programs.
type UnitInput struct {
	InstitutionID uint   `json:"institution_id"`
	ChairID       uint   `json:"chair_id"`
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation"`
}

func departmentScope(institutionID uint) rankScope {
	return rankScope{table: "departments", column: "institution_id", value: &institutionID}
}

func checkUnit(tx *gorm.DB, v *validation.Validator, in *UnitInput) error {
	in.Name = validation.SanitizeString(in.Name)
	in.Abbreviation = validation.SanitizeString(in.Abbreviation)

	err := checkRecord(v, model.Department{
		InstitutionID: in.InstitutionID,
		ChairID:       in.ChairID,
		Name:          in.Name,
		Abbreviation:  in.Abbreviation,
	})
	if err != nil {
		return err
	}
	if err := requireRow(tx, "institutions", "institution_id", in.InstitutionID); err != nil {
		return err
	}
	return requireRow(tx, "users", "chair_id", in.ChairID)
}

// List returns a page of departments in rank order, optionally limited to one institution.
func (s *DepartmentService) List(ctx context.Context, institutionID uint, offset, limit int) ([]model.Department, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Department{})
	if institutionID != 0 {
		query = query.Where("institution_id = ?", institutionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	departments := []model.Department{}
	if err := query.Preload("Institution").Preload("Chair").
		Order("sort_order ASC, id ASC").Offset(offset).Limit(limit).
		Find(&departments).Error; err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	return departments, total, nil
}

// Get looks up a department with its institution and chair loaded.
func (s *DepartmentService) Get(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	if err := s.db.WithContext(ctx).Preload("Institution").Preload("Chair").First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch department %d: %w", id, err)
	}
	return &dept, nil
}

// Create inserts a department at the end of its institution's order.
func (s *DepartmentService) Create(ctx context.Context, in UnitInput) (*model.Department, error) {
	var dept model.Department
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnit(tx, s.validator, &in); err != nil {
			return err
		}
		rank, err := nextRank(tx, departmentScope(in.InstitutionID))
		if err != nil {
			return err
		}

		dept = model.Department{
			InstitutionID: in.InstitutionID,
			ChairID:       in.ChairID,
			Name:          in.Name,
			Abbreviation:  in.Abbreviation,
			SortOrder:     rank,
		}
		if err := tx.Omit(clause.Associations).Create(&dept).Error; err != nil {
			return fmt.Errorf("create department: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, dept.ID)
}

// Update replaces the writable fields of a department. Moving it to another
// institution appends it to that institution's order.
func (s *DepartmentService) Update(ctx context.Context, id uint, in UnitInput) (*model.Department, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dept model.Department
		if err := tx.First(&dept, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch department %d: %w", id, err)
		}
		if err := checkUnit(tx, s.validator, &in); err != nil {
			return err
		}

		if dept.InstitutionID != in.InstitutionID {
			if err := closeGap(tx, departmentScope(dept.InstitutionID), dept.SortOrder); err != nil {
				return err
			}
			rank, err := nextRank(tx, departmentScope(in.InstitutionID))
			if err != nil {
				return err
			}
			dept.SortOrder = rank
		}

		updates := map[string]interface{}{
			"institution_id": in.InstitutionID,
			"chair_id":       in.ChairID,
			"name":           in.Name,
			"abbreviation":   in.Abbreviation,
			"sort_order":     dept.SortOrder,
		}
		if err := tx.Model(&dept).Updates(updates).Error; err != nil {
			return fmt.Errorf("update department %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a department no workgroup belongs to.
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dept model.Department
		if err := tx.First(&dept, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch department %d: %w", id, err)
		}
		if err := deleteProtected(tx, "department", id, departmentRefs, &dept); err != nil {
			return err
		}
		return closeGap(tx, departmentScope(dept.InstitutionID), dept.SortOrder)
	})
}

// Order returns the department IDs of an institution in rank order.
func (s *DepartmentService) Order(ctx context.Context, institutionID uint) ([]uint, error) {
	db := s.db.WithContext(ctx)
	if err := requireInstitution(db, institutionID); err != nil {
		return nil, err
	}
	return scopeOrder(db, departmentScope(institutionID))
}

// SetOrder re-ranks the departments of an institution to follow ids.
func (s *DepartmentService) SetOrder(ctx context.Context, institutionID uint, ids []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireInstitution(tx, institutionID); err != nil {
			return err
		}
		return setScopeOrder(tx, departmentScope(institutionID), ids)
	})
}

func requireInstitution(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&model.Institution{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("fetch institution %d: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
