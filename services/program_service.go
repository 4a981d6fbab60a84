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

// ProgramService manages programs and their rank within an institution.
type ProgramService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewProgramService creates a new program service
func NewProgramService(db *gorm.DB) *ProgramService {
	return &ProgramService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

func programScope(institutionID uint) rankScope {
	return rankScope{table: "programs", column: "institution_id", value: &institutionID}
}

// List returns a page of programs in rank order, optionally limited to one institution.
func (s *ProgramService) List(ctx context.Context, institutionID uint, offset, limit int) ([]model.Program, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Program{})
	if institutionID != 0 {
		query = query.Where("institution_id = ?", institutionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	programs := []model.Program{}
	if err := query.Preload("Institution").Preload("Chair").
		Order("sort_order ASC, id ASC").Offset(offset).Limit(limit).
		Find(&programs).Error; err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}
	return programs, total, nil
}

// Get looks up a program with its institution and chair loaded.
func (s *ProgramService) Get(ctx context.Context, id uint) (*model.Program, error) {
	var prog model.Program
	if err := s.db.WithContext(ctx).Preload("Institution").Preload("Chair").First(&prog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch program %d: %w", id, err)
	}
	return &prog, nil
}

// Create inserts a program at the end of its institution's order.
func (s *ProgramService) Create(ctx context.Context, in UnitInput) (*model.Program, error) {
	var prog model.Program
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnit(tx, s.validator, &in); err != nil {
			return err
		}
		rank, err := nextRank(tx, programScope(in.InstitutionID))
		if err != nil {
			return err
		}

		prog = model.Program{
			InstitutionID: in.InstitutionID,
			ChairID:       in.ChairID,
			Name:          in.Name,
			Abbreviation:  in.Abbreviation,
			SortOrder:     rank,
		}
		if err := tx.Omit(clause.Associations).Create(&prog).Error; err != nil {
			return fmt.Errorf("create program: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, prog.ID)
}

// Update replaces the writable fields of a program. Moving it to another
// institution appends it to that institution's order.
func (s *ProgramService) Update(ctx context.Context, id uint, in UnitInput) (*model.Program, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prog model.Program
		if err := tx.First(&prog, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch program %d: %w", id, err)
		}
		if err := checkUnit(tx, s.validator, &in); err != nil {
			return err
		}

		if prog.InstitutionID != in.InstitutionID {
			if err := closeGap(tx, programScope(prog.InstitutionID), prog.SortOrder); err != nil {
				return err
			}
			rank, err := nextRank(tx, programScope(in.InstitutionID))
			if err != nil {
				return err
			}
			prog.SortOrder = rank
		}

		updates := map[string]interface{}{
			"institution_id": in.InstitutionID,
			"chair_id":       in.ChairID,
			"name":           in.Name,
			"abbreviation":   in.Abbreviation,
			"sort_order":     prog.SortOrder,
		}
		if err := tx.Model(&prog).Updates(updates).Error; err != nil {
			return fmt.Errorf("update program %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a program. Workgroups affiliated with it lose the
// affiliation; the workgroups themselves stay.
func (s *ProgramService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prog model.Program
		if err := tx.First(&prog, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch program %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM workgroup_programs WHERE program_id = ?", id).Error; err != nil {
			return fmt.Errorf("detach program %d from workgroups: %w", id, err)
		}
		if err := tx.Delete(&prog).Error; err != nil {
			return fmt.Errorf("delete program %d: %w", id, err)
		}
		return closeGap(tx, programScope(prog.InstitutionID), prog.SortOrder)
	})
}

// Order returns the program IDs of an institution in rank order.
func (s *ProgramService) Order(ctx context.Context, institutionID uint) ([]uint, error) {
	db := s.db.WithContext(ctx)
	if err := requireInstitution(db, institutionID); err != nil {
		return nil, err
	}
	return scopeOrder(db, programScope(institutionID))
}

// SetOrder re-ranks the programs of an institution to follow ids.
func (s *ProgramService) SetOrder(ctx context.Context, institutionID uint, ids []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireInstitution(tx, institutionID); err != nil {
			return err
		}
		return setScopeOrder(tx, programScope(institutionID), ids)
	})
}
