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

// WorkgroupService manages workgroups and their program affiliations.
type WorkgroupService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewWorkgroupService creates a new workgroup service
func NewWorkgroupService(db *gorm.DB) *WorkgroupService {
	return &WorkgroupService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// WorkgroupInput carries the writable fields of a workgroup.
type WorkgroupInput struct {
	DepartmentID uint   `json:"department_id"`
	ProgramIDs   []uint `json:"program_ids"`
	LeadID       uint   `json:"lead_id"`
	LeadTitleID  uint   `json:"lead_title_id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
}

// withDisplayData preloads everything Workgroup.String needs.
func withDisplayData(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Department.Institution").
		Preload("Lead").
		Preload("LeadTitle").
		Preload("Programs", func(db *gorm.DB) *gorm.DB {
			return db.Order("programs.id ASC")
		}).
		Preload("Programs.Institution")
}

func (s *WorkgroupService) check(tx *gorm.DB, in *WorkgroupInput) ([]model.Program, error) {
	in.Name = validation.SanitizeString(in.Name)
	in.Location = validation.SanitizeString(in.Location)

	err := checkRecord(s.validator, model.Workgroup{
		DepartmentID: in.DepartmentID,
		LeadID:       in.LeadID,
		LeadTitleID:  in.LeadTitleID,
		Name:         in.Name,
		Location:     in.Location,
	})
	if err != nil {
		return nil, err
	}
	if err := requireRow(tx, "departments", "department_id", in.DepartmentID); err != nil {
		return nil, err
	}
	if err := requireRow(tx, "users", "lead_id", in.LeadID); err != nil {
		return nil, err
	}
	if err := requireRow(tx, "leadership_titles", "lead_title_id", in.LeadTitleID); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(in.ProgramIDs))
	seen := map[uint]bool{}
	for _, id := range in.ProgramIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	in.ProgramIDs = ids

	programs := []model.Program{}
	if len(ids) == 0 {
		return programs, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("fetch programs: %w", err)
	}
	if len(programs) != len(ids) {
		return nil, newFieldError("program_ids", "one or more programs do not exist")
	}
	return programs, nil
}

// List returns a page of workgroups ordered by name, optionally limited to one department.
func (s *WorkgroupService) List(ctx context.Context, departmentID uint, offset, limit int) ([]model.Workgroup, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Workgroup{})
	if departmentID != 0 {
		query = query.Where("department_id = ?", departmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count workgroups: %w", err)
	}

	workgroups := []model.Workgroup{}
	if err := withDisplayData(query).
		Order("name ASC, id ASC").Offset(offset).Limit(limit).
		Find(&workgroups).Error; err != nil {
		return nil, 0, fmt.Errorf("list workgroups: %w", err)
	}
	return workgroups, total, nil
}

// Get looks up a workgroup with everything its display string needs.
func (s *WorkgroupService) Get(ctx context.Context, id uint) (*model.Workgroup, error) {
	var wg model.Workgroup
	if err := withDisplayData(s.db.WithContext(ctx)).First(&wg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch workgroup %d: %w", id, err)
	}
	return &wg, nil
}

// Create inserts a workgroup and its program affiliations.
func (s *WorkgroupService) Create(ctx context.Context, in WorkgroupInput) (*model.Workgroup, error) {
	var wg model.Workgroup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		programs, err := s.check(tx, &in)
		if err != nil {
			return err
		}

		wg = model.Workgroup{
			DepartmentID: in.DepartmentID,
			LeadID:       in.LeadID,
			LeadTitleID:  in.LeadTitleID,
			Name:         in.Name,
			Location:     in.Location,
		}
		if err := tx.Omit(clause.Associations).Create(&wg).Error; err != nil {
			return fmt.Errorf("create workgroup: %w", err)
		}
		if len(programs) > 0 {
			if err := tx.Model(&wg).Association("Programs").Replace(programs); err != nil {
				return fmt.Errorf("attach programs to workgroup %d: %w", wg.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, wg.ID)
}

// Update replaces the writable fields and the program affiliations of a workgroup.
func (s *WorkgroupService) Update(ctx context.Context, id uint, in WorkgroupInput) (*model.Workgroup, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wg model.Workgroup
		if err := tx.First(&wg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch workgroup %d: %w", id, err)
		}
		programs, err := s.check(tx, &in)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"department_id": in.DepartmentID,
			"lead_id":       in.LeadID,
			"lead_title_id": in.LeadTitleID,
			"name":          in.Name,
			"location":      in.Location,
		}
		if err := tx.Model(&wg).Updates(updates).Error; err != nil {
			return fmt.Errorf("update workgroup %d: %w", id, err)
		}

		assoc := tx.Model(&wg).Association("Programs")
		if len(programs) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(programs)
		}
		if err != nil {
			return fmt.Errorf("replace programs of workgroup %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a workgroup and its program affiliations.
func (s *WorkgroupService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wg model.Workgroup
		if err := tx.First(&wg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch workgroup %d: %w", id, err)
		}
		if err := tx.Model(&wg).Association("Programs").Clear(); err != nil {
			return fmt.Errorf("detach programs from workgroup %d: %w", id, err)
		}
		if err := tx.Delete(&wg).Error; err != nil {
			return fmt.Errorf("delete workgroup %d: %w", id, err)
		}
		return nil
	})
}
