package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/gorm"
)

// InstitutionService manages the institution tree and the rank of each
// institution among its siblings.
type InstitutionService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInstitutionService creates a new institution service
func NewInstitutionService(db *gorm.DB) *InstitutionService {
	return &InstitutionService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// InstitutionInput carries the writable fields of an institution.
type InstitutionInput struct {
	ParentID  *uint  `json:"parent_id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

func institutionScope(parentID *uint) rankScope {
	return rankScope{table: "institutions", column: "parent_id", value: parentID}
}

// List returns a page of institutions in rank order with their parent chains loaded.
func (s *InstitutionService) List(ctx context.Context, offset, limit int) ([]model.Institution, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Institution{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count institutions: %w", err)
	}

	institutions := []model.Institution{}
	if err := db.Order("sort_order ASC, id ASC").Offset(offset).Limit(limit).Find(&institutions).Error; err != nil {
		return nil, 0, fmt.Errorf("list institutions: %w", err)
	}

	loaded := map[uint]*model.Institution{}
	for i := range institutions {
		if err := loadAncestors(db, &institutions[i], loaded); err != nil {
			return nil, 0, err
		}
	}
	return institutions, total, nil
}

// Get looks up an institution by primary key and loads its parent chain.
func (s *InstitutionService) Get(ctx context.Context, id uint) (*model.Institution, error) {
	db := s.db.WithContext(ctx)

	var inst model.Institution
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch institution %d: %w", id, err)
	}

	if err := loadAncestors(db, &inst, map[uint]*model.Institution{}); err != nil {
		return nil, err
	}
	return &inst, nil
}

// LoadAncestors fills in inst.Parent up to the root so inst.String() can run
// without touching the database.
func (s *InstitutionService) LoadAncestors(ctx context.Context, inst *model.Institution) error {
	return loadAncestors(s.db.WithContext(ctx), inst, map[uint]*model.Institution{})
}

// loadAncestors walks parent links, reusing institutions already present in
// loaded. A chain that revisits an institution is reported as an error.
func loadAncestors(db *gorm.DB, inst *model.Institution, loaded map[uint]*model.Institution) error {
	visited := map[uint]bool{inst.ID: true}
	cur := inst
	for cur.ParentID != nil {
		pid := *cur.ParentID
		if visited[pid] {
			return fmt.Errorf("institution %d: parent chain loops through %d", inst.ID, pid)
		}
		visited[pid] = true

		parent, ok := loaded[pid]
		if !ok {
			parent = &model.Institution{}
			if err := db.First(parent, pid).Error; err != nil {
				return fmt.Errorf("load parent %d of institution %d: %w", pid, cur.ID, err)
			}
			loaded[pid] = parent
		}
		cur.Parent = parent
		cur = parent
	}
	return nil
}

// Children returns the direct children of an institution in rank order.
func (s *InstitutionService) Children(ctx context.Context, id uint) ([]model.Institution, error) {
	parent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	children := []model.Institution{}
	if err := s.db.WithContext(ctx).Where("parent_id = ?", id).
		Order("sort_order ASC, id ASC").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("list children of %d: %w", id, err)
	}
	for i := range children {
		children[i].Parent = parent
	}
	return children, nil
}

func (s *InstitutionService) checkInput(tx *gorm.DB, id uint, in *InstitutionInput) error {
	in.Name = validation.SanitizeString(in.Name)
	in.ShortName = validation.SanitizeString(in.ShortName)

	if err := checkRecord(s.validator, model.Institution{Name: in.Name, ShortName: in.ShortName}); err != nil {
		return err
	}
	if in.ParentID == nil {
		return nil
	}

	// Walk up from the proposed parent; meeting id means the new link closes a loop.
	visited := map[uint]bool{}
	next := in.ParentID
	for next != nil {
		pid := *next
		if id != 0 && pid == id {
			return newFieldError("parent_id", "an institution cannot be its own ancestor")
		}
		if visited[pid] {
			return fmt.Errorf("institution %d: parent chain loops", pid)
		}
		visited[pid] = true

		var ancestor model.Institution
		if err := tx.Select("id", "parent_id").First(&ancestor, pid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if pid == *in.ParentID {
					return newFieldError("parent_id", fmt.Sprintf("institution %d does not exist", pid))
				}
				return fmt.Errorf("ancestor %d of institution %d is missing", pid, *in.ParentID)
			}
			return fmt.Errorf("fetch ancestor %d: %w", pid, err)
		}
		next = ancestor.ParentID
	}
	return nil
}

// Create inserts an institution at the end of its sibling order.
func (s *InstitutionService) Create(ctx context.Context, in InstitutionInput) (*model.Institution, error) {
	var inst model.Institution
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkInput(tx, 0, &in); err != nil {
			return err
		}

		rank, err := nextRank(tx, institutionScope(in.ParentID))
		if err != nil {
			return err
		}

		inst = model.Institution{
			ParentID:  in.ParentID,
			Name:      in.Name,
			ShortName: in.ShortName,
			SortOrder: rank,
		}
		if err := tx.Create(&inst).Error; err != nil {
			return fmt.Errorf("create institution: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.LoadAncestors(ctx, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Update replaces the writable fields of an institution. Moving it under a
// different parent appends it to the new sibling order.
func (s *InstitutionService) Update(ctx context.Context, id uint, in InstitutionInput) (*model.Institution, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst model.Institution
		if err := tx.First(&inst, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch institution %d: %w", id, err)
		}

		if err := s.checkInput(tx, id, &in); err != nil {
			return err
		}

		if !sameScope(inst.ParentID, in.ParentID) {
			if err := closeGap(tx, institutionScope(inst.ParentID), inst.SortOrder); err != nil {
				return err
			}
			rank, err := nextRank(tx, institutionScope(in.ParentID))
			if err != nil {
				return err
			}
			inst.SortOrder = rank
		}

		inst.ParentID = in.ParentID
		inst.Name = in.Name
		inst.ShortName = in.ShortName
		if err := tx.Select("parent_id", "name", "short_name", "sort_order").Save(&inst).Error; err != nil {
			return fmt.Errorf("update institution %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an institution that nothing references and closes the gap
// it leaves among its siblings.
func (s *InstitutionService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst model.Institution
		if err := tx.First(&inst, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch institution %d: %w", id, err)
		}

		if err := deleteProtected(tx, "institution", id, institutionRefs, &inst); err != nil {
			return err
		}
		return closeGap(tx, institutionScope(inst.ParentID), inst.SortOrder)
	})
}

func (s *InstitutionService) requireParent(tx *gorm.DB, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	return requireInstitution(tx, *parentID)
}

// Order returns the IDs of the children of parentID in rank order; a nil
// parentID selects the root institutions.
func (s *InstitutionService) Order(ctx context.Context, parentID *uint) ([]uint, error) {
	db := s.db.WithContext(ctx)
	if err := s.requireParent(db, parentID); err != nil {
		return nil, err
	}
	return scopeOrder(db, institutionScope(parentID))
}

// SetOrder re-ranks the children of parentID to follow ids.
func (s *InstitutionService) SetOrder(ctx context.Context, parentID *uint, ids []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireParent(tx, parentID); err != nil {
			return err
		}
		return setScopeOrder(tx, institutionScope(parentID), ids)
	})
}

// Neighbors returns the siblings ranked directly before and after an institution.
func (s *InstitutionService) Neighbors(ctx context.Context, id uint) (Neighbors, error) {
	db := s.db.WithContext(ctx)

	var inst model.Institution
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Neighbors{}, ErrNotFound
		}
		return Neighbors{}, fmt.Errorf("fetch institution %d: %w", id, err)
	}
	return scopeNeighbors(db, institutionScope(inst.ParentID), inst.SortOrder)
}
