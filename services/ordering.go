package services

import (
	"fmt"

	"gorm.io/gorm"
)

// rankScope is a group of rows ranked together by their sort_order column:
// institutions sharing a parent, departments or programs sharing an institution.
type rankScope struct {
	table  string
	column string
	value  *uint // nil selects rows where column IS NULL
}

func (s rankScope) rows(tx *gorm.DB) *gorm.DB {
	cond := map[string]interface{}{s.column: nil}
	if s.value != nil {
		cond[s.column] = *s.value
	}
	return tx.Table(s.table).Where(cond)
}

func sameScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// nextRank returns the rank a row appended to the scope gets.
func nextRank(tx *gorm.DB, s rankScope) (int, error) {
	var last int
	if err := s.rows(tx).Select("COALESCE(MAX(sort_order), -1)").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("read last rank of %s: %w", s.table, err)
	}
	return last + 1, nil
}

// closeGap shifts every row ranked after removed one place up.
func closeGap(tx *gorm.DB, s rankScope, removed int) error {
	err := s.rows(tx).
		Where("sort_order > ?", removed).
		UpdateColumn("sort_order", gorm.Expr("sort_order - 1")).Error
	if err != nil {
		return fmt.Errorf("close rank gap in %s: %w", s.table, err)
	}
	return nil
}

// scopeOrder returns the IDs of a scope in rank order.
func scopeOrder(tx *gorm.DB, s rankScope) ([]uint, error) {
	ids := []uint{}
	if err := s.rows(tx).Order("sort_order ASC, id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("read order of %s: %w", s.table, err)
	}
	return ids, nil
}

// setScopeOrder ranks the scope in the order of ids, which must name every
// row of the scope exactly once.
func setScopeOrder(tx *gorm.DB, s rankScope, ids []uint) error {
	current, err := scopeOrder(tx, s)
	if err != nil {
		return err
	}
	if len(current) != len(ids) {
		return newFieldError("order", fmt.Sprintf("expected %d ids, got %d", len(current), len(ids)))
	}

	members := make(map[uint]bool, len(current))
	for _, id := range current {
		members[id] = true
	}
	for _, id := range ids {
		if !members[id] {
			return newFieldError("order", fmt.Sprintf("id %d is not in this group or is repeated", id))
		}
		delete(members, id)
	}

	for rank, id := range ids {
		if err := tx.Table(s.table).Where("id = ?", id).UpdateColumn("sort_order", rank).Error; err != nil {
			return fmt.Errorf("rank %s %d: %w", s.table, id, err)
		}
	}
	return nil
}

// Neighbors holds the records ranked directly before and after a record
// within its scope.
type Neighbors struct {
	PreviousID *uint `json:"previous_id"`
	NextID     *uint `json:"next_id"`
}

func scopeNeighbors(tx *gorm.DB, s rankScope, rank int) (Neighbors, error) {
	var n Neighbors

	var prev []uint
	if err := s.rows(tx).Where("sort_order < ?", rank).
		Order("sort_order DESC").Limit(1).Pluck("id", &prev).Error; err != nil {
		return n, fmt.Errorf("read previous in %s: %w", s.table, err)
	}
	if len(prev) == 1 {
		n.PreviousID = &prev[0]
	}

	var next []uint
	if err := s.rows(tx).Where("sort_order > ?", rank).
		Order("sort_order ASC").Limit(1).Pluck("id", &next).Error; err != nil {
		return n, fmt.Errorf("read next in %s: %w", s.table, err)
	}
	if len(next) == 1 {
		n.NextID = &next[0]
	}
	return n, nil
}
