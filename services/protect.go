package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// reference is a column of another table that points at a protected record.
type reference struct {
	table  string
	column string
}

var (
	institutionRefs = []reference{
		{table: "institutions", column: "parent_id"},
		{table: "departments", column: "institution_id"},
		{table: "programs", column: "institution_id"},
	}
	departmentRefs      = []reference{{table: "workgroups", column: "department_id"}}
	leadershipTitleRefs = []reference{{table: "workgroups", column: "lead_title_id"}}
	fundingTypeRefs     = []reference{{table: "funding", column: "funding_type_id"}}
	userRefs            = []reference{
		{table: "departments", column: "chair_id"},
		{table: "programs", column: "chair_id"},
		{table: "workgroups", column: "lead_id"},
		{table: "funding", column: "awarded_to_id"},
	}
)

// protect refuses the delete of modelName id while any reference still
// points at it. It runs inside the deleting transaction.
func protect(tx *gorm.DB, modelName string, id uint, refs []reference) error {
	dependents := map[string]int64{}
	for _, ref := range refs {
		var count int64
		if err := tx.Table(ref.table).Where(ref.column+" = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s referencing %s: %w", ref.table, modelName, err)
		}
		if count > 0 {
			dependents[ref.table] += count
		}
	}
	if len(dependents) > 0 {
		return &ReferencedError{Model: modelName, ID: id, Dependents: dependents}
	}
	return nil
}

// deleteProtected deletes record once protect passes. A reference inserted
// after the count still trips the foreign key and is reported the same way.
func deleteProtected(tx *gorm.DB, modelName string, id uint, refs []reference, record interface{}) error {
	if err := protect(tx, modelName, id, refs); err != nil {
		return err
	}
	if err := tx.Delete(record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return &ReferencedError{Model: modelName, ID: id}
		}
		return fmt.Errorf("delete %s %d: %w", modelName, id, err)
	}
	return nil
}

// duplicateField reports a unique-index violation raised by the store as a
// ValidationError on field. It returns nil for any other error.
func duplicateField(err error, field, message string) *ValidationError {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newFieldError(field, message)
	}
	return nil
}

// requireRow checks that a referenced record exists, reporting a missing one
// against the JSON field that named it.
func requireRow(tx *gorm.DB, table, field string, id uint) error {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("look up %s %d: %w", table, id, err)
	}
	if count == 0 {
		return newFieldError(field, fmt.Sprintf("%s %d does not exist", table, id))
	}
	return nil
}
