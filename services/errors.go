package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilchouksey/go-institutions/utils/validation"
)

// ErrNotFound is returned when a record looked up by primary key does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports rejected field values, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasField reports whether field was rejected.
func (e *ValidationError) HasField(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// ReferencedError is returned when a delete is refused because other records
// still point at the target.
type ReferencedError struct {
	Model      string
	ID         uint
	Dependents map[string]int64 // table -> referencing row count
}

func (e *ReferencedError) Error() string {
	if len(e.Dependents) == 0 {
		return fmt.Sprintf("cannot delete %s %d: still referenced", e.Model, e.ID)
	}
	tables := make([]string, 0, len(e.Dependents))
	for table := range e.Dependents {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	parts := make([]string, 0, len(tables))
	for _, table := range tables {
		parts = append(parts, fmt.Sprintf("%d %s", e.Dependents[table], table))
	}
	return fmt.Sprintf("cannot delete %s %d: referenced by %s", e.Model, e.ID, strings.Join(parts, ", "))
}

// checkRecord runs the struct-tag constraints of a model.
func checkRecord(v *validation.Validator, record interface{}) error {
	if err := v.ValidateStruct(record); err != nil {
		fields := validation.FormatValidationErrors(err)
		if len(fields) == 0 {
			return fmt.Errorf("validate record: %w", err)
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}
