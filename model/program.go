package model

import (
	"fmt"
	"time"
)

// Program is an academic program run by an institution. It shares its shape
// with Department but is a separate concept: a program is not a department.
type Program struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `gorm:"not null;index" json:"institution_id" validate:"required"`
	ChairID       uint      `gorm:"not null;index" json:"chair_id" validate:"required"`
	Name          string    `gorm:"size:128;not null" json:"name" validate:"required,max=128"`
	Abbreviation  string    `gorm:"size:8;not null" json:"abbreviation" validate:"required,max=8"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"` // rank within InstitutionID

	// Relationships
	Institution Institution `gorm:"foreignKey:InstitutionID;constraint:OnDelete:RESTRICT" json:"institution,omitempty" validate:"-"`
	Chair       User        `gorm:"foreignKey:ChairID;constraint:OnDelete:RESTRICT" json:"chair,omitempty" validate:"-"`
}

// String requires Institution to be loaded.
func (p Program) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Institution.ShortName)
}
