package model

import (
	"time"
)

// Institution is a university, school or any other body departments and
// programs belong to. Institutions form a tree through Parent.
type Institution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Name      string    `gorm:"size:64;not null" json:"name" validate:"required,max=64"`
	ShortName string    `gorm:"size:16;not null" json:"short_name" validate:"required,max=16"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"` // rank among siblings sharing ParentID

	// Relationships
	Parent      *Institution  `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT" json:"parent,omitempty" validate:"-"`
	Departments []Department  `gorm:"foreignKey:InstitutionID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	Programs    []Program     `gorm:"foreignKey:InstitutionID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	Children    []Institution `gorm:"foreignKey:ParentID" json:"-" validate:"-"`
}

// IsRoot reports whether the institution has no parent.
func (i Institution) IsRoot() bool {
	return i.ParentID == nil
}

// String builds "name, parent, grandparent, ..." from the loaded Parent chain.
// The chain must be loaded up to the root; an unloaded parent ends the string.
func (i Institution) String() string {
	if i.Parent == nil {
		return i.Name
	}
	return i.Name + ", " + i.Parent.String()
}
