package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// NoAwardNumber is stored in Funding.Number when an award has no number.
const NoAwardNumber = "N/A"

// Funding is an award held by a user.
type Funding struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	AwardedToID   uint           `gorm:"not null;index" json:"awarded_to_id" validate:"required"`
	FundingTypeID uint           `gorm:"not null;index" json:"funding_type_id" validate:"required"`
	FundingSource string         `gorm:"size:64;not null" json:"funding_source" validate:"required,max=64"` // agency: NIH, NSF, DoD, ...
	Name          string         `gorm:"size:128;not null" json:"name" validate:"required,max=128"`
	ShortName     string         `gorm:"size:32;not null" json:"short_name" validate:"required,max=32"`
	Number        string         `gorm:"size:64;not null" json:"number" validate:"required,max=64"`
	DeptID        string         `gorm:"column:dept_id;size:7;not null" json:"dept_id" validate:"required,max=7"`
	GrantCode     string         `gorm:"size:6;not null;default:''" json:"grant_code" validate:"max=6"`
	StartDate     datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate       datatypes.Date `gorm:"not null;index" json:"end_date"`
	Abstract      string         `gorm:"type:text;not null;default:''" json:"abstract"`

	// Relationships
	AwardedTo   User        `gorm:"foreignKey:AwardedToID;constraint:OnDelete:RESTRICT" json:"awarded_to,omitempty" validate:"-"`
	FundingType FundingType `gorm:"foreignKey:FundingTypeID;constraint:OnDelete:RESTRICT" json:"funding_type,omitempty" validate:"-"`
}

// TableName keeps the plural the same as the model name.
func (Funding) TableName() string {
	return "funding"
}

// DeptIDGrantCode joins the internal department ID and grant code with a
// hyphen. An empty grant code still yields the hyphen ("AS12345-").
func (f Funding) DeptIDGrantCode() string {
	return fmt.Sprintf("%s-%s", f.DeptID, f.GrantCode)
}

// String requires FundingType and AwardedTo to be loaded.
func (f Funding) String() string {
	return fmt.Sprintf("%s (%s %s, %s)", f.DeptIDGrantCode(), f.ShortName, f.FundingType, f.AwardedTo)
}
