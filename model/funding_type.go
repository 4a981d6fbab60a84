package model

import "time"

// FundingType is a kind of award (grant, contract, cooperative agreement, ...).
type FundingType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name" validate:"required,max=64"`
	ShortName *string   `gorm:"size:16" json:"short_name" validate:"omitempty,max=16"`
	Notes     *string   `gorm:"type:text" json:"notes"`
}

func (t FundingType) String() string {
	return t.Name
}
