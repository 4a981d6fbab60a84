package model

import "time"

// LeadershipTitle names the role of a workgroup lead, e.g. "Principal Investigator".
type LeadershipTitle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"size:128;uniqueIndex;not null" json:"title" validate:"required,max=128"`
	TitleAbbrev *string   `gorm:"size:16" json:"title_abbrev" validate:"omitempty,max=16"`
	Notes       *string   `gorm:"type:text" json:"notes"`
}

func (t LeadershipTitle) String() string {
	return t.Title
}
