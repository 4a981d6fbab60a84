package model

import (
	"time"
)

// User is the external account referenced as a department or program chair,
// a workgroup lead and a funding recipient. Accounts are managed elsewhere;
// this table only gives those references something to point at.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username" validate:"required,max=150"`
	Email     string    `gorm:"size:254" json:"email" validate:"omitempty,email,max=254"`
}

// String returns the username.
func (u User) String() string {
	return u.Username
}
