package model

import (
	"strings"
	"time"
)

// Workgroup is a lab, center or other group attached to a department and
// optionally affiliated with programs.
type Workgroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id" validate:"required"`
	LeadID       uint      `gorm:"not null;index" json:"lead_id" validate:"required"`
	LeadTitleID  uint      `gorm:"not null;index" json:"lead_title_id" validate:"required"`
	Name         string    `gorm:"size:128;not null;index" json:"name" validate:"required,max=128"`
	Location     string    `gorm:"size:128;not null" json:"location" validate:"required,max=128"` // building and room

	// Relationships
	Department Department      `gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT" json:"department,omitempty" validate:"-"`
	Lead       User            `gorm:"foreignKey:LeadID;constraint:OnDelete:RESTRICT" json:"lead,omitempty" validate:"-"`
	LeadTitle  LeadershipTitle `gorm:"foreignKey:LeadTitleID;constraint:OnDelete:RESTRICT" json:"lead_title,omitempty" validate:"-"`
	Programs   []Program       `gorm:"many2many:workgroup_programs" json:"programs,omitempty" validate:"-"`
}

// String returns "name, DEPT_INST" followed by "/INST" for every distinct
// institution among the workgroup's programs, in program order.
//
// Department.Institution and Programs[*].Institution must be loaded. The
// department's institution is not removed from the program list, so a group
// whose programs sit in its own institution shows that short name twice.
func (w Workgroup) String() string {
	var b strings.Builder
	b.WriteString(w.Name)
	b.WriteString(", ")
	b.WriteString(w.Department.Institution.ShortName)

	seen := make(map[uint]bool, len(w.Programs))
	for _, p := range w.Programs {
		if seen[p.InstitutionID] {
			continue
		}
		seen[p.InstitutionID] = true
		b.WriteString("/")
		b.WriteString(p.Institution.ShortName)
	}
	return b.String()
}
