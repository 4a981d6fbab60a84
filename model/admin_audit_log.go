package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAuditLog records one successful write made through the admin API.
// AdminID comes from the token and is not a foreign key: tokens are issued
// for accounts that need not exist in the users table.
type AdminAuditLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AdminID       uint           `gorm:"not null;index" json:"admin_id"`
	AdminUsername string         `gorm:"type:varchar(150)" json:"admin_username"`
	Action        string         `gorm:"type:varchar(20);not null;index" json:"action"` // create, update, delete, reorder
	Resource      string         `gorm:"type:varchar(100);index" json:"resource"`       // e.g. "institutions", "fundings"
	ResourceID    uint           `json:"resource_id"`
	NewValue      datatypes.JSON `json:"new_value"`
	Status        int            `json:"status"`
	IPAddress     string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent     string         `gorm:"type:text" json:"user_agent"`
	Description   string         `gorm:"type:text" json:"description"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
