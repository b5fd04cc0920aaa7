package models

import "time"

// Block is a manual busy interval on a resource (day off, meeting, ...).
type Block struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TenantID   uint `gorm:"not null;index" json:"tenant_id"`
	ResourceID uint `gorm:"not null;index:idx_blocks_resource_start,priority:1" json:"resource_id"`

	StartTime time.Time `gorm:"not null;index:idx_blocks_resource_start,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
