package models

import "time"

// PlanQuota is owned by billing and only read here.
type PlanQuota struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TenantID      uint   `gorm:"not null;uniqueIndex" json:"tenant_id"`
	PlanType      string `gorm:"size:30;not null;default:'free'" json:"plan_type"`
	CustomerLimit int64  `gorm:"not null;default:0" json:"customer_limit"`

	UpdatedAt time.Time `json:"updated_at"`
}
