package models

import "time"

// Customer has no login. Phone holds the normalized digits and is unique per tenant.
type Customer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"not null;uniqueIndex:idx_customers_tenant_phone,priority:1" json:"tenant_id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Phone     string `gorm:"size:20;not null;uniqueIndex:idx_customers_tenant_phone,priority:2" json:"phone"`
	CreatedBy string `gorm:"size:128;index" json:"created_by"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
