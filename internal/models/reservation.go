package models

import "time"

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint `gorm:"not null;index" json:"tenant_id"`

	ResourceID uint     `gorm:"not null;uniqueIndex:idx_reservations_resource_start,priority:1,where:status = 'committed'" json:"resource_id"`
	Resource   Resource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ServiceID uint             `gorm:"not null" json:"service_id"`
	Service   *ServiceOffering `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	StartTime time.Time `gorm:"not null;uniqueIndex:idx_reservations_resource_start,priority:2,where:status = 'committed'" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CommittedAt *time.Time `json:"committed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
