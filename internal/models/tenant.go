package models

import "time"

type Tenant struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	OwnerID string `gorm:"size:128;index;not null" json:"owner_id"`

	Timezone        string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	OpenTime        string `gorm:"size:5;default:'09:00'" json:"open_time"`
	CloseTime       string `gorm:"size:5;default:'18:00'" json:"close_time"`

	// Nil scheduling settings fall back to the service defaults.
	SlotIntervalMin *int `json:"slot_interval_min"`
	LeadTimeMin     *int `json:"lead_time_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MembershipRoleManager = "manager"
	MembershipRoleStaff   = "staff"
)

// TenantMembership grants a non-owner principal access to a tenant.
// AssignedOnly narrows customer visibility to rows the member created.
type TenantMembership struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TenantID     uint   `gorm:"not null;uniqueIndex:idx_memberships_tenant_principal,priority:1" json:"tenant_id"`
	PrincipalID  string `gorm:"size:128;not null;uniqueIndex:idx_memberships_tenant_principal,priority:2" json:"principal_id"`
	Role         string `gorm:"size:20;default:'staff'" json:"role"`
	AssignedOnly bool   `gorm:"default:false" json:"assigned_only"`

	CreatedAt time.Time `json:"created_at"`
}
