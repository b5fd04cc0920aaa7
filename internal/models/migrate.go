package models

// All lists every table owned by this service, in dependency order.
func All() []any {
	return []any{
		&Tenant{},
		&TenantMembership{},
		&Resource{},
		&ServiceOffering{},
		&WorkingHours{},
		&Customer{},
		&Block{},
		&Reservation{},
		&PlanQuota{},
		&AuditLog{},
	}
}
