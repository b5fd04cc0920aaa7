package access

import "errors"

// Principal is the authenticated caller as resolved by the auth middleware.
type Principal struct {
	Subject string
}

func (p Principal) IsZero() bool {
	return p.Subject == ""
}

// ===============================
// Tenant scope
// ===============================

// TenantScope is the capability handed out by the Authorizer once a principal
// has been granted access to a tenant. Reads made with it see only what the
// principal may see.
type TenantScope struct {
	tenantID     uint
	principalID  string
	assignedOnly bool
}

var ErrEmptyScope = errors.New("access: empty scope")

// NewTenantScope is meant for the Authorizer and for tests.
func NewTenantScope(tenantID uint, principalID string, assignedOnly bool) TenantScope {
	return TenantScope{
		tenantID:     tenantID,
		principalID:  principalID,
		assignedOnly: assignedOnly,
	}
}

func (s TenantScope) TenantID() uint      { return s.tenantID }
func (s TenantScope) PrincipalID() string { return s.principalID }

// AssignedOnly is true when the principal only sees customers it created.
func (s TenantScope) AssignedOnly() bool { return s.assignedOnly }

func (s TenantScope) Valid() error {
	if s.tenantID == 0 || s.principalID == "" {
		return ErrEmptyScope
	}
	return nil
}

// ===============================
// System scope
// ===============================

// SystemScope bypasses per-principal visibility. It exists for trusted
// aggregate reads such as quota enforcement and must never be used to
// return rows to a caller.
type SystemScope struct {
	purpose string
}

func System(purpose string) SystemScope {
	return SystemScope{purpose: purpose}
}

func (s SystemScope) Purpose() string { return s.purpose }
