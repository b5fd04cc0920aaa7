package reservation

import "github.com/BruksfildServices01/agenda-core/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCommitted Status = "committed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanCommit only a pending reservation may be committed
func CanCommit(current Status) error {
	if current != StatusPending {
		return httperr.ErrBadRequest("invalid_state")
	}
	return nil
}

// CanCancel only a committed reservation may be cancelled
func CanCancel(current Status) error {
	if current != StatusCommitted {
		return httperr.ErrBadRequest("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
