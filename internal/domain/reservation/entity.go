package reservation

import (
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Commit(r *models.Reservation, now time.Time) error {
	if err := CanCommit(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCommitted)
	r.CommittedAt = &now
	return nil
}

func Cancel(r *models.Reservation, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	return nil
}
