package reservation

import (
	"errors"

	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
)

// notFound turns a missing row into NOT_FOUND and anything else into INTERNAL_ERROR.
func notFound(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(what + "_not_found")
	}
	return httperr.ErrInternal(err)
}
