package v1

import (
	"errors"
	"net/http"

	"github.com/hearthledger/backend/internal/models"
)

// status returns the appropriate HTTP status for an error.
//
// Not found errors map to 404 and unexpected database errors to 500.
// Everything else is a client error: validation failures from the
// model hooks, lifecycle violations and conservation violations.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errDaysInvalid  = errors.New("the days parameter must be between 1 and 365")
	errMonthInvalid = errors.New("the month must be specified as YYYY-MM")
	errRangeInvalid = errors.New("the from and to parameters must be valid dates with from not after to")
)
