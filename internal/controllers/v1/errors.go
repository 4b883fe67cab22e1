package v1

import (
	"errors"
	"net/http"

	"github.com/jobcast/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Allocation endpoint errors
var (
	errWindowInvalid       = errors.New("the window parameter must be \"full\" or \"fiscal\"")
	errBulkOperationInvalid = errors.New("the operation must be straightLine, distributeRemaining or clearProjections")
	errCommitActualChanged  = errors.New("committed views must not change months recorded as actual")
)
