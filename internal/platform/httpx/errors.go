package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-tours/meridian/internal/shared"
)

// RespondError maps cross-cutting domain errors to HTTP responses using
// RFC7807. Domain-specific kinds (rate gaps, ledger violations) are mapped
// in their own handlers before falling through to this.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, shared.ErrTenantMissing):
		Problem(w, http.StatusBadRequest, "Tenant Missing", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
