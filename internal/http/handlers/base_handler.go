// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hitch/internal/modules/driver"
	"hitch/internal/modules/matching"
	"hitch/internal/modules/passenger"
	"hitch/internal/modules/pricing"
	"hitch/internal/modules/request"
	"hitch/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps the module sentinel errors onto HTTP statuses:
// validation 400, unknown id 404, state/business conflicts 409,
// everything else 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrValidation),
		errors.Is(err, request.ErrValidation),
		errors.Is(err, ride.ErrValidation),
		errors.Is(err, passenger.ErrValidation),
		errors.Is(err, driver.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, request.ErrNotFound),
		errors.Is(err, request.ErrPassengerNotFound),
		errors.Is(err, ride.ErrNotFound),
		errors.Is(err, passenger.ErrNotFound),
		errors.Is(err, driver.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, request.ErrActiveRide),
		errors.Is(err, request.ErrInvalidState),
		errors.Is(err, request.ErrConflict),
		errors.Is(err, ride.ErrInvalidState),
		errors.Is(err, ride.ErrConflict),
		errors.Is(err, driver.ErrUnavailable),
		errors.Is(err, driver.ErrPhoneTaken),
		errors.Is(err, passenger.ErrPhoneTaken),
		errors.Is(err, matching.ErrRequestTaken),
		errors.Is(err, matching.ErrCategoryMismatch):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
