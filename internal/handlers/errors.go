package handlers

import (
	"errors"
	"net/http"

	"github.com/ascendo/trainboard/internal/models"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
)

// writeServiceError maps service-layer errors onto the API's error bodies.
func writeServiceError(w http.ResponseWriter, err error) {
	var rateLimited *models.RateLimitError
	if errors.As(err, &rateLimited) {
		pkghttp.WriteRateLimited(w, rateLimited.Code(), rateLimited.Error(), rateLimited.Seconds)
		return
	}

	var invalidCreds *models.InvalidCredentialsError
	if errors.As(err, &invalidCreds) {
		pkghttp.WriteUnauthorizedWithTimeout(w, "INVALID_CREDENTIALS", invalidCreds.Error(), invalidCreds.Seconds)
		return
	}

	switch {
	case errors.Is(err, models.ErrUsernameExists):
		pkghttp.WriteConflict(w, "USERNAME_EXISTS", err.Error())
	case errors.Is(err, models.ErrNotAuthenticated):
		pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", err.Error())
	case errors.Is(err, models.ErrInvalidToken):
		pkghttp.WriteUnauthorized(w, "INVALID_TOKEN", err.Error())
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, err.Error())
	case errors.Is(err, models.ErrInvalidSector):
		pkghttp.WriteBadRequest(w, "INVALID_SECTOR", err.Error())
	case errors.Is(err, models.ErrEmptyHoldSequence):
		pkghttp.WriteBadRequest(w, "INVALID_HOLD_SEQUENCE", err.Error())
	default:
		pkghttp.WriteInternalError(w, "internal server error")
	}
}
