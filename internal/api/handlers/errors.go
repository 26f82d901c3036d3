package handlers

import (
	"errors"
	"net/http"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/api/response"
)

// statusForError maps application errors onto HTTP status codes. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrSettingNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrEmptyID),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidHoldingKind),
		errors.Is(err, apperrors.ErrInvalidSeriesKind),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAPIKeyMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err as a structured error response with the
// mapped status code.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	response.RespondError(w, statusForError(err), message, err.Error())
}
