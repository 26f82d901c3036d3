// Package validation provides shared input validation helpers used by the
// HTTP layer and middleware.
package validation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

// ValidateUUID checks that s is a well-formed UUID.
func ValidateUUID(s string) error {
	if s == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, s)
	}
	return nil
}

// ValidateDate checks that s is a well-formed YYYY-MM-DD date.
func ValidateDate(s string) error {
	if !model.IsValidDate(s) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, s)
	}
	return nil
}
