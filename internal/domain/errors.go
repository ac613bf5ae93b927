package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrPersistence         = errors.New("persistence failure")
)

// ErrCampaignFunded rejects deleting a campaign that has received donations.
// Such a campaign can only be cancelled, which keeps its donation history.
var ErrCampaignFunded = fmt.Errorf("%w: campaign has received donations and cannot be deleted, cancel it instead", ErrValidation)

// Invalid wraps ErrValidation with a caller-facing message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound for the named entity.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// Forbidden wraps ErrForbidden with a caller-facing message.
func Forbidden(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// Conflict wraps ErrConflict with a caller-facing message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// Persistence wraps a storage failure so callers can surface it as retryable.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
