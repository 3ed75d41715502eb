// Package services defines the business logic for swap requests, offers, the
// agreement/matching engine, offer messages, the course catalog and the user
// dashboard. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer, driven by Classify.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/repo"
)

var (
	// ErrUnauthorized is returned when the acting user is not the party an
	// operation requires (swap owner, offerer, or either of them).
	ErrUnauthorized = errors.New("not permitted for this user")

	// ErrInvalidTransition is returned when the current state of a swap or
	// offer does not permit the requested operation.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrSwapNotFound indicates that the referenced swap request does not exist.
	ErrSwapNotFound = errors.New("swap not found")

	// ErrOfferNotFound indicates that the referenced offer does not exist.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrUserNotFound indicates that a referenced user profile is missing.
	ErrUserNotFound = errors.New("user not found")

	// ErrValidation wraps a *domain.ValidationError describing the bad field.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateOffer is returned when the offerer already has an active
	// offer on the swap.
	ErrDuplicateOffer = errors.New("an active offer already exists for this swap")

	// ErrConflict is returned when a compare-and-swap kept losing to
	// concurrent writers after the configured number of retries.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrTransient wraps persistence failures. Callers may retry.
	ErrTransient = errors.New("store unavailable")
)

// Outcome is the caller-facing classification of an operation result.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeInvalidState Outcome = "invalid_state"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeValidation   Outcome = "validation"
	OutcomeConflict     Outcome = "conflict"
	OutcomeTransient    Outcome = "transient"
)

// Classify maps err onto an Outcome. Errors outside the service taxonomy are
// treated as transient store failures.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, ErrInvalidTransition):
		return OutcomeInvalidState
	case errors.Is(err, ErrSwapNotFound), errors.Is(err, ErrOfferNotFound),
		errors.Is(err, ErrUserNotFound), errors.Is(err, ErrCourseNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrValidation):
		return OutcomeValidation
	case errors.Is(err, ErrDuplicateOffer), errors.Is(err, ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeTransient
	}
}

// invalid wraps a domain validation error so both ErrValidation and the
// *domain.ValidationError are reachable through errors.Is / errors.As.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// transient wraps a store error with ErrTransient. Sentinels from this
// package pass through unchanged.
func transient(err error) error {
	if err == nil || Classify(err) != OutcomeTransient || errors.Is(err, ErrTransient) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// notFoundAs maps a repo not-found error onto sentinel and anything else onto
// a transient failure.
func notFoundAs(err, sentinel error) error {
	if isNotFound(err) {
		return sentinel
	}
	return transient(err)
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
