// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package) and the translation of service
// errors into those codes (`failErr()`). Codes give clients a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Generic codes (e.g., bad_request, forbidden, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - invalid_state and unavailable carry the matching engine's outcomes that
//     a status alone would blur (409 is used for both a lost race and a
//     closed swap).
//
// Service outcome → HTTP:
//
//	unauthorized  → 403 forbidden
//	invalid_state → 409 invalid_state
//	not_found     → 404 not_found
//	validation    → 400 validation_failed
//	conflict      → 409 conflict
//	transient     → 503 unavailable (Retry-After: 1)
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "invalid_state",
//	  "message": "That action is no longer available",
//	  "outcome": "invalid_state"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeInternal     = "internal_error"
	ErrCodeUnavailable  = "unavailable"

	// Domain-specific:
	ErrCodeValidation       = "validation_failed"
	ErrCodeInvalidState     = "invalid_state"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// statusFor maps a service outcome onto an HTTP status and error code.
func statusFor(o services.Outcome) (int, string) {
	switch o {
	case services.OutcomeUnauthorized:
		return http.StatusForbidden, ErrCodeForbidden
	case services.OutcomeInvalidState:
		return http.StatusConflict, ErrCodeInvalidState
	case services.OutcomeNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case services.OutcomeValidation:
		return http.StatusBadRequest, ErrCodeValidation
	case services.OutcomeConflict:
		return http.StatusConflict, ErrCodeConflict
	default:
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	}
}

// failErr writes the error envelope for a service error. msg overrides the
// message for every outcome except validation, whose field detail is always
// returned; an empty msg uses the error text, or a generic text for
// transient failures so store details never reach clients.
func failErr(c *gin.Context, err error, msg string) {
	out := services.Classify(err)
	status, code := statusFor(out)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		msg = verr.Error()
	case msg != "":
	case out == services.OutcomeTransient:
		msg = "service temporarily unavailable"
	default:
		msg = err.Error()
	}

	if out == services.OutcomeTransient {
		c.Header("Retry-After", "1")
		_ = c.Error(err)
	}
	failWithOutcome(c, status, code, msg, out)
}
