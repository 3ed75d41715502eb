package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDesiredCRNs caps how many alternatives a swap request may list.
const MaxDesiredCRNs = 5

// MaxMessageRunes caps offer message bodies.
const MaxMessageRunes = 500

var crnRE = regexp.MustCompile(`^\d{5}$`)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ValidCRN reports whether s is exactly five ASCII digits.
func ValidCRN(s string) bool { return crnRE.MatchString(s) }

// ValidateSwap checks the data-model invariants of a new swap request and
// normalizes whitespace in place.
func ValidateSwap(s *SwapRequest) error {
	s.OwnerID = strings.TrimSpace(s.OwnerID)
	s.CourseID = strings.TrimSpace(s.CourseID)
	s.Term = strings.TrimSpace(s.Term)
	s.CurrentCRN = strings.TrimSpace(s.CurrentCRN)

	if s.OwnerID == "" {
		return invalid("owner_id", "required")
	}
	if s.CourseID == "" {
		return invalid("course_id", "required")
	}
	if s.Term == "" {
		return invalid("term", "required")
	}
	if !ValidCRN(s.CurrentCRN) {
		return invalid("current_crn", "must be exactly 5 digits")
	}
	if len(s.DesiredCRNs) < 1 || len(s.DesiredCRNs) > MaxDesiredCRNs {
		return invalid("desired_crns", fmt.Sprintf("must list between 1 and %d sections", MaxDesiredCRNs))
	}
	seen := make(map[string]struct{}, len(s.DesiredCRNs))
	for i, c := range s.DesiredCRNs {
		c = strings.TrimSpace(c)
		s.DesiredCRNs[i] = c
		if !ValidCRN(c) {
			return invalid("desired_crns", fmt.Sprintf("%q must be exactly 5 digits", c))
		}
		if c == s.CurrentCRN {
			return invalid("desired_crns", "must not contain current_crn")
		}
		if _, dup := seen[c]; dup {
			return invalid("desired_crns", fmt.Sprintf("%q listed twice", c))
		}
		seen[c] = struct{}{}
	}
	return nil
}

// ValidateOffer checks a new offer's own fields. Cross-record rules (offerer
// differs from owner, swap open) belong to the service layer.
func ValidateOffer(o *Offer) error {
	o.OfferedCRN = strings.TrimSpace(o.OfferedCRN)
	if strings.TrimSpace(o.OffererID) == "" {
		return invalid("offerer_id", "required")
	}
	if !ValidCRN(o.OfferedCRN) {
		return invalid("offered_crn", "must be exactly 5 digits")
	}
	return nil
}

// ValidateMessageBody trims and bounds an offer message body.
func ValidateMessageBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("body", "must not be empty")
	}
	if utf8.RuneCountInString(body) > MaxMessageRunes {
		return "", invalid("body", fmt.Sprintf("must be at most %d characters", MaxMessageRunes))
	}
	return body, nil
}

// ValidateUser fails fast on records missing required contact fields.
func ValidateUser(u *User) error {
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.ID == "" {
		return invalid("id", "required")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return invalid("email", "must be a valid address")
	}
	if u.Name == "" {
		return invalid("name", "required")
	}
	return nil
}
