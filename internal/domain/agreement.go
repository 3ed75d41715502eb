package domain

import "errors"

// AgreeState tracks one- or two-sided consent on a single offer.
//
//	NONE  --owner-->   REQ   --offerer--> MATCHED
//	NONE  --offerer--> OFFER --owner-->   MATCHED
//	REQ|OFFER --unagree--> NONE
//
// MATCHED is terminal.
type AgreeState string

const (
	AgreeNone    AgreeState = "NONE"
	AgreeReq     AgreeState = "REQ"
	AgreeOffer   AgreeState = "OFFER"
	AgreeMatched AgreeState = "MATCHED"
)

// Role is the side of an offer an acting user is on.
type Role int

const (
	RoleNone Role = iota
	RoleOwner
	RoleOfferer
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleOfferer:
		return "offerer"
	default:
		return "none"
	}
}

// ErrUnknownAgreeState is returned for values outside the four known states.
var ErrUnknownAgreeState = errors.New("unknown agree state")

// ErrNoParty is returned when a transition is requested without a role.
var ErrNoParty = errors.New("actor is not a party to the offer")

// Valid reports whether s is one of the known states.
func (s AgreeState) Valid() bool {
	switch s {
	case AgreeNone, AgreeReq, AgreeOffer, AgreeMatched:
		return true
	}
	return false
}

// ConsentedBy reports whether the given side has consented in state s.
func (s AgreeState) ConsentedBy(r Role) bool {
	switch s {
	case AgreeMatched:
		return r == RoleOwner || r == RoleOfferer
	case AgreeReq:
		return r == RoleOwner
	case AgreeOffer:
		return r == RoleOfferer
	}
	return false
}

// Pending reports whether exactly one side has consented.
func (s AgreeState) Pending() bool { return s == AgreeReq || s == AgreeOffer }

// Agree returns the state after side r signals consent. A side that already
// consented leaves the state unchanged. Consent from the counterpart of a
// pending state yields MATCHED; NONE never reaches MATCHED in one step.
func (s AgreeState) Agree(r Role) (AgreeState, error) {
	if r != RoleOwner && r != RoleOfferer {
		return s, ErrNoParty
	}
	switch s {
	case AgreeNone:
		if r == RoleOwner {
			return AgreeReq, nil
		}
		return AgreeOffer, nil
	case AgreeReq:
		if r == RoleOfferer {
			return AgreeMatched, nil
		}
		return AgreeReq, nil
	case AgreeOffer:
		if r == RoleOwner {
			return AgreeMatched, nil
		}
		return AgreeOffer, nil
	case AgreeMatched:
		return AgreeMatched, nil
	}
	return s, ErrUnknownAgreeState
}

// Unagree returns NONE for a pending state. ok is false for NONE and MATCHED,
// which cannot be withdrawn from.
func (s AgreeState) Unagree() (next AgreeState, ok bool) {
	if s.Pending() {
		return AgreeNone, true
	}
	return s, false
}
