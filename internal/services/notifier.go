package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Event describes a finished matching-engine operation.
type Event struct {
	Op      string
	Outcome Outcome
	SwapID  string
	OfferID string
	ActorID string
	Matched bool
	Err     error
}

// Message returns the user-facing text for the event.
func (e Event) Message() string {
	switch e.Outcome {
	case OutcomeSuccess:
		switch {
		case e.Matched && e.Op == "agree":
			return "Swap matched! Emails have been revealed."
		case e.Op == "withdraw":
			return "Offer withdrawn"
		case e.Op == "close":
			return "Swap closed"
		default:
			return "Agreement updated"
		}
	case OutcomeUnauthorized:
		return "You are not allowed to do that"
	case OutcomeInvalidState:
		return "That action is no longer available"
	case OutcomeNotFound:
		return "Not found"
	case OutcomeConflict:
		return "Someone else updated this swap, please try again"
	case OutcomeValidation:
		return "Invalid request"
	default:
		return "Failed to update agreement"
	}
}

// Notifier receives engine outcomes. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// LogNotifier emits each event as a structured zerolog line.
type LogNotifier struct {
	Logger *zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, e Event) {
	l := n.Logger
	if l == nil {
		l = &log.Logger
	}
	ev := l.Info()
	if e.Outcome == OutcomeTransient || e.Outcome == OutcomeConflict {
		ev = l.Warn().Err(e.Err)
	}
	ev.Str("op", e.Op).
		Str("outcome", string(e.Outcome)).
		Str("swap_id", e.SwapID).
		Str("offer_id", e.OfferID).
		Str("actor_id", e.ActorID).
		Bool("matched", e.Matched).
		Msg(e.Message())
}

// NopNotifier discards events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Event) {}
