// Package services – MatchService
//
// This file implements the agreement/matching engine. It mediates consent
// between a swap's owner and an offer's offerer and, on mutual consent,
// atomically marks the offer MATCHED and the swap matched, unlocking contact
// disclosure for both parties.
//
// Every mutating call runs its decide-and-commit step in a single
// transaction, serialized per swap by an in-process keyed mutex. Across
// processes the swap row's version column guards every consent write: a lost
// compare-and-swap rolls the transaction back and the step is re-run up to
// MaxRetries times.
//
// Pairing is per offer: the owner and the offerer must both consent to the
// same offer. Once a swap matches, pending consent on its other offers is
// cleared in the same transaction.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"
	"github.com/tbourn/course-swap-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// errRetry marks a lost compare-and-swap inside a transaction.
var errRetry = errors.New("retry")

// AgreeResult is the state of an offer and its swap after Agree.
type AgreeResult struct {
	Offer *domain.Offer       `json:"offer"`
	Swap  *domain.SwapRequest `json:"swap"`
	// State is the offer's agreement state after the call.
	State domain.AgreeState `json:"agree_state"`
	// Matched is true when the swap is matched, whether by this call or earlier.
	Matched bool `json:"matched"`
	// Changed is false for no-op calls.
	Changed bool `json:"changed"`
}

// ContactUser exposes a user's email alongside the public profile.
// domain.User hides Email from JSON.
type ContactUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MatchService is the agreement/matching engine.
type MatchService struct {
	DB       *gorm.DB
	Notifier Notifier

	// MaxRetries bounds compare-and-swap attempts per call (default 3).
	MaxRetries int

	locks keyedMutex
}

// NewMatchService constructs a MatchService logging outcomes through zerolog.
func NewMatchService(db *gorm.DB, maxRetries int) *MatchService {
	return &MatchService{DB: db, Notifier: LogNotifier{}, MaxRetries: maxRetries}
}

func (s *MatchService) retries() int {
	if s.MaxRetries <= 0 {
		return 3
	}
	return s.MaxRetries
}

// roleOf returns actorID's side of offer o on swap sw.
func roleOf(sw *domain.SwapRequest, o *domain.Offer, actorID string) domain.Role {
	switch actorID {
	case "":
		return domain.RoleNone
	case sw.OwnerID:
		return domain.RoleOwner
	case o.OffererID:
		return domain.RoleOfferer
	}
	return domain.RoleNone
}

// withSwap serializes fn on swapID and re-runs it while it reports a lost
// compare-and-swap.
func (s *MatchService) withSwap(ctx context.Context, swapID string, fn func(tx *gorm.DB) error) error {
	unlock := s.locks.Lock(swapID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return transient(err)
		}
		err := s.DB.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, errRetry) {
			return err
		}
		matchConflictsTotal.Inc()
		if attempt >= s.retries() {
			return ErrConflict
		}
	}
}

// swapIDOf resolves the swap an offer belongs to, outside any transaction.
func (s *MatchService) swapIDOf(ctx context.Context, offerID string) (string, error) {
	o, err := repo.GetOffer(ctx, s.DB, offerID)
	if err != nil {
		return "", notFoundAs(err, ErrOfferNotFound)
	}
	return o.SwapID, nil
}

// loadPair reads an offer and its swap inside tx.
func loadPair(ctx context.Context, tx *gorm.DB, offerID string) (*domain.Offer, *domain.SwapRequest, error) {
	o, err := repo.GetOffer(ctx, tx, offerID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrOfferNotFound)
	}
	sw, err := repo.GetSwap(ctx, tx, o.SwapID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrSwapNotFound)
	}
	return o, sw, nil
}

// stale turns repo.ErrStale into errRetry so withSwap re-runs the step.
func stale(err error) error {
	if errors.Is(err, repo.ErrStale) {
		return errRetry
	}
	return transient(err)
}

func (s *MatchService) finish(ctx context.Context, span trace.Span, ev Event) {
	ev.Outcome = Classify(ev.Err)
	agreementsTotal.WithLabelValues(ev.Op, string(ev.Outcome)).Inc()
	span.SetAttributes(attribute.String("outcome", string(ev.Outcome)))
	if ev.Outcome == OutcomeTransient || ev.Outcome == OutcomeConflict {
		span.SetStatus(codes.Error, ev.Err.Error())
	}
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, ev)
	}
}

// Agree records actorID's consent on offerID.
//
// The owner moves NONE to REQ, the offerer moves NONE to OFFER, and the
// counterpart's consent on a pending offer matches it. Repeat consent from
// the same side is a no-op. Agree on any offer of an already matched swap is
// a no-op reporting the match. Withdrawn offers and closed swaps fail with
// ErrInvalidTransition; non-parties fail with ErrUnauthorized.
func (s *MatchService) Agree(ctx context.Context, offerID, actorID string) (res *AgreeResult, err error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "Agree",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.String("user.id", actorID),
		),
	)
	defer span.End()

	ev := Event{Op: "agree", OfferID: offerID, ActorID: actorID}
	defer func() {
		ev.Err = err
		if res != nil {
			ev.Matched = res.Matched && res.Changed
		}
		s.finish(ctx, span, ev)
	}()

	swapID, err := s.swapIDOf(ctx, offerID)
	if err != nil {
		return nil, err
	}
	ev.SwapID = swapID
	span.SetAttributes(attribute.String("swap.id", swapID))

	err = s.withSwap(ctx, swapID, func(tx *gorm.DB) error {
		r, err := s.agree(ctx, tx, offerID, actorID)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Matched && res.Changed {
		matchesTotal.Inc()
	}
	return res, nil
}

func (s *MatchService) agree(ctx context.Context, tx *gorm.DB, offerID, actorID string) (*AgreeResult, error) {
	o, sw, err := loadPair(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}
	role := roleOf(sw, o, actorID)
	if role == domain.RoleNone {
		return nil, ErrUnauthorized
	}
	if o.Status != domain.OfferActive {
		return nil, ErrInvalidTransition
	}

	switch sw.Status {
	case domain.SwapClosed:
		return nil, ErrInvalidTransition
	case domain.SwapMatched:
		return &AgreeResult{Offer: o, Swap: sw, State: o.AgreeState, Matched: true}, nil
	}

	next, err := o.AgreeState.Agree(role)
	if err != nil {
		return nil, invalid(&domain.ValidationError{Field: "agree_state", Reason: err.Error()})
	}
	if next == o.AgreeState {
		return &AgreeResult{Offer: o, Swap: sw, State: next}, nil
	}

	if next != domain.AgreeMatched {
		// Pending writes move the swap version too, so they cannot commit
		// after another process matched the swap.
		if err := repo.BumpSwapVersion(ctx, tx, sw.ID, sw.Version); err != nil {
			return nil, stale(err)
		}
		if err := repo.SetAgreeState(ctx, tx, o.ID, o.AgreeState, next); err != nil {
			return nil, stale(err)
		}
		o.AgreeState = next
		sw.Version++
		return &AgreeResult{Offer: o, Swap: sw, State: next, Changed: true}, nil
	}

	// Re-read the swap's active offers: a MATCHED sibling means another
	// commit won and this swap row is about to read as matched.
	active, err := repo.ListActiveOffers(ctx, tx, sw.ID)
	if err != nil {
		return nil, transient(err)
	}
	for _, sib := range active {
		if sib.ID != o.ID && sib.AgreeState == domain.AgreeMatched {
			return nil, errRetry
		}
	}

	if err := repo.TransitionSwap(ctx, tx, sw.ID, domain.SwapOpen, sw.Version, domain.SwapMatched, o.ID); err != nil {
		return nil, stale(err)
	}
	if err := repo.SetAgreeState(ctx, tx, o.ID, o.AgreeState, domain.AgreeMatched); err != nil {
		return nil, stale(err)
	}
	if _, err := repo.ResetPendingSiblings(ctx, tx, sw.ID, o.ID); err != nil {
		return nil, transient(err)
	}

	o.AgreeState = domain.AgreeMatched
	matchedID := o.ID
	sw.Status = domain.SwapMatched
	sw.MatchedOfferID = &matchedID
	sw.Version++
	return &AgreeResult{Offer: o, Swap: sw, State: domain.AgreeMatched, Matched: true, Changed: true}, nil
}

// Unagree withdraws actorID's pending consent, resetting REQ or OFFER to
// NONE. Either party may reset. NONE and MATCHED fail with
// ErrInvalidTransition, as do withdrawn offers.
func (s *MatchService) Unagree(ctx context.Context, offerID, actorID string) (o *domain.Offer, err error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "Unagree",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.String("user.id", actorID),
		),
	)
	defer span.End()

	ev := Event{Op: "unagree", OfferID: offerID, ActorID: actorID}
	defer func() { ev.Err = err; s.finish(ctx, span, ev) }()

	swapID, err := s.swapIDOf(ctx, offerID)
	if err != nil {
		return nil, err
	}
	ev.SwapID = swapID

	err = s.withSwap(ctx, swapID, func(tx *gorm.DB) error {
		cur, sw, err := loadPair(ctx, tx, offerID)
		if err != nil {
			return err
		}
		if roleOf(sw, cur, actorID) == domain.RoleNone {
			return ErrUnauthorized
		}
		if cur.Status != domain.OfferActive {
			return ErrInvalidTransition
		}
		next, ok := cur.AgreeState.Unagree()
		if !ok {
			return ErrInvalidTransition
		}
		if err := repo.SetAgreeState(ctx, tx, cur.ID, cur.AgreeState, next); err != nil {
			return stale(err)
		}
		cur.AgreeState = next
		o = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Withdraw lets the offerer retract an active offer. agree_state is left as
// is; withdrawn offers are excluded from matching.
func (s *MatchService) Withdraw(ctx context.Context, offerID, actorID string) (o *domain.Offer, err error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "Withdraw",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.String("user.id", actorID),
		),
	)
	defer span.End()

	ev := Event{Op: "withdraw", OfferID: offerID, ActorID: actorID}
	defer func() { ev.Err = err; s.finish(ctx, span, ev) }()

	swapID, err := s.swapIDOf(ctx, offerID)
	if err != nil {
		return nil, err
	}
	ev.SwapID = swapID

	err = s.withSwap(ctx, swapID, func(tx *gorm.DB) error {
		cur, err := repo.GetOffer(ctx, tx, offerID)
		if err != nil {
			return notFoundAs(err, ErrOfferNotFound)
		}
		if actorID == "" || cur.OffererID != actorID {
			return ErrUnauthorized
		}
		if cur.Status != domain.OfferActive {
			return ErrInvalidTransition
		}
		if err := repo.WithdrawOffer(ctx, tx, cur.ID); err != nil {
			return stale(err)
		}
		cur.Status = domain.OfferWithdrawn
		o = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CloseSwap lets the owner close an open swap. Offers are left untouched.
func (s *MatchService) CloseSwap(ctx context.Context, swapID, actorID string) (sw *domain.SwapRequest, err error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "CloseSwap",
		trace.WithAttributes(
			attribute.String("swap.id", swapID),
			attribute.String("user.id", actorID),
		),
	)
	defer span.End()

	ev := Event{Op: "close", SwapID: swapID, ActorID: actorID}
	defer func() { ev.Err = err; s.finish(ctx, span, ev) }()

	err = s.withSwap(ctx, swapID, func(tx *gorm.DB) error {
		cur, err := repo.GetSwap(ctx, tx, swapID)
		if err != nil {
			return notFoundAs(err, ErrSwapNotFound)
		}
		if actorID == "" || cur.OwnerID != actorID {
			return ErrUnauthorized
		}
		if cur.Status != domain.SwapOpen {
			return ErrInvalidTransition
		}
		if err := repo.TransitionSwap(ctx, tx, cur.ID, domain.SwapOpen, cur.Version, domain.SwapClosed, ""); err != nil {
			return stale(err)
		}
		cur.Status = domain.SwapClosed
		cur.Version++
		sw = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sw, nil
}

// Disclose reports whether viewerID may see contact details on swapID: the
// swap must be matched and the viewer must be its owner or the offerer of
// its MATCHED offer.
func (s *MatchService) Disclose(ctx context.Context, swapID, viewerID string) (bool, error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "Disclose",
		trace.WithAttributes(
			attribute.String("swap.id", swapID),
			attribute.String("user.id", viewerID),
		),
	)
	defer span.End()

	_, _, ok, err := s.disclosure(ctx, swapID, viewerID)
	return ok, err
}

func (s *MatchService) disclosure(ctx context.Context, swapID, viewerID string) (*domain.SwapRequest, *domain.Offer, bool, error) {
	sw, err := repo.GetSwap(ctx, s.DB, swapID)
	if err != nil {
		return nil, nil, false, notFoundAs(err, ErrSwapNotFound)
	}
	if sw.Status != domain.SwapMatched || sw.MatchedOfferID == nil || viewerID == "" {
		return sw, nil, false, nil
	}
	o, err := repo.GetOffer(ctx, s.DB, *sw.MatchedOfferID)
	if err != nil {
		return nil, nil, false, notFoundAs(err, ErrOfferNotFound)
	}
	if o.AgreeState != domain.AgreeMatched {
		return sw, o, false, nil
	}
	return sw, o, viewerID == sw.OwnerID || viewerID == o.OffererID, nil
}

// Contacts returns both parties' profiles of a matched swap. Viewers for
// whom Disclose is false get ErrUnauthorized.
func (s *MatchService) Contacts(ctx context.Context, swapID, viewerID string) (*ContactPair, error) {
	ctx, span := observability.Tracer("services/MatchService").Start(ctx, "Contacts",
		trace.WithAttributes(
			attribute.String("swap.id", swapID),
			attribute.String("user.id", viewerID),
		),
	)
	defer span.End()

	sw, o, ok, err := s.disclosure(ctx, swapID, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	owner, err := repo.GetUser(ctx, s.DB, sw.OwnerID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	offerer, err := repo.GetUser(ctx, s.DB, o.OffererID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return &ContactPair{SwapID: sw.ID, Owner: contactOf(owner), Offerer: contactOf(offerer)}, nil
}

// ContactPair are the disclosed parties of a matched swap.
type ContactPair struct {
	SwapID  string      `json:"swap_id"`
	Owner   ContactUser `json:"owner"`
	Offerer ContactUser `json:"offerer"`
}

func contactOf(u *domain.User) ContactUser {
	return ContactUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
