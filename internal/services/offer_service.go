// Package services – OfferService
//
// This file implements OfferService, which creates offers against open swap
// requests. It enforces that the offerer is not the swap owner and holds at
// most one active offer per swap, and supports Idempotency-Key replays so a
// retried POST returns the offer created by the first attempt.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"
	"github.com/tbourn/course-swap-backend/internal/repo"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OfferInput carries the client-supplied fields of a new offer.
type OfferInput struct {
	OfferedCRN string `json:"offered_crn"`
	Note       string `json:"note"`
}

// OfferService creates offers.
type OfferService struct {
	DB *gorm.DB

	// IdempotencyTTL is how long a key replays its offer (default 24h).
	IdempotencyTTL time.Duration
}

// Create inserts an active offer by offererID on swapID.
func (s *OfferService) Create(ctx context.Context, offererID, swapID string, in OfferInput) (*domain.Offer, error) {
	o, _, err := s.CreateIdempotent(ctx, offererID, swapID, "", in)
	return o, err
}

// CreateIdempotent is Create keyed by an Idempotency-Key. A key seen before
// for (offererID, swapID) returns the original offer and replayed=true.
func (s *OfferService) CreateIdempotent(ctx context.Context, offererID, swapID, key string, in OfferInput) (o *domain.Offer, replayed bool, err error) {
	ctx, span := observability.Tracer("services/OfferService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("swap.id", swapID),
			attribute.String("user.id", offererID),
			attribute.Bool("idempotent", key != ""),
		),
	)
	defer span.End()

	key = strings.TrimSpace(key)
	if key != "" {
		if prev, ok := s.replay(ctx, offererID, swapID, key); ok {
			span.SetAttributes(attribute.Bool("replayed", true))
			return prev, true, nil
		}
	}

	o = &domain.Offer{SwapID: swapID, OffererID: offererID, OfferedCRN: in.OfferedCRN, Note: strings.TrimSpace(in.Note)}
	if err := domain.ValidateOffer(o); err != nil {
		return nil, false, invalid(err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sw, err := repo.GetSwap(ctx, tx, swapID)
		if err != nil {
			return notFoundAs(err, ErrSwapNotFound)
		}
		if sw.OwnerID == offererID {
			return ErrUnauthorized
		}
		if sw.Status != domain.SwapOpen {
			return ErrInvalidTransition
		}
		dup, err := repo.HasActiveOffer(ctx, tx, swapID, offererID)
		if err != nil {
			return transient(err)
		}
		if dup {
			return ErrDuplicateOffer
		}
		if err := repo.CreateOffer(ctx, tx, o); err != nil {
			// HasActiveOffer races across instances; the partial index decides.
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateOffer
			}
			return transient(err)
		}
		if key == "" {
			return nil
		}
		_, err = repo.CreateIdempotency(ctx, tx, offererID, swapID, key, o.ID, 201, s.ttl())
		if errors.Is(err, repo.ErrDuplicate) {
			// A concurrent request with the same key won; roll back and replay it.
			return repo.ErrDuplicate
		}
		return transient(err)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		if prev, ok := s.replay(ctx, offererID, swapID, key); ok {
			return prev, true, nil
		}
		return nil, false, ErrConflict
	}
	if err != nil {
		return nil, false, err
	}
	return o, false, nil
}

func (s *OfferService) replay(ctx context.Context, userID, swapID, key string) (*domain.Offer, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, swapID, key, time.Now().UTC())
	if err != nil || rec == nil {
		return nil, false
	}
	o, err := repo.GetOffer(ctx, s.DB, rec.ResourceID)
	if err != nil {
		return nil, false
	}
	return o, true
}

func (s *OfferService) ttl() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 24 * time.Hour
	}
	return s.IdempotencyTTL
}

// Get returns an offer by ID or ErrOfferNotFound.
func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	o, err := repo.GetOffer(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrOfferNotFound)
	}
	return o, nil
}
