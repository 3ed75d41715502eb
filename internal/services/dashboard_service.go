// Package services – DashboardService
//
// This file assembles a user's dashboard: the swaps they own with offer
// counts, the offers they made with a summary of the target swap, and their
// matches with the disclosed counterpart.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"
	"github.com/tbourn/course-swap-backend/internal/repo"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SwapSummary is a swap with the number of offers it received.
type SwapSummary struct {
	domain.SwapRequest
	OffersCount int64 `json:"offers_count"`
}

// OfferSummary is one of the user's offers with its target swap.
type OfferSummary struct {
	domain.Offer
	Swap *domain.SwapRequest `json:"swap,omitempty"`
}

// MatchSummary is a matched swap the user is a party to.
type MatchSummary struct {
	Swap         domain.SwapRequest `json:"swap"`
	OfferID      string             `json:"offer_id"`
	Role         string             `json:"role"`
	Counterparty *ContactUser       `json:"counterparty,omitempty"`
}

// Dashboard groups the user's swaps, offers and matches.
type Dashboard struct {
	MySwaps  []SwapSummary  `json:"my_swaps"`
	MyOffers []OfferSummary `json:"my_offers"`
	Matches  []MatchSummary `json:"matches"`
}

// DashboardService builds dashboards.
type DashboardService struct {
	DB *gorm.DB
	// Limit caps how many swaps are listed (default 100).
	Limit int
}

// For returns userID's dashboard.
func (s *DashboardService) For(ctx context.Context, userID string) (*Dashboard, error) {
	ctx, span := observability.Tracer("services/DashboardService").Start(ctx, "For",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	limit := s.Limit
	if limit <= 0 {
		limit = 100
	}
	d := &Dashboard{MySwaps: []SwapSummary{}, MyOffers: []OfferSummary{}, Matches: []MatchSummary{}}

	mine, err := repo.ListSwapsPage(ctx, s.DB, repo.SwapFilter{OwnerID: userID}, 0, limit)
	if err != nil {
		return nil, transient(err)
	}
	ids := make([]string, 0, len(mine))
	for _, sw := range mine {
		ids = append(ids, sw.ID)
	}
	counts, err := repo.CountOffersBySwap(ctx, s.DB, ids)
	if err != nil {
		return nil, transient(err)
	}
	for _, sw := range mine {
		d.MySwaps = append(d.MySwaps, SwapSummary{SwapRequest: sw, OffersCount: counts[sw.ID]})
		if sw.Status == domain.SwapMatched && sw.MatchedOfferID != nil {
			m := MatchSummary{Swap: sw, OfferID: *sw.MatchedOfferID, Role: domain.RoleOwner.String()}
			if o, err := repo.GetOffer(ctx, s.DB, *sw.MatchedOfferID); err == nil {
				m.Counterparty = s.contact(ctx, o.OffererID)
			}
			d.Matches = append(d.Matches, m)
		}
	}

	offers, err := repo.ListOffersByOfferer(ctx, s.DB, userID)
	if err != nil {
		return nil, transient(err)
	}
	swapIDs := make([]string, 0, len(offers))
	for _, o := range offers {
		swapIDs = append(swapIDs, o.SwapID)
	}
	targets, err := repo.ListSwapsByIDs(ctx, s.DB, swapIDs)
	if err != nil {
		return nil, transient(err)
	}
	byID := make(map[string]*domain.SwapRequest, len(targets))
	for i := range targets {
		byID[targets[i].ID] = &targets[i]
	}
	for _, o := range offers {
		sw := byID[o.SwapID]
		d.MyOffers = append(d.MyOffers, OfferSummary{Offer: o, Swap: sw})
		if sw != nil && o.AgreeState == domain.AgreeMatched && sw.Status == domain.SwapMatched {
			d.Matches = append(d.Matches, MatchSummary{
				Swap:         *sw,
				OfferID:      o.ID,
				Role:         domain.RoleOfferer.String(),
				Counterparty: s.contact(ctx, sw.OwnerID),
			})
		}
	}
	return d, nil
}

// contact returns the user's disclosed contact, or nil when the profile is
// missing.
func (s *DashboardService) contact(ctx context.Context, userID string) *ContactUser {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return nil
	}
	c := contactOf(u)
	return &c
}
