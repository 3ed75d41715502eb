// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Offer
// model, including the compare-and-swap updates the matching engine relies on.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// CreateOffer inserts o with a fresh UUID, status active and agree state NONE.
// A second active offer by the same offerer on the same swap violates
// ux_offers_active_offerer and yields ErrDuplicate.
func CreateOffer(ctx context.Context, db *gorm.DB, o *domain.Offer) error {
	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.Status = domain.OfferActive
	o.AgreeState = domain.AgreeNone
	o.CreatedAt = now
	o.UpdatedAt = now
	err := db.WithContext(ctx).Omit("Swap").Create(o).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetOffer fetches a single offer by ID, or ErrNotFound.
func GetOffer(ctx context.Context, db *gorm.DB, id string) (*domain.Offer, error) {
	var o domain.Offer
	if err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOffers returns every offer on a swap ordered (CreatedAt ASC, ID ASC).
func ListOffers(ctx context.Context, db *gorm.DB, swapID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := db.WithContext(ctx).
		Where("swap_id = ?", swapID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListActiveOffers returns the non-withdrawn offers on a swap.
func ListActiveOffers(ctx context.Context, db *gorm.DB, swapID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := db.WithContext(ctx).
		Where("swap_id = ? AND status = ?", swapID, domain.OfferActive).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListOffersByOfferer returns a user's offers, newest first.
func ListOffersByOfferer(ctx context.Context, db *gorm.DB, offererID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := db.WithContext(ctx).
		Where("offerer_id = ?", offererID).
		Order("created_at desc, id asc").
		Find(&out).Error
	return out, err
}

// HasActiveOffer reports whether offererID already has an active offer on swapID.
func HasActiveOffer(ctx context.Context, db *gorm.DB, swapID, offererID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("swap_id = ? AND offerer_id = ? AND status = ?", swapID, offererID, domain.OfferActive).
		Count(&n).Error
	return n > 0, err
}

// CountOffersBySwap returns offer counts keyed by swap ID.
func CountOffersBySwap(ctx context.Context, db *gorm.DB, swapIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(swapIDs))
	if len(swapIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		SwapID string
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Select("swap_id, COUNT(*) AS n").
		Where("swap_id IN ?", swapIDs).
		Group("swap_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.SwapID] = r.N
	}
	return out, nil
}

// SetAgreeState moves an active offer from `from` to `to`. It returns
// ErrStale when the offer is withdrawn or no longer in `from`.
func SetAgreeState(ctx context.Context, db *gorm.DB, id string, from, to domain.AgreeState) error {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ? AND status = ? AND agree_state = ?", id, domain.OfferActive, from).
		Updates(map[string]any{"agree_state": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// WithdrawOffer flips an active offer to withdrawn, leaving agree_state as is.
// It returns ErrStale when the offer is not active.
func WithdrawOffer(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ? AND status = ?", id, domain.OfferActive).
		Updates(map[string]any{"status": domain.OfferWithdrawn, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// ResetPendingSiblings clears REQ/OFFER on every active offer of swapID
// except keepID. It returns the number of offers reset.
func ResetPendingSiblings(ctx context.Context, db *gorm.DB, swapID, keepID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("swap_id = ? AND id <> ? AND status = ? AND agree_state IN ?",
			swapID, keepID, domain.OfferActive, []domain.AgreeState{domain.AgreeReq, domain.AgreeOffer}).
		Updates(map[string]any{"agree_state": domain.AgreeNone, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
