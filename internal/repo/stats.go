// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// latest runs a count followed by a single-row select of column on q.
// MAX() is avoided because SQLite returns it as TEXT.
func latest(q *gorm.DB, column string) (count int64, maxAt *time.Time, err error) {
	if err = q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	var row struct {
		At time.Time
	}
	if err = q.Session(&gorm.Session{}).
		Select(column + " AS at").
		Order(column + " DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.At, nil
}

// SwapsStats returns aggregate metadata for the swaps matching f: the total
// number of rows and the maximum UpdatedAt among them. When nothing matches
// the count is 0 and maxUpdatedAt is nil.
func SwapsStats(ctx context.Context, db *gorm.DB, f SwapFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.SwapRequest{}))
	return latest(q, "updated_at")
}

// OffersStats returns the number of offers on a swap and the latest UpdatedAt.
func OffersStats(ctx context.Context, db *gorm.DB, swapID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Offer{}).Where("swap_id = ?", swapID)
	return latest(q, "updated_at")
}

// OfferMessagesStats returns the number of messages on an offer and the
// latest CreatedAt. Messages are immutable so CreatedAt stands in for
// UpdatedAt.
func OfferMessagesStats(ctx context.Context, db *gorm.DB, offerID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.OfferMessage{}).Where("offer_id = ?", offerID)
	return latest(q, "created_at")
}
