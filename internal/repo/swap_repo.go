// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SwapRequest model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a swap is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Compare-and-swap updates that match no row return ErrStale.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStale is returned by compare-and-swap updates when the row no longer
// holds the expected state (another writer got there first).
var ErrStale = errors.New("stale write")

// SwapFilter narrows swap listings. Zero fields are ignored.
type SwapFilter struct {
	OwnerID  string
	CourseID string
	Term     string
	Status   domain.SwapStatus
}

func (f SwapFilter) apply(q *gorm.DB) *gorm.DB {
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.CourseID != "" {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.Term != "" {
		q = q.Where("term = ?", f.Term)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// CreateSwap inserts s with a fresh UUID, status open and version 0.
// Validation is the caller's job.
func CreateSwap(ctx context.Context, db *gorm.DB, s *domain.SwapRequest) error {
	now := time.Now().UTC()
	s.ID = uuid.NewString()
	s.Status = domain.SwapOpen
	s.MatchedOfferID = nil
	s.Version = 0
	s.CreatedAt = now
	s.UpdatedAt = now
	return db.WithContext(ctx).Create(s).Error
}

// GetSwap fetches a single swap by ID, or ErrNotFound.
func GetSwap(ctx context.Context, db *gorm.DB, id string) (*domain.SwapRequest, error) {
	var s domain.SwapRequest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSwaps returns the number of swaps matching f.
func CountSwaps(ctx context.Context, db *gorm.DB, f SwapFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.SwapRequest{})).Count(&total).Error
	return total, err
}

// ListSwapsPage returns a page of swaps matching f, newest first.
func ListSwapsPage(ctx context.Context, db *gorm.DB, f SwapFilter, offset, limit int) ([]domain.SwapRequest, error) {
	var out []domain.SwapRequest
	err := f.apply(db.WithContext(ctx)).
		Order("created_at desc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListSwapsByIDs fetches the given swaps in no particular order.
func ListSwapsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.SwapRequest, error) {
	var out []domain.SwapRequest
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// BumpSwapVersion increments the version of an open swap still at
// `version`, leaving its status alone. It returns ErrStale otherwise.
func BumpSwapVersion(ctx context.Context, db *gorm.DB, id string, version int64) error {
	res := db.WithContext(ctx).
		Model(&domain.SwapRequest{}).
		Where("id = ? AND status = ? AND version = ?", id, domain.SwapOpen, version).
		Updates(map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// TransitionSwap moves swap id from status `from` at `version` to status
// `to`, bumping the version. matchedOfferID is recorded when non-empty.
// It returns ErrStale when the row is no longer at (from, version).
func TransitionSwap(ctx context.Context, db *gorm.DB, id string, from domain.SwapStatus, version int64, to domain.SwapStatus, matchedOfferID string) error {
	updates := map[string]any{
		"status":     to,
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now().UTC(),
	}
	if matchedOfferID != "" {
		updates["matched_offer_id"] = matchedOfferID
	}
	res := db.WithContext(ctx).
		Model(&domain.SwapRequest{}).
		Where("id = ? AND status = ? AND version = ?", id, from, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}
