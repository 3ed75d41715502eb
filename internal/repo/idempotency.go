package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// ErrDuplicate reports a unique-key collision: a live idempotency record
// for the same (user, swap, key), or a second active offer by one offerer.
var ErrDuplicate = errors.New("duplicate")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Handles opened without TranslateError (tests) report plain text.
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unique constraint failed", "constraint failed: unique", "duplicate key value"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func idemScope(db *gorm.DB, userID, swapID, key string) *gorm.DB {
	return db.Where("user_id = ? AND scope_id = ? AND key = ?", userID, swapID, key)
}

// GetIdempotency returns the unexpired record for (userID, swapID, key), or
// ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, swapID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(swapID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := idemScope(db.WithContext(ctx), userID, swapID, key).
		Where("expires_at > ?", now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency records that key produced resourceID. An expired record
// for the same triple that has not been purged yet is taken over; a live
// one yields ErrDuplicate.
//
// The takeover runs before the insert: on Postgres a failed insert aborts
// the caller's transaction.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, swapID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		UserID:     userID,
		ScopeID:    swapID,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	res := idemScope(db.WithContext(ctx).Model(&domain.Idempotency{}), userID, swapID, key).
		Where("expires_at <= ?", now).
		Updates(map[string]any{
			"id":          rec.ID,
			"resource_id": resourceID,
			"status":      status,
			"created_at":  rec.CreatedAt,
			"expires_at":  rec.ExpiresAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return rec, nil
	}

	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose TTL has elapsed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
