package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// CreateOfferMessage appends body to the thread of offerID.
func CreateOfferMessage(ctx context.Context, db *gorm.DB, offerID, senderID, body string) (*domain.OfferMessage, error) {
	m := &domain.OfferMessage{
		ID:        uuid.NewString(),
		OfferID:   offerID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Omit("Offer").Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CountOfferMessages is a raw COUNT so a missing table is an error, not 0.
func CountOfferMessages(ctx context.Context, db *gorm.DB, offerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM offer_messages WHERE offer_id = ?", offerID).
		Scan(&n).Error
	return n, err
}

// ListOfferMessagesPage returns one page of a thread, oldest first.
func ListOfferMessagesPage(ctx context.Context, db *gorm.DB, offerID string, offset, limit int) ([]domain.OfferMessage, error) {
	var thread []domain.OfferMessage
	err := db.WithContext(ctx).
		Where(&domain.OfferMessage{OfferID: offerID}).
		Order("created_at, id").
		Offset(offset).
		Limit(limit).
		Find(&thread).Error
	return thread, err
}
