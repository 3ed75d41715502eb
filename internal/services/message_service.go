// Package services – MessageService
//
// This file implements MessageService, the direct-message thread attached to
// an offer. Only the two parties of an offer (the swap owner and the offerer)
// may read or post. Bodies are trimmed and bounded before persistence.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include offer/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"
	"github.com/tbourn/course-swap-backend/internal/repo"
	"github.com/tbourn/course-swap-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MessageService coordinates offer message persistence.
type MessageService struct {
	DB *gorm.DB
}

// participant loads offerID and checks that userID is one of its parties.
func (s *MessageService) participant(ctx context.Context, offerID, userID string) (*domain.Offer, error) {
	o, sw, err := loadPair(ctx, s.DB, offerID)
	if err != nil {
		return nil, err
	}
	if roleOf(sw, o, userID) == domain.RoleNone {
		return nil, ErrUnauthorized
	}
	return o, nil
}

// Post appends a message from userID to the offer thread.
func (s *MessageService) Post(ctx context.Context, userID, offerID, body string) (*domain.OfferMessage, error) {
	tr := observability.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Post",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	body, err := domain.ValidateMessageBody(body)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := s.participant(ctx, offerID, userID); err != nil {
		return nil, err
	}
	m, err := repo.CreateOfferMessage(ctx, s.DB, offerID, userID, body)
	if err != nil {
		return nil, transient(err)
	}
	return m, nil
}

// ListPage returns paginated messages for an offer, oldest first.
func (s *MessageService) ListPage(ctx context.Context, userID, offerID string, page, pageSize int) ([]domain.OfferMessage, int64, error) {
	tr := observability.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	page, pageSize, offset := utils.Page(page, pageSize)

	if _, err := s.participant(ctx, offerID, userID); err != nil {
		return nil, 0, err
	}

	total, err := repo.CountOfferMessages(ctx, s.DB, offerID)
	if err != nil {
		return nil, 0, transient(err)
	}
	if total == 0 {
		return []domain.OfferMessage{}, 0, nil
	}

	items, err := repo.ListOfferMessagesPage(ctx, s.DB, offerID, offset, pageSize)
	if err != nil {
		return nil, 0, transient(err)
	}
	return items, total, nil
}

// Stats returns the message count and latest timestamp of an offer thread.
func (s *MessageService) Stats(ctx context.Context, offerID string) (int64, *time.Time, error) {
	return repo.OfferMessagesStats(ctx, s.DB, offerID)
}
