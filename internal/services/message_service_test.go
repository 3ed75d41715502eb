package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMessageService_PostAndList(t *testing.T) {
	db := newSvcDB(t)
	s := &MessageService{DB: db}
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o := mkOffer(t, db, sw.ID, "u2")

	if _, err := s.Post(ctx, "u1", o.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty body: expected ErrValidation, got %v", err)
	}
	if _, err := s.Post(ctx, "u1", o.ID, strings.Repeat("é", 501)); !errors.Is(err, ErrValidation) {
		t.Fatalf("long body: expected ErrValidation, got %v", err)
	}
	if _, err := s.Post(ctx, "u3", o.ID, "hi"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("outsider: expected ErrUnauthorized, got %v", err)
	}
	if _, err := s.Post(ctx, "u1", "missing", "hi"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("missing offer: expected ErrOfferNotFound, got %v", err)
	}

	for i, who := range []string{"u1", "u2", "u1"} {
		m, err := s.Post(ctx, who, o.ID, "  msg  ")
		if err != nil {
			t.Fatalf("Post %d: %v", i, err)
		}
		if m.Body != "msg" || m.SenderID != who {
			t.Fatalf("unexpected message: %+v", m)
		}
	}

	items, total, err := s.ListPage(ctx, "u2", o.ID, 1, 2)
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("ListPage: %d items, total=%d, err=%v", len(items), total, err)
	}
	if _, _, err := s.ListPage(ctx, "u3", o.ID, 1, 2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("outsider list: expected ErrUnauthorized, got %v", err)
	}
	count, maxAt, err := s.Stats(ctx, o.ID)
	if err != nil || count != 3 || maxAt == nil {
		t.Fatalf("Stats: %d %v %v", count, maxAt, err)
	}
}

func TestMessageService_ListPage_Empty(t *testing.T) {
	db := newSvcDB(t)
	s := &MessageService{DB: db}
	sw := mkSwap(t, db, "u1")
	o := mkOffer(t, db, sw.ID, "u2")

	items, total, err := s.ListPage(context.Background(), "u1", o.ID, 0, 0)
	if err != nil || total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil page, got %v %d %v", items, total, err)
	}
}
