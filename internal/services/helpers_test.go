package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	u := &domain.User{ID: id, Email: id + "@purdue.edu", Name: "User " + id}
	if err := repo.UpsertUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func mkSwap(t *testing.T, db *gorm.DB, owner string) *domain.SwapRequest {
	t.Helper()
	sw := &domain.SwapRequest{
		OwnerID:     owner,
		CourseID:    "CS-18000",
		Term:        "Fall 2025",
		CurrentCRN:  "10137",
		DesiredCRNs: domain.CRNList{"10274"},
	}
	if err := repo.CreateSwap(context.Background(), db, sw); err != nil {
		t.Fatalf("create swap: %v", err)
	}
	return sw
}

func mkOffer(t *testing.T, db *gorm.DB, swapID, offerer string) *domain.Offer {
	t.Helper()
	o := &domain.Offer{SwapID: swapID, OffererID: offerer, OfferedCRN: "10274"}
	if err := repo.CreateOffer(context.Background(), db, o); err != nil {
		t.Fatalf("create offer: %v", err)
	}
	return o
}

func offerState(t *testing.T, db *gorm.DB, id string) *domain.Offer {
	t.Helper()
	o, err := repo.GetOffer(context.Background(), db, id)
	if err != nil {
		t.Fatalf("get offer %s: %v", id, err)
	}
	return o
}

func swapState(t *testing.T, db *gorm.DB, id string) *domain.SwapRequest {
	t.Helper()
	sw, err := repo.GetSwap(context.Background(), db, id)
	if err != nil {
		t.Fatalf("get swap %s: %v", id, err)
	}
	return sw
}

type recNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recNotifier) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recNotifier) last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}
	}
	return r.events[len(r.events)-1]
}
