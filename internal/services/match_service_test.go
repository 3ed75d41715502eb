package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/repo"
)

func newEngine(t *testing.T) (*MatchService, *gorm.DB, *recNotifier) {
	t.Helper()
	db := newSvcDB(t)
	n := &recNotifier{}
	return &MatchService{DB: db, Notifier: n, MaxRetries: 3}, db, n
}

// S owned by U1, O1 by U2: owner agrees, offerer agrees, swap matches and
// only the two parties see contacts.
func TestMatch_Scenario_AgreeAgreeDisclose(t *testing.T) {
	s, db, n := newEngine(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	res, err := s.Agree(ctx, o1.ID, "u1")
	if err != nil {
		t.Fatalf("Agree(owner): %v", err)
	}
	if res.State != domain.AgreeReq || res.Matched || !res.Changed {
		t.Fatalf("unexpected result after owner agree: %+v", res)
	}
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapOpen {
		t.Fatalf("swap should still be open, got %s", got.Status)
	}

	res, err = s.Agree(ctx, o1.ID, "u2")
	if err != nil {
		t.Fatalf("Agree(offerer): %v", err)
	}
	if res.State != domain.AgreeMatched || !res.Matched || !res.Changed {
		t.Fatalf("unexpected result after offerer agree: %+v", res)
	}
	got := swapState(t, db, sw.ID)
	if got.Status != domain.SwapMatched || got.MatchedOfferID == nil || *got.MatchedOfferID != o1.ID {
		t.Fatalf("swap not matched to o1: %+v", got)
	}
	if e := n.last(); e.Outcome != OutcomeSuccess || !e.Matched || e.Message() != "Swap matched! Emails have been revealed." {
		t.Fatalf("unexpected event: %+v", e)
	}

	for viewer, want := range map[string]bool{"u1": true, "u2": true, "u3": false, "": false} {
		ok, err := s.Disclose(ctx, sw.ID, viewer)
		if err != nil || ok != want {
			t.Fatalf("Disclose(%q) = %v, %v; want %v", viewer, ok, err, want)
		}
	}

	c, err := s.Contacts(ctx, sw.ID, "u2")
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if c.Owner.Email != "u1@purdue.edu" || c.Offerer.Email != "u2@purdue.edu" {
		t.Fatalf("unexpected contacts: %+v", c)
	}
	if _, err := s.Contacts(ctx, sw.ID, "u3"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for outsider, got %v", err)
	}
}

func TestMatch_Scenario_UnagreeThenAgreeAgain(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatalf("Agree: %v", err)
	}
	o, err := s.Unagree(ctx, o1.ID, "u1")
	if err != nil || o.AgreeState != domain.AgreeNone {
		t.Fatalf("Unagree: %+v %v", o, err)
	}
	res, err := s.Agree(ctx, o1.ID, "u1")
	if err != nil || res.State != domain.AgreeReq {
		t.Fatalf("Agree again: %+v %v", res, err)
	}
}

func TestMatch_Scenario_WithdrawBlocksAgree(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatalf("Agree: %v", err)
	}
	o, err := s.Withdraw(ctx, o1.ID, "u2")
	if err != nil || o.Status != domain.OfferWithdrawn || o.AgreeState != domain.AgreeReq {
		t.Fatalf("Withdraw: %+v %v", o, err)
	}
	if _, err := s.Agree(ctx, o1.ID, "u2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on withdrawn offer, got %v", err)
	}
	if _, err := s.Unagree(ctx, o1.ID, "u1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on Unagree of withdrawn, got %v", err)
	}
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapOpen {
		t.Fatalf("withdrawn offer must not match the swap: %s", got.Status)
	}
	if got := offerState(t, db, o1.ID); got.AgreeState == domain.AgreeMatched {
		t.Fatalf("withdrawn offer reached MATCHED")
	}
}

func TestMatch_Agree_IsIdempotent(t *testing.T) {
	for _, actor := range []string{"u1", "u2"} {
		t.Run(actor, func(t *testing.T) {
			s, db, _ := newEngine(t)
			ctx := context.Background()
			sw := mkSwap(t, db, "u1")
			o1 := mkOffer(t, db, sw.ID, "u2")

			first, err := s.Agree(ctx, o1.ID, actor)
			if err != nil {
				t.Fatalf("first Agree: %v", err)
			}
			second, err := s.Agree(ctx, o1.ID, actor)
			if err != nil {
				t.Fatalf("second Agree: %v", err)
			}
			if first.State != second.State || second.Changed {
				t.Fatalf("repeat Agree changed state: %s -> %s (changed=%v)", first.State, second.State, second.Changed)
			}
		})
	}
}

func TestMatch_Agree_Unauthorized(t *testing.T) {
	s, db, n := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	for _, actor := range []string{"u3", ""} {
		if _, err := s.Agree(ctx, o1.ID, actor); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Agree(%q): expected ErrUnauthorized, got %v", actor, err)
		}
	}
	if e := n.last(); e.Outcome != OutcomeUnauthorized {
		t.Fatalf("expected unauthorized event, got %+v", e)
	}
	if got := offerState(t, db, o1.ID); got.AgreeState != domain.AgreeNone {
		t.Fatalf("unauthorized call mutated offer: %s", got.AgreeState)
	}
}

func TestMatch_NotFound(t *testing.T) {
	s, _, _ := newEngine(t)
	ctx := context.Background()
	if _, err := s.Agree(ctx, "missing", "u1"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("Agree: expected ErrOfferNotFound, got %v", err)
	}
	if _, err := s.Unagree(ctx, "missing", "u1"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("Unagree: expected ErrOfferNotFound, got %v", err)
	}
	if _, err := s.Withdraw(ctx, "missing", "u1"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("Withdraw: expected ErrOfferNotFound, got %v", err)
	}
	if _, err := s.CloseSwap(ctx, "missing", "u1"); !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("CloseSwap: expected ErrSwapNotFound, got %v", err)
	}
	if _, err := s.Disclose(ctx, "missing", "u1"); !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("Disclose: expected ErrSwapNotFound, got %v", err)
	}
}

func TestMatch_Unagree_InvalidFromNoneAndMatched(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	if _, err := s.Unagree(ctx, o1.ID, "u1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Unagree on NONE: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := s.Agree(ctx, o1.ID, "u2"); err != nil {
		t.Fatal(err)
	}
	// Counterpart may also reset a pending offer.
	if _, err := s.Unagree(ctx, o1.ID, "u1"); err != nil {
		t.Fatalf("owner Unagree on OFFER: %v", err)
	}
	if _, err := s.Agree(ctx, o1.ID, "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Unagree(ctx, o1.ID, "u2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Unagree on MATCHED: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := s.Unagree(ctx, o1.ID, "u3"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("outsider Unagree: expected ErrUnauthorized, got %v", err)
	}
}

// Owner consent on one offer and offerer consent on another never pair up.
func TestMatch_SameOfferPolicy_CrossOfferDoesNotMatch(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	oa := mkOffer(t, db, sw.ID, "u2")
	ob := mkOffer(t, db, sw.ID, "u3")

	if _, err := s.Agree(ctx, oa.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	res, err := s.Agree(ctx, ob.ID, "u3")
	if err != nil {
		t.Fatal(err)
	}
	if res.Matched || res.State != domain.AgreeOffer {
		t.Fatalf("cross-offer consent matched: %+v", res)
	}
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapOpen {
		t.Fatalf("swap matched on REQ(A)+OFFER(B): %s", got.Status)
	}
	if a, b := offerState(t, db, oa.ID), offerState(t, db, ob.ID); a.AgreeState != domain.AgreeReq || b.AgreeState != domain.AgreeOffer {
		t.Fatalf("unexpected states: A=%s B=%s", a.AgreeState, b.AgreeState)
	}
}

func TestMatch_PostMatchSiblings(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	win := mkOffer(t, db, sw.ID, "u2")
	req := mkOffer(t, db, sw.ID, "u3")
	off := mkOffer(t, db, sw.ID, "u4")
	idle := mkOffer(t, db, sw.ID, "u5")

	for _, step := range []struct{ offer, actor string }{
		{req.ID, "u1"}, {off.ID, "u4"}, {win.ID, "u2"}, {win.ID, "u1"},
	} {
		if _, err := s.Agree(ctx, step.offer, step.actor); err != nil {
			t.Fatalf("Agree(%s, %s): %v", step.offer, step.actor, err)
		}
	}

	for id, want := range map[string]domain.AgreeState{
		win.ID: domain.AgreeMatched, req.ID: domain.AgreeNone, off.ID: domain.AgreeNone, idle.ID: domain.AgreeNone,
	} {
		if got := offerState(t, db, id); got.AgreeState != want {
			t.Fatalf("offer %s: want %s, got %s", id, want, got.AgreeState)
		}
	}

	// Further consent on a sibling is a no-op reporting the match.
	res, err := s.Agree(ctx, idle.ID, "u5")
	if err != nil {
		t.Fatalf("Agree on sibling of matched swap: %v", err)
	}
	if !res.Matched || res.Changed || res.State != domain.AgreeNone {
		t.Fatalf("unexpected sibling result: %+v", res)
	}
	if _, err := s.Unagree(ctx, idle.ID, "u5"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Unagree on NONE sibling: expected ErrInvalidTransition, got %v", err)
	}
	if ok, _ := s.Disclose(ctx, sw.ID, "u3"); ok {
		t.Fatalf("non-matched offerer must not see contacts")
	}
}

func TestMatch_CloseSwap(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")
	if _, err := s.Agree(ctx, o1.ID, "u2"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CloseSwap(ctx, sw.ID, "u2"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner close: expected ErrUnauthorized, got %v", err)
	}
	closed, err := s.CloseSwap(ctx, sw.ID, "u1")
	if err != nil || closed.Status != domain.SwapClosed {
		t.Fatalf("CloseSwap: %+v %v", closed, err)
	}
	if _, err := s.CloseSwap(ctx, sw.ID, "u1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second close: expected ErrInvalidTransition, got %v", err)
	}
	// Offers are untouched by closing.
	if got := offerState(t, db, o1.ID); got.Status != domain.OfferActive || got.AgreeState != domain.AgreeOffer {
		t.Fatalf("close cascaded to offer: %+v", got)
	}
	if _, err := s.Agree(ctx, o1.ID, "u1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Agree on closed swap: expected ErrInvalidTransition, got %v", err)
	}
	if ok, _ := s.Disclose(ctx, sw.ID, "u1"); ok {
		t.Fatalf("closed swap must not disclose")
	}
}

func TestMatch_Withdraw_Rules(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")

	if _, err := s.Withdraw(ctx, o1.ID, "u1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("owner cannot withdraw someone else's offer, got %v", err)
	}
	if _, err := s.Withdraw(ctx, o1.ID, "u2"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, err := s.Withdraw(ctx, o1.ID, "u2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second withdraw: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMatch_Disclose_FalseUntilMatched(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")
	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	for _, viewer := range []string{"u1", "u2", "u3"} {
		if ok, err := s.Disclose(ctx, sw.ID, viewer); ok || err != nil {
			t.Fatalf("Disclose(%s) on open swap = %v, %v", viewer, ok, err)
		}
	}
	if _, err := s.Contacts(ctx, sw.ID, "u1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Contacts before match: expected ErrUnauthorized, got %v", err)
	}
}

func TestMatch_Contacts_MissingProfile(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2") // u2 has no profile
	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Agree(ctx, o1.ID, "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Contacts(ctx, sw.ID, "u1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMatch_StoreFailureIsTransientAndAtomic(t *testing.T) {
	s, db, n := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")
	if _, err := s.Agree(ctx, o1.ID, "u1"); err != nil {
		t.Fatal(err)
	}

	// Break offer writes so the commit fails after the swap CAS succeeded.
	if err := db.Exec(`ALTER TABLE offers RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}
	_, err := s.Agree(ctx, o1.ID, "u2")
	if Classify(err) != OutcomeTransient {
		t.Fatalf("expected transient outcome, got %v (%v)", Classify(err), err)
	}
	if e := n.last(); e.Outcome != OutcomeTransient || e.Message() != "Failed to update agreement" {
		t.Fatalf("unexpected event: %+v", e)
	}
	// Version 1 is the owner's pending consent; the failed match left no trace.
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapOpen || got.Version != 1 {
		t.Fatalf("failed commit left partial swap state: %+v", got)
	}
}

// N offerers and the owner race on one swap; exactly one offer matches.
func TestMatch_ConcurrentAgree_MutualExclusion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race.db")
	db, err := repo.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	s := &MatchService{DB: db, Notifier: NopNotifier{}, MaxRetries: 3}
	sw := mkSwap(t, db, "owner")

	const N = 8
	offers := make([]*domain.Offer, N)
	for i := range offers {
		offers[i] = mkOffer(t, db, sw.ID, "offerer-"+string(rune('a'+i)))
		// Every offerer consents first so the owner's agree on any offer matches.
		if _, err := s.Agree(ctx, offers[i].ID, offers[i].OffererID); err != nil {
			t.Fatalf("offerer agree: %v", err)
		}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		matched int
	)
	start := make(chan struct{})
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func(o *domain.Offer) {
			defer wg.Done()
			<-start
			res, err := s.Agree(ctx, o.ID, "owner")
			if err != nil {
				t.Errorf("Agree: %v", err)
				return
			}
			if !res.Matched {
				t.Errorf("expected every call to observe the match, got %+v", res)
			}
			if res.Changed {
				mu.Lock()
				matched++
				mu.Unlock()
			}
		}(offers[i])
	}
	close(start)
	wg.Wait()

	if matched != 1 {
		t.Fatalf("expected exactly one committing Agree, got %d", matched)
	}
	all, err := repo.ListOffers(ctx, db, sw.ID)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, o := range all {
		if o.AgreeState == domain.AgreeMatched {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one MATCHED offer, got %d", n)
	}
	// N pending consents plus the match.
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapMatched || got.Version != N+1 {
		t.Fatalf("unexpected swap: %+v", got)
	}
}

// A stale version (another process committed first) is retried and the
// retry observes the winner.
func TestMatch_LostCompareAndSwapIsRetried(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	o1 := mkOffer(t, db, sw.ID, "u2")
	if _, err := s.Agree(ctx, o1.ID, "u2"); err != nil {
		t.Fatal(err)
	}

	calls := 0
	s.DB.Callback().Update().Before("gorm:update").Register("test:steal", func(tx *gorm.DB) {
		if tx.Statement.Table != "swap_requests" || calls > 0 {
			return
		}
		calls++
		// Simulate a concurrent writer bumping the version.
		tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
			Exec("UPDATE swap_requests SET version = version + 1 WHERE id = ?", sw.ID)
	})
	t.Cleanup(func() { _ = s.DB.Callback().Update().Remove("test:steal") })

	res, err := s.Agree(ctx, o1.ID, "u1")
	if err != nil {
		t.Fatalf("Agree after lost CAS: %v", err)
	}
	if !res.Matched || calls != 1 {
		t.Fatalf("expected retry to match, res=%+v calls=%d", res, calls)
	}
}

// Another process matches a sibling offer between this call's read and its
// pending write. The write must lose, and the retry must report the match
// without leaving consent on the swap's other offer.
func TestMatch_PendingAgreeLosesToRemoteMatch(t *testing.T) {
	s, db, _ := newEngine(t)
	ctx := context.Background()
	sw := mkSwap(t, db, "u1")
	mine := mkOffer(t, db, sw.ID, "u2")
	theirs := mkOffer(t, db, sw.ID, "u3")

	remoteMatch := func(tx *gorm.DB) {
		raw := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
		raw.Exec("UPDATE swap_requests SET status = ?, matched_offer_id = ?, version = version + 1 WHERE id = ?",
			domain.SwapMatched, theirs.ID, sw.ID)
		raw.Exec("UPDATE offers SET agree_state = ? WHERE id = ?", domain.AgreeMatched, theirs.ID)
	}

	// The rollback after the lost write also discards the simulated match,
	// so it is applied again as the retry starts, as if already committed.
	calls, replayed := 0, false
	s.DB.Callback().Update().Before("gorm:update").Register("test:remote_match", func(tx *gorm.DB) {
		if tx.Statement.Table != "swap_requests" || calls > 0 {
			return
		}
		calls++
		remoteMatch(tx)
	})
	s.DB.Callback().Query().Before("gorm:query").Register("test:remote_commit", func(tx *gorm.DB) {
		if calls != 1 || replayed {
			return
		}
		replayed = true
		remoteMatch(tx)
	})
	t.Cleanup(func() {
		_ = s.DB.Callback().Update().Remove("test:remote_match")
		_ = s.DB.Callback().Query().Remove("test:remote_commit")
	})

	res, err := s.Agree(ctx, mine.ID, "u2")
	if err != nil {
		t.Fatalf("Agree: %v", err)
	}
	if calls != 1 || !res.Matched || res.Changed || res.State != domain.AgreeNone {
		t.Fatalf("expected a no-op reporting the match, res=%+v calls=%d", res, calls)
	}
	if got := offerState(t, db, mine.ID); got.AgreeState != domain.AgreeNone {
		t.Fatalf("pending consent left on a matched swap: %s", got.AgreeState)
	}
	if got := swapState(t, db, sw.ID); got.Status != domain.SwapMatched || got.MatchedOfferID == nil || *got.MatchedOfferID != theirs.ID {
		t.Fatalf("unexpected swap: %+v", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeSuccess},
		{ErrUnauthorized, OutcomeUnauthorized},
		{ErrInvalidTransition, OutcomeInvalidState},
		{ErrSwapNotFound, OutcomeNotFound},
		{ErrOfferNotFound, OutcomeNotFound},
		{ErrCourseNotFound, OutcomeNotFound},
		{invalid(&domain.ValidationError{}), OutcomeValidation},
		{ErrDuplicateOffer, OutcomeConflict},
		{ErrConflict, OutcomeConflict},
		{transient(errors.New("disk I/O")), OutcomeTransient},
		{errors.New("anything else"), OutcomeTransient},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
	var ve *domain.ValidationError
	if !errors.As(invalid(&domain.ValidationError{Field: "desired_crns"}), &ve) || ve.Field != "desired_crns" {
		t.Errorf("invalid() lost the field: %+v", ve)
	}
}
