package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/catalog"
	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/http/middleware"
	"github.com/tbourn/course-swap-backend/internal/repo"
	"github.com/tbourn/course-swap-backend/internal/services"
)

// ---------- service stubs ----------

type stubSwapSvc struct {
	create     func(ctx context.Context, ownerID string, in services.SwapInput) (*domain.SwapRequest, error)
	get        func(ctx context.Context, id string) (*domain.SwapRequest, error)
	listPage   func(ctx context.Context, f repo.SwapFilter, page, pageSize int) ([]domain.SwapRequest, int64, error)
	stats      func(ctx context.Context, f repo.SwapFilter) (int64, *time.Time, error)
	listOffers func(ctx context.Context, swapID string) ([]domain.Offer, error)
}

func (s stubSwapSvc) Create(ctx context.Context, ownerID string, in services.SwapInput) (*domain.SwapRequest, error) {
	return s.create(ctx, ownerID, in)
}

func (s stubSwapSvc) Get(ctx context.Context, id string) (*domain.SwapRequest, error) {
	return s.get(ctx, id)
}

func (s stubSwapSvc) ListPage(ctx context.Context, f repo.SwapFilter, page, pageSize int) ([]domain.SwapRequest, int64, error) {
	return s.listPage(ctx, f, page, pageSize)
}

func (s stubSwapSvc) Stats(ctx context.Context, f repo.SwapFilter) (int64, *time.Time, error) {
	if s.stats == nil {
		return 0, nil, services.ErrTransient
	}
	return s.stats(ctx, f)
}

func (s stubSwapSvc) ListOffers(ctx context.Context, swapID string) ([]domain.Offer, error) {
	return s.listOffers(ctx, swapID)
}

type stubOfferSvc struct {
	create func(ctx context.Context, offererID, swapID, key string, in services.OfferInput) (*domain.Offer, bool, error)
}

func (s stubOfferSvc) CreateIdempotent(ctx context.Context, offererID, swapID, key string, in services.OfferInput) (*domain.Offer, bool, error) {
	return s.create(ctx, offererID, swapID, key, in)
}

type stubMatchSvc struct {
	agree    func(ctx context.Context, offerID, actorID string) (*services.AgreeResult, error)
	unagree  func(ctx context.Context, offerID, actorID string) (*domain.Offer, error)
	withdraw func(ctx context.Context, offerID, actorID string) (*domain.Offer, error)
	closeFn  func(ctx context.Context, swapID, actorID string) (*domain.SwapRequest, error)
	disclose func(ctx context.Context, swapID, viewerID string) (bool, error)
	contacts func(ctx context.Context, swapID, viewerID string) (*services.ContactPair, error)
}

func (s stubMatchSvc) Agree(ctx context.Context, offerID, actorID string) (*services.AgreeResult, error) {
	return s.agree(ctx, offerID, actorID)
}

func (s stubMatchSvc) Unagree(ctx context.Context, offerID, actorID string) (*domain.Offer, error) {
	return s.unagree(ctx, offerID, actorID)
}

func (s stubMatchSvc) Withdraw(ctx context.Context, offerID, actorID string) (*domain.Offer, error) {
	return s.withdraw(ctx, offerID, actorID)
}

func (s stubMatchSvc) CloseSwap(ctx context.Context, swapID, actorID string) (*domain.SwapRequest, error) {
	return s.closeFn(ctx, swapID, actorID)
}

func (s stubMatchSvc) Disclose(ctx context.Context, swapID, viewerID string) (bool, error) {
	return s.disclose(ctx, swapID, viewerID)
}

func (s stubMatchSvc) Contacts(ctx context.Context, swapID, viewerID string) (*services.ContactPair, error) {
	return s.contacts(ctx, swapID, viewerID)
}

type stubMsgSvc struct {
	post  func(ctx context.Context, userID, offerID, body string) (*domain.OfferMessage, error)
	list  func(ctx context.Context, userID, offerID string, page, pageSize int) ([]domain.OfferMessage, int64, error)
	stats func(ctx context.Context, offerID string) (int64, *time.Time, error)
}

func (s stubMsgSvc) Post(ctx context.Context, userID, offerID, body string) (*domain.OfferMessage, error) {
	return s.post(ctx, userID, offerID, body)
}

func (s stubMsgSvc) ListPage(ctx context.Context, userID, offerID string, page, pageSize int) ([]domain.OfferMessage, int64, error) {
	return s.list(ctx, userID, offerID, page, pageSize)
}

func (s stubMsgSvc) Stats(ctx context.Context, offerID string) (int64, *time.Time, error) {
	if s.stats == nil {
		return 0, nil, services.ErrTransient
	}
	return s.stats(ctx, offerID)
}

type stubCourseSvc struct {
	lookup func(ctx context.Context, input string) (*catalog.CourseWithSections, error)
	search func(ctx context.Context, q string, k int) []catalog.Result
}

func (s stubCourseSvc) Lookup(ctx context.Context, input string) (*catalog.CourseWithSections, error) {
	return s.lookup(ctx, input)
}

func (s stubCourseSvc) Search(ctx context.Context, q string, k int) []catalog.Result {
	return s.search(ctx, q, k)
}

type stubDashSvc struct {
	forFn func(ctx context.Context, userID string) (*services.Dashboard, error)
}

func (s stubDashSvc) For(ctx context.Context, userID string) (*services.Dashboard, error) {
	return s.forFn(ctx, userID)
}

// ---------- plumbing ----------

// newRouter returns an engine with dev-header auth, as used when no JWT
// secret is configured.
func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth(middleware.AuthOptions{}))
	return r
}

// do sends a request as user (empty for anonymous) and returns the recorder.
func do(r http.Handler, method, path, user string, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}
