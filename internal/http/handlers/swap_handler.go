// Swap HTTP handlers.
//
// This file exposes REST endpoints for swap requests:
//   - POST   /swaps               (create)
//   - GET    /swaps               (list, filtered + paginated, ETag support)
//   - GET    /swaps/{id}          (fetch one)
//   - GET    /swaps/{id}/offers   (offers made on a swap)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/course-swap-backend/internal/catalog"
	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/http/middleware"
	"github.com/tbourn/course-swap-backend/internal/repo"
	"github.com/tbourn/course-swap-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SwapService defines swap request operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SwapService interface {
	// Create lists a new open swap request owned by ownerID.
	Create(ctx context.Context, ownerID string, in services.SwapInput) (*domain.SwapRequest, error)
	// Get returns a swap by id.
	Get(ctx context.Context, id string) (*domain.SwapRequest, error)
	// ListPage returns a page of swaps matching f and the total count.
	ListPage(ctx context.Context, f repo.SwapFilter, page, pageSize int) ([]domain.SwapRequest, int64, error)
	// Stats returns the count and latest update among swaps matching f.
	Stats(ctx context.Context, f repo.SwapFilter) (int64, *time.Time, error)
	// ListOffers returns every offer on a swap, oldest first.
	ListOffers(ctx context.Context, swapID string) ([]domain.Offer, error)
}

// OfferService creates offers.
type OfferService interface {
	// CreateIdempotent creates an offer; a repeated key replays the first result.
	CreateIdempotent(ctx context.Context, offererID, swapID, key string, in services.OfferInput) (*domain.Offer, bool, error)
}

// MatchService is the agreement/matching engine.
type MatchService interface {
	Agree(ctx context.Context, offerID, actorID string) (*services.AgreeResult, error)
	Unagree(ctx context.Context, offerID, actorID string) (*domain.Offer, error)
	Withdraw(ctx context.Context, offerID, actorID string) (*domain.Offer, error)
	CloseSwap(ctx context.Context, swapID, actorID string) (*domain.SwapRequest, error)
	Disclose(ctx context.Context, swapID, viewerID string) (bool, error)
	Contacts(ctx context.Context, swapID, viewerID string) (*services.ContactPair, error)
}

// MessageService defines the offer direct-message thread.
type MessageService interface {
	// Post appends a message from userID; only the two offer parties may post.
	Post(ctx context.Context, userID, offerID, body string) (*domain.OfferMessage, error)
	// ListPage returns a page of the thread (oldest first) and the total count.
	ListPage(ctx context.Context, userID, offerID string, page, pageSize int) ([]domain.OfferMessage, int64, error)
	// Stats returns the thread length and the time of its latest message.
	Stats(ctx context.Context, offerID string) (int64, *time.Time, error)
}

// CourseService answers catalog queries.
type CourseService interface {
	Lookup(ctx context.Context, input string) (*catalog.CourseWithSections, error)
	Search(ctx context.Context, q string, k int) []catalog.Result
}

// DashboardService builds the per-user overview.
type DashboardService interface {
	For(ctx context.Context, userID string) (*services.Dashboard, error)
}

//
// Handler wiring
//

// Deps lists the services the handlers depend on.
type Deps struct {
	Swaps     SwapService
	Offers    OfferService
	Match     MatchService
	Messages  MessageService
	Courses   CourseService
	Dashboard DashboardService
}

// Handlers groups HTTP endpoints for swaps, offers, the matching engine,
// offer messages, the course catalog and the dashboard. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	swapSvc  SwapService
	offerSvc OfferService
	matchSvc MatchService
	msgSvc   MessageService
	courses  CourseService
	dash     DashboardService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	return &Handlers{
		swapSvc:  d.Swaps,
		offerSvc: d.Offers,
		matchSvc: d.Match,
		msgSvc:   d.Messages,
		courses:  d.Courses,
		dash:     d.Dashboard,
	}
}

// userID returns the caller established by middleware.Auth.
func userID(c *gin.Context) string { return middleware.UserID(c) }

// pathUUID reads a UUID path parameter, writing a 400 when malformed.
func pathUUID(c *gin.Context, name, what string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, what+" id must be a UUID")
		return "", false
	}
	return id, true
}

//
// DTOs
//

// CreateSwapRequest is the JSON payload for listing a swap.
type CreateSwapRequest struct {
	CourseID    string   `json:"course_id" binding:"required" example:"CS-18000"`
	Term        string   `json:"term" example:"Fall 2025"`
	Campus      string   `json:"campus" example:"West Lafayette"`
	CurrentCRN  string   `json:"current_crn" binding:"required" example:"10137"`
	DesiredCRNs []string `json:"desired_crns" binding:"required" example:"10274"`
	TimeWindow  string   `json:"time_window" example:"mornings"`
	Notes       string   `json:"notes" example:"Happy to swap labs too"`
}

// ListSwapsResponse wraps a page of swaps and pagination information.
type ListSwapsResponse struct {
	Swaps      []domain.SwapRequest `json:"swaps"`
	Pagination Pagination           `json:"pagination"`
}

// ListOffersResponse wraps all offers on a swap.
type ListOffersResponse struct {
	Offers []domain.Offer `json:"offers"`
}

// swapFilter reads list filters from the query string.
func swapFilter(c *gin.Context) (repo.SwapFilter, bool) {
	f := repo.SwapFilter{
		CourseID: strings.ToUpper(strings.TrimSpace(c.Query("course_id"))),
		Term:     strings.TrimSpace(c.Query("term")),
		OwnerID:  strings.TrimSpace(c.Query("owner_id")),
	}
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		f.OwnerID = userID(c)
	}
	switch st := domain.SwapStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))); st {
	case "":
	case domain.SwapOpen, domain.SwapMatched, domain.SwapClosed:
		f.Status = st
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of: open, matched, closed")
		return f, false
	}
	return f, true
}

//
// Handlers
//

// CreateSwap godoc
// @ID          createSwap
// @Summary     List a swap request
// @Description Offers the caller's current section (CRN) in exchange for one of up to five desired sections.
// @Tags        Swaps
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateSwapRequest  true  "Swap request"
//
// @Success     201  {object}  domain.SwapRequest
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /swaps [post]
func (h *Handlers) CreateSwap(c *gin.Context) {
	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sw, err := h.swapSvc.Create(c.Request.Context(), userID(c), services.SwapInput{
		CourseID:    req.CourseID,
		Term:        req.Term,
		Campus:      req.Campus,
		CurrentCRN:  req.CurrentCRN,
		DesiredCRNs: req.DesiredCRNs,
		TimeWindow:  req.TimeWindow,
		Notes:       req.Notes,
	})
	if err != nil {
		failErr(c, err, "")
		return
	}
	c.Header("Location", c.FullPath()+"/"+sw.ID)
	ok(c, http.StatusCreated, sw)
}

// ListSwaps godoc
// @ID          listSwaps
// @Summary     List swap requests (paginated)
// @Description Returns swaps newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Swaps
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"swaps:ab12:3:1700000000\")
// @Param       status         query   string  false "open | matched | closed"
// @Param       course_id      query   string  false "Course key"                   example(CS-18000)
// @Param       term           query   string  false "Term"                         example(Fall 2025)
// @Param       owner_id       query   string  false "Only swaps listed by this user"
// @Param       mine           query   bool    false "Only the caller's swaps"
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSwapsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /swaps [get]
func (h *Handlers) ListSwaps(c *gin.Context) {
	ctx := c.Request.Context()
	f, valid := swapFilter(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.swapSvc.Stats(ctx, f); err == nil {
		scope := []string{string(f.Status), f.CourseID, f.Term, f.OwnerID, strconv.Itoa(page), strconv.Itoa(pageSize)}
		if notModified(c, weakETag("swaps", scope, count, maxTS)) {
			return
		}
	}

	items, total, err := h.swapSvc.ListPage(ctx, f, page, pageSize)
	if err != nil {
		failErr(c, err, "")
		return
	}
	ok(c, http.StatusOK, ListSwapsResponse{Swaps: items, Pagination: newPagination(page, pageSize, total)})
}

// GetSwap godoc
// @ID          getSwap
// @Summary     Get a swap request
// @Tags        Swaps
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Swap ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.SwapRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Swap not found"
// @Router      /swaps/{id} [get]
func (h *Handlers) GetSwap(c *gin.Context) {
	id, valid := pathUUID(c, "id", "swap")
	if !valid {
		return
	}
	sw, err := h.swapSvc.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err, "")
		return
	}
	ok(c, http.StatusOK, sw)
}

// ListOffers godoc
// @ID          listOffers
// @Summary     List offers on a swap
// @Description Returns all offers on the swap, oldest first, including withdrawn ones.
// @Tags        Offers
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Swap ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ListOffersResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Swap not found"
// @Router      /swaps/{id}/offers [get]
func (h *Handlers) ListOffers(c *gin.Context) {
	id, valid := pathUUID(c, "id", "swap")
	if !valid {
		return
	}
	offers, err := h.swapSvc.ListOffers(c.Request.Context(), id)
	if err != nil {
		failErr(c, err, "")
		return
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	ok(c, http.StatusOK, ListOffersResponse{Offers: offers})
}
