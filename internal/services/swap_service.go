// Package services – SwapService
//
// This file implements SwapService, which manages swap requests: creation
// with CRN validation, lookup, filtered pagination, aggregate stats for
// conditional responses, and listing a swap's offers. Status changes after
// creation belong to MatchService.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"
	"github.com/tbourn/course-swap-backend/internal/repo"
	"github.com/tbourn/course-swap-backend/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SwapRepo defines the repository contract required by SwapService.
type SwapRepo interface {
	// CreateSwap inserts a new open swap request.
	CreateSwap(ctx context.Context, db *gorm.DB, s *domain.SwapRequest) error

	// GetSwap fetches a swap by ID.
	GetSwap(ctx context.Context, db *gorm.DB, id string) (*domain.SwapRequest, error)

	// CountSwaps returns the total number of swaps matching the filter.
	CountSwaps(ctx context.Context, db *gorm.DB, f repo.SwapFilter) (int64, error)

	// ListSwapsPage returns a page of swaps matching the filter, newest first.
	ListSwapsPage(ctx context.Context, db *gorm.DB, f repo.SwapFilter, offset, limit int) ([]domain.SwapRequest, error)
}

// SwapInput carries the client-supplied fields of a new swap request.
type SwapInput struct {
	CourseID    string   `json:"course_id"`
	Term        string   `json:"term"`
	Campus      string   `json:"campus"`
	CurrentCRN  string   `json:"current_crn"`
	DesiredCRNs []string `json:"desired_crns"`
	TimeWindow  string   `json:"time_window"`
	Notes       string   `json:"notes"`
}

// SwapService provides swap-request operations.
type SwapService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the swap repository used by this service.
	Repo SwapRepo
}

// NewSwapService constructs a SwapService.
func NewSwapService(db *gorm.DB, r SwapRepo) *SwapService {
	return &SwapService{DB: db, Repo: r}
}

// Create validates in and inserts an open swap request owned by ownerID.
func (s *SwapService) Create(ctx context.Context, ownerID string, in SwapInput) (*domain.SwapRequest, error) {
	ctx, span := observability.Tracer("services/SwapService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("user.id", ownerID),
			attribute.String("course.id", in.CourseID),
		),
	)
	defer span.End()

	sw := &domain.SwapRequest{
		OwnerID:     ownerID,
		CourseID:    strings.ToUpper(strings.TrimSpace(in.CourseID)),
		Term:        in.Term,
		Campus:      strings.TrimSpace(in.Campus),
		CurrentCRN:  in.CurrentCRN,
		DesiredCRNs: domain.CRNList(append([]string(nil), in.DesiredCRNs...)),
		TimeWindow:  strings.TrimSpace(in.TimeWindow),
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := domain.ValidateSwap(sw); err != nil {
		return nil, invalid(err)
	}
	if err := s.Repo.CreateSwap(ctx, s.DB, sw); err != nil {
		return nil, transient(err)
	}
	return sw, nil
}

// Get returns a swap by ID or ErrSwapNotFound.
func (s *SwapService) Get(ctx context.Context, id string) (*domain.SwapRequest, error) {
	sw, err := s.Repo.GetSwap(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrSwapNotFound)
	}
	return sw, nil
}

// ListPage returns a page of swaps matching f. It applies defaults for
// invalid page/pageSize and returns the total count.
func (s *SwapService) ListPage(ctx context.Context, f repo.SwapFilter, page, pageSize int) ([]domain.SwapRequest, int64, error) {
	ctx, span := observability.Tracer("services/SwapService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("status", string(f.Status)),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	page, pageSize, offset := utils.Page(page, pageSize)

	total, err := s.Repo.CountSwaps(ctx, s.DB, f)
	if err != nil {
		return nil, 0, transient(err)
	}
	if total == 0 {
		return []domain.SwapRequest{}, 0, nil
	}

	items, err := s.Repo.ListSwapsPage(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, 0, transient(err)
	}
	return items, total, nil
}

// Stats returns the row count and latest update of the swaps matching f.
func (s *SwapService) Stats(ctx context.Context, f repo.SwapFilter) (int64, *time.Time, error) {
	return repo.SwapsStats(ctx, s.DB, f)
}

// ListOffers returns every offer on swapID, oldest first.
func (s *SwapService) ListOffers(ctx context.Context, swapID string) ([]domain.Offer, error) {
	if _, err := s.Get(ctx, swapID); err != nil {
		return nil, err
	}
	offers, err := repo.ListOffers(ctx, s.DB, swapID)
	if err != nil {
		return nil, transient(err)
	}
	return offers, nil
}
