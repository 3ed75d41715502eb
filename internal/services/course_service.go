package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tbourn/course-swap-backend/internal/catalog"
	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrCourseNotFound indicates the catalog has no such course.
var ErrCourseNotFound = catalog.ErrNotFound

// CourseLookup resolves a subject/number pair. *catalog.Client implements it.
type CourseLookup interface {
	Lookup(ctx context.Context, subject, number string) (*catalog.CourseWithSections, catalog.Source, error)
}

// CourseService answers catalog queries.
type CourseService struct {
	Catalog CourseLookup
	Index   catalog.Index
}

// Lookup parses input like "CS 180" and resolves it with its sections.
func (s *CourseService) Lookup(ctx context.Context, input string) (*catalog.CourseWithSections, error) {
	ctx, span := observability.Tracer("services/CourseService").Start(ctx, "Lookup",
		trace.WithAttributes(attribute.String("query", input)),
	)
	defer span.End()

	subject, number, err := catalog.ParseCourseInput(input)
	if err != nil {
		return nil, invalid(&domain.ValidationError{Field: "q", Reason: err.Error()})
	}
	cws, src, err := s.Catalog.Lookup(ctx, subject, number)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, transient(err)
	}
	catalogLookups.WithLabelValues(string(src)).Inc()
	span.SetAttributes(attribute.String("source", string(src)))
	return cws, nil
}

// Search ranks known courses against free text.
func (s *CourseService) Search(ctx context.Context, q string, k int) []catalog.Result {
	_, span := observability.Tracer("services/CourseService").Start(ctx, "Search",
		trace.WithAttributes(attribute.String("query", q), attribute.Int("k", k)),
	)
	defer span.End()

	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []catalog.Result{}
	}
	catalogLookups.WithLabelValues("index").Inc()
	res := s.Index.TopK(q, k)
	if res == nil {
		return []catalog.Result{}
	}
	return res
}
