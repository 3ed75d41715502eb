// Package handlers holds the Gin handlers of the course-swap API.
//
// Every failure leaves through fail or failErr and is written as an
// ErrorResponse; 5xx responses are also logged on the request logger.
// Engine failures additionally carry the service outcome:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "invalid_state",
//	  "message": "That action is no longer available",
//	  "outcome": "invalid_state"
//	}
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/http/middleware"
	"github.com/tbourn/course-swap-backend/internal/services"
	"github.com/tbourn/course-swap-backend/internal/utils"
)

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable machine-readable code, see errors.go
	Code string `json:"code" example:"not_found"`
	// Safe to show to the student
	Message string `json:"message" example:"swap not found"`
	// Set when a service call failed
	Outcome services.Outcome `json:"outcome,omitempty" example:"not_found"`
}

// Pagination is the page metadata of list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

func fail(c *gin.Context, status int, code, msg string) {
	failWithOutcome(c, status, code, msg, "")
}

func failWithOutcome(c *gin.Context, status int, code, msg string, out services.Outcome) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if last := c.Errors.Last(); last != nil {
			ev = ev.Err(last.Err)
		}
		ev.Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Outcome:   out,
	})
}

// Fail writes the error envelope for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

const maxPageSize = 100

// clampPagination reads page (>= 1) and page_size (1..100, default 20).
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = max(utils.AtoiDefault(c.Query("page"), 1), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize), 1, maxPageSize)
	return page, pageSize
}

// weakETag builds W/"<kind>:<hash(scope)>:<count>:<unix>" for a collection.
// scope must cover everything else that shapes the body (filters, page).
func weakETag(kind string, scope []string, count int64, maxTS *time.Time) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(scope, "\x00")))
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	return fmt.Sprintf(`W/"%s:%x:%d:%d"`, kind, h.Sum64(), count, ts)
}

// notModified sets ETag and reports whether If-None-Match already holds it,
// in which case a 304 has been written.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
