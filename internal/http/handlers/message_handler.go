// Offer threads: POST and GET /offers/{id}/messages. Only the swap owner
// and the offerer may read or post; MessageService enforces that.
package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/domain"
)

// PostMessageRequest is a new message; the service bounds its length.
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"Does the Tuesday lab work for you?"`
}

type PostMessageResponse struct {
	Message *domain.OfferMessage `json:"message"`
}

// ListMessagesResponse is one page of a thread, oldest first.
type ListMessagesResponse struct {
	Messages   []domain.OfferMessage `json:"messages"`
	Pagination Pagination            `json:"pagination"`
}

var (
	newlines   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// sanitizeContent normalizes line endings to LF, keeps at most one blank
// line between paragraphs and trims the ends.
func sanitizeContent(raw string) string {
	s := blankLines.ReplaceAllString(newlines.Replace(raw), "\n\n")
	return strings.TrimSpace(s)
}

// PostMessage godoc
// @ID          postOfferMessage
// @Summary     Message the other party of an offer
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Offer ID (UUID)"  format(uuid)
// @Param       body  body  handlers.PostMessageRequest  true  "Message"
//
// @Success     201  {object}  handlers.PostMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party to this offer"
// @Failure     404  {object}  handlers.ErrorResponse  "Offer not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /offers/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	offerID, valid := pathUUID(c, "id", "offer")
	if !valid {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}
	body := sanitizeContent(req.Body)
	if body == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	m, err := h.msgSvc.Post(c.Request.Context(), userID(c), offerID, body)
	if err != nil {
		failErr(c, err, "")
		return
	}
	ok(c, http.StatusCreated, PostMessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listOfferMessages
// @Summary     List the messages of an offer
// @Description Returns the thread oldest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Messages
// @Produce     json
// @Security    BearerAuth
//
// @Param       id             path    string  true  "Offer ID (UUID)"  format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Not a party to this offer"
// @Failure     404  {object} handlers.ErrorResponse "Offer not found"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /offers/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	offerID, valid := pathUUID(c, "id", "offer")
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	// The service checks participation, so the page is fetched before the
	// ETag is offered; a 304 then only saves the response body.
	items, total, err := h.msgSvc.ListPage(ctx, userID(c), offerID, page, pageSize)
	if err != nil {
		failErr(c, err, "")
		return
	}
	if count, maxTS, err := h.msgSvc.Stats(ctx, offerID); err == nil {
		scope := []string{offerID, strconv.Itoa(page), strconv.Itoa(pageSize)}
		if notModified(c, weakETag("messages", scope, count, maxTS)) {
			return
		}
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}
