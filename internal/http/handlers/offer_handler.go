// Offer HTTP handlers.
//
// This file exposes the REST endpoint for making an offer on a swap:
//   - POST /swaps/{id}/offers   (create, Idempotency-Key aware)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, swap, key), the handler returns that recorded offer
// with 200 and sets `Idempotency-Replayed: true` instead of creating a second
// one. The key is validated by middleware.IdempotencyValidator.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/http/middleware"
	"github.com/tbourn/course-swap-backend/internal/services"
)

// CreateOfferRequest is the JSON payload for making an offer.
type CreateOfferRequest struct {
	// OfferedCRN is the section the offerer holds and gives up.
	OfferedCRN string `json:"offered_crn" binding:"required" example:"10274"`
	Note       string `json:"note" example:"Can also do Tuesday lab"`
}

// CreateOffer godoc
// @ID          createOffer
// @Summary     Make an offer on a swap
// @Description Offers the caller's section in exchange for the swap owner's. One active offer per user per swap.
// @Description Supports idempotency via the Idempotency-Key header (same key → same offer).
// @Tags        Offers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Swap ID (UUID)"  format(uuid)
// @Param       body             body    handlers.CreateOfferRequest  true  "Offer"
//
// @Success     201  {object}  domain.Offer  "Created"
// @Success     200  {object}  domain.Offer  "Replayed"
// @Header      200  {string}  Idempotency-Replayed "true"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     403  {object}  handlers.ErrorResponse  "Cannot offer on your own swap"
// @Failure     404  {object}  handlers.ErrorResponse  "Swap not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Swap not open, or an active offer already exists"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /swaps/{id}/offers [post]
func (h *Handlers) CreateOffer(c *gin.Context) {
	swapID, valid := pathUUID(c, "id", "swap")
	if !valid {
		return
	}

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "offered_crn required")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	o, replayed, err := h.offerSvc.CreateIdempotent(c.Request.Context(), userID(c), swapID, key, services.OfferInput{
		OfferedCRN: req.OfferedCRN,
		Note:       req.Note,
	})
	if err != nil {
		failErr(c, err, "")
		return
	}
	if replayed {
		c.Header("Idempotency-Replayed", "true")
		ok(c, http.StatusOK, o)
		return
	}
	ok(c, http.StatusCreated, o)
}
