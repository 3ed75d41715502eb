// Agreement HTTP handlers.
//
// This file exposes the matching engine:
//   - POST /offers/{id}/agree       (signal consent; may complete the match)
//   - POST /offers/{id}/unagree     (retract a pending consent)
//   - POST /offers/{id}/withdraw    (offerer retracts the offer)
//   - POST /swaps/{id}/close        (owner closes an open swap)
//   - GET  /swaps/{id}/disclosure   (contact details once matched)
//
// Every engine response carries the outcome classification and the
// user-facing message for it, on success and on failure alike, so clients
// can render the result without mapping status codes themselves.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/services"
)

// AgreementResponse is returned by agree, unagree and withdraw.
type AgreementResponse struct {
	Outcome services.Outcome `json:"outcome" example:"success"`
	Message string           `json:"message" example:"Swap matched! Emails have been revealed."`
	// Matched is true once the offer's swap is matched through this offer.
	Matched bool `json:"matched"`
	// Changed is false when the call was a no-op (repeated consent).
	Changed    bool                `json:"changed"`
	AgreeState domain.AgreeState   `json:"agree_state" example:"MATCHED"`
	Offer      *domain.Offer       `json:"offer"`
	Swap       *domain.SwapRequest `json:"swap,omitempty"`
}

// CloseSwapResponse is returned by close.
type CloseSwapResponse struct {
	Outcome services.Outcome    `json:"outcome" example:"success"`
	Message string              `json:"message" example:"Swap closed"`
	Swap    *domain.SwapRequest `json:"swap"`
}

// DisclosureResponse carries both parties' contact details once a swap is
// matched and the caller is one of them.
type DisclosureResponse struct {
	Disclosed bool                  `json:"disclosed"`
	Contacts  *services.ContactPair `json:"contacts,omitempty"`
}

// failEngine writes the error envelope with the engine's toast text.
func failEngine(c *gin.Context, op string, err error) {
	ev := services.Event{Op: op, Outcome: services.Classify(err), Err: err}
	failErr(c, err, ev.Message())
}

func successMessage(op string, matched bool) string {
	return services.Event{Op: op, Outcome: services.OutcomeSuccess, Matched: matched}.Message()
}

// Agree godoc
// @ID          agreeOffer
// @Summary     Agree to an offer
// @Description The swap owner or the offerer consents to the offer. When the other side has already consented the swap becomes matched and contact details are revealed to both.
// @Description Repeating one's own consent, or agreeing on a matched swap's offer, is a no-op (changed=false).
// @Tags        Agreement
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Offer ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.AgreementResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Not a party to this offer"
// @Failure     404  {object} handlers.ErrorResponse "Offer not found"
// @Failure     409  {object} handlers.ErrorResponse "Invalid state or concurrent update"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /offers/{id}/agree [post]
func (h *Handlers) Agree(c *gin.Context) {
	id, valid := pathUUID(c, "id", "offer")
	if !valid {
		return
	}
	res, err := h.matchSvc.Agree(c.Request.Context(), id, userID(c))
	if err != nil {
		failEngine(c, "agree", err)
		return
	}
	ok(c, http.StatusOK, AgreementResponse{
		Outcome:    services.OutcomeSuccess,
		Message:    successMessage("agree", res.Matched),
		Matched:    res.Matched,
		Changed:    res.Changed,
		AgreeState: res.State,
		Offer:      res.Offer,
		Swap:       res.Swap,
	})
}

// Unagree godoc
// @ID          unagreeOffer
// @Summary     Retract consent on an offer
// @Description Either party resets a pending (REQ or OFFER) agreement to NONE. Matched offers cannot be unagreed.
// @Tags        Agreement
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Offer ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.AgreementResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Not a party to this offer"
// @Failure     404  {object} handlers.ErrorResponse "Offer not found"
// @Failure     409  {object} handlers.ErrorResponse "Nothing pending to retract"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /offers/{id}/unagree [post]
func (h *Handlers) Unagree(c *gin.Context) {
	id, valid := pathUUID(c, "id", "offer")
	if !valid {
		return
	}
	o, err := h.matchSvc.Unagree(c.Request.Context(), id, userID(c))
	if err != nil {
		failEngine(c, "unagree", err)
		return
	}
	ok(c, http.StatusOK, AgreementResponse{
		Outcome:    services.OutcomeSuccess,
		Message:    successMessage("unagree", false),
		Changed:    true,
		AgreeState: o.AgreeState,
		Offer:      o,
	})
}

// Withdraw godoc
// @ID          withdrawOffer
// @Summary     Withdraw an offer
// @Description The offerer retracts an unmatched offer. Withdrawal is permanent.
// @Tags        Agreement
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Offer ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.AgreementResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Only the offerer may withdraw"
// @Failure     404  {object} handlers.ErrorResponse "Offer not found"
// @Failure     409  {object} handlers.ErrorResponse "Already withdrawn or matched"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /offers/{id}/withdraw [post]
func (h *Handlers) Withdraw(c *gin.Context) {
	id, valid := pathUUID(c, "id", "offer")
	if !valid {
		return
	}
	o, err := h.matchSvc.Withdraw(c.Request.Context(), id, userID(c))
	if err != nil {
		failEngine(c, "withdraw", err)
		return
	}
	ok(c, http.StatusOK, AgreementResponse{
		Outcome:    services.OutcomeSuccess,
		Message:    successMessage("withdraw", false),
		Changed:    true,
		AgreeState: o.AgreeState,
		Offer:      o,
	})
}

// CloseSwap godoc
// @ID          closeSwap
// @Summary     Close a swap request
// @Description The owner closes an open swap. Matched swaps cannot be closed.
// @Tags        Swaps
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Swap ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.CloseSwapResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Only the owner may close"
// @Failure     404  {object} handlers.ErrorResponse "Swap not found"
// @Failure     409  {object} handlers.ErrorResponse "Swap not open"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /swaps/{id}/close [post]
func (h *Handlers) CloseSwap(c *gin.Context) {
	id, valid := pathUUID(c, "id", "swap")
	if !valid {
		return
	}
	sw, err := h.matchSvc.CloseSwap(c.Request.Context(), id, userID(c))
	if err != nil {
		failEngine(c, "close", err)
		return
	}
	ok(c, http.StatusOK, CloseSwapResponse{
		Outcome: services.OutcomeSuccess,
		Message: successMessage("close", false),
		Swap:    sw,
	})
}

// Disclosure godoc
// @ID          swapDisclosure
// @Summary     Contact details of a matched swap
// @Description Returns both parties' names and emails when the swap is matched and the caller is its owner or matched offerer; otherwise disclosed=false.
// @Tags        Agreement
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Swap ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.DisclosureResponse
// @Header      200  {string} Cache-Control "no-store"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Swap or profile not found"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /swaps/{id}/disclosure [get]
func (h *Handlers) Disclosure(c *gin.Context) {
	id, valid := pathUUID(c, "id", "swap")
	if !valid {
		return
	}
	ctx := c.Request.Context()
	viewer := userID(c)

	disclosed, err := h.matchSvc.Disclose(ctx, id, viewer)
	if err != nil {
		failErr(c, err, "")
		return
	}
	if !disclosed {
		ok(c, http.StatusOK, DisclosureResponse{Disclosed: false})
		return
	}
	pair, err := h.matchSvc.Contacts(ctx, id, viewer)
	if err != nil {
		failErr(c, err, "")
		return
	}
	ok(c, http.StatusOK, DisclosureResponse{Disclosed: true, Contacts: pair})
}
