package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxbridge/taxbridge-api/internal/classification"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
	"github.com/taxbridge/taxbridge-api/internal/session"
	"github.com/taxbridge/taxbridge-api/internal/types/requests"
	"github.com/taxbridge/taxbridge-api/internal/types/responses"
	"github.com/taxbridge/taxbridge-api/internal/vat"
)

// VatHandler handles tax identifier validation.
type VatHandler struct {
	common *CommonServices
}

// NewVatHandler creates the validation handler.
func NewVatHandler(common *CommonServices) *VatHandler {
	return &VatHandler{common: common}
}

// ValidateVat checks an identifier against format, session cache and the
// external registry, in that order, and folds the verdict into the session's
// classification state.
func (h *VatHandler) ValidateVat(c *gin.Context) {
	var req requests.ValidateVatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VAT ID is required", err)
		return
	}

	sess := h.common.session(c)
	outcome, status, msg := validateIntoSession(c, sess, req.TaxID)
	if msg != "" {
		sendError(c, status, msg, nil)
		return
	}

	if !outcome.Valid() {
		sendSuccess(c, http.StatusOK, responses.ValidateVatResponse{
			Success: false,
			Message: "Invalid VAT ID",
			Data:    outcome.Payload,
		})
		return
	}

	sendSuccess(c, http.StatusOK, responses.ValidateVatResponse{
		Success: true,
		Data:    outcome.Payload,
	})
}

// CheckCompletion evaluates the completion-intercept predicate for the
// session and reports the blocking reason when checkout may not proceed.
func (h *VatHandler) CheckCompletion(c *gin.Context) {
	state := h.common.session(c).State()
	complete, reason := classification.Complete(state)

	sendSuccess(c, http.StatusOK, responses.CompletionResponse{
		Success:  true,
		Complete: complete,
		Reason:   string(reason),
	})
}

// validateIntoSession runs the full edit-validate cycle on the session:
// SetTaxID (with cache short-circuit), ValidationStarted, registry check,
// then the settled outcome event under the captured sequence so a stale
// reply cannot land on a newer identifier. A non-empty message means the
// request failed with the returned HTTP status.
func validateIntoSession(c *gin.Context, sess *session.Session, taxID string) (vat.Outcome, int, string) {
	state := sess.Apply(classification.SetTaxID{Value: vat.Normalize(taxID)})
	seq := state.Seq

	if state.Validation == classification.Valid {
		// Session cache hit; no registry call.
		outcome, _ := sess.Validator().Cache().Lookup(state.TaxID)
		return outcome, http.StatusOK, ""
	}

	sess.Apply(classification.ValidationStarted{Seq: seq})

	outcome, err := sess.Validator().Validate(c.Request.Context(), taxID)
	switch {
	case errors.Is(err, vat.ErrBadFormat):
		return vat.Outcome{}, http.StatusBadRequest,
			"Invalid VAT ID format. VAT ID should start with a 2-letter country code followed by numbers."
	case errors.Is(err, registry.ErrRateLimited):
		return vat.Outcome{}, http.StatusTooManyRequests,
			"Rate limit exceeded. Please try again later."
	case errors.Is(err, registry.ErrMisconfigured):
		return vat.Outcome{}, http.StatusInternalServerError,
			"Server configuration error"
	case errors.Is(err, registry.ErrUnavailable):
		return vat.Outcome{}, http.StatusServiceUnavailable,
			"VAT registry is temporarily unavailable. Please try again later."
	case err != nil:
		return vat.Outcome{}, http.StatusInternalServerError,
			"Failed to validate VAT ID"
	}

	if outcome.Valid() {
		sess.Apply(classification.ValidationSucceeded{Seq: seq, Payload: outcome.Payload})
	} else {
		sess.Apply(classification.ValidationFailed{Seq: seq, Reason: outcome.Reason})
	}

	return outcome, http.StatusOK, ""
}
