package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxbridge/taxbridge-api/internal/classification"
	"github.com/taxbridge/taxbridge-api/internal/client/commerce"
	"github.com/taxbridge/taxbridge-api/internal/reconcile"
	"github.com/taxbridge/taxbridge-api/internal/types/requests"
	"github.com/taxbridge/taxbridge-api/internal/types/responses"
)

// CommerceHandler handles the backend-write endpoints: storing identifiers,
// toggling exemption and the stored-identifier read path.
type CommerceHandler struct {
	common *CommonServices
}

// NewCommerceHandler creates the commerce handler.
func NewCommerceHandler(common *CommonServices) *CommerceHandler {
	return &CommerceHandler{common: common}
}

// SetVatID validates the identifier (cache first) and runs a reconciliation
// round: resolve-or-create the customer, store the identifier metafield and
// set the exemption flag per the store's eligibility rule.
func (h *CommerceHandler) SetVatID(c *gin.Context) {
	var req requests.SetVatIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest,
			"Missing required fields: customerId or email, value, and storeDomain are required", err)
		return
	}
	if req.CustomerID == "" && req.Email == "" {
		sendError(c, http.StatusBadRequest,
			"Missing required fields: customerId or email, value, and storeDomain are required", nil)
		return
	}

	gateway, err := h.common.commerceFor(c.Request.Context(), req.StoreDomain)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Credentials not found for store", err)
		return
	}

	sess := h.common.session(c)
	sess.Apply(classification.SetBuyerType{Type: classification.Business})

	outcome, status, msg := validateIntoSession(c, sess, req.Value)
	if msg != "" {
		sendError(c, status, msg, nil)
		return
	}
	if !outcome.Valid() {
		sendError(c, http.StatusBadRequest, "Invalid VAT ID", nil)
		return
	}

	engine := reconcile.NewEngine(gateway, h.common.Eligibility())
	result, err := engine.Reconcile(c.Request.Context(), sess, reconcile.Input{
		StoreDomain:     req.StoreDomain,
		CustomerID:      req.CustomerID,
		Email:           req.Email,
		ShippingCountry: req.ShippingCountry,
	})
	if err != nil {
		sendError(c, writeFailureStatus(err), "Failed to set customer VAT ID", err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.Envelope{
		Success: true,
		Message: "Customer VAT ID set successfully",
		Data:    result,
	})
}

// ExemptCustomer toggles the exemption flag in either direction. Revoking
// exemption runs through the full reconciliation so the stored identifier is
// cleared along with the flag.
func (h *CommerceHandler) ExemptCustomer(c *gin.Context) {
	var req requests.ExemptCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest,
			"Missing required fields: customerId or email, storeDomain and exempt are required", err)
		return
	}
	if req.CustomerID == "" && req.Email == "" {
		sendError(c, http.StatusBadRequest,
			"Missing required fields: customerId or email, storeDomain and exempt are required", nil)
		return
	}

	gateway, err := h.common.commerceFor(c.Request.Context(), req.StoreDomain)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Credentials not found for store", err)
		return
	}

	sess := h.common.session(c)
	engine := reconcile.NewEngine(gateway, h.common.Eligibility())
	input := reconcile.Input{
		StoreDomain:     req.StoreDomain,
		CustomerID:      req.CustomerID,
		Email:           req.Email,
		ShippingCountry: req.ShippingCountry,
	}

	var result *reconcile.Result
	if *req.Exempt {
		result, err = engine.ForceExemption(c.Request.Context(), sess, input, true)
	} else {
		// Revoking exemption means the buyer is a consumer again; the
		// engine then drives Not-Exempt and clears the stored identifier.
		sess.Apply(classification.SetBuyerType{Type: classification.Consumer})
		result, err = engine.Reconcile(c.Request.Context(), sess, input)
	}
	if err != nil {
		sendError(c, writeFailureStatus(err), "Failed to update customer tax exemption", err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.Envelope{
		Success: true,
		Message: "Customer tax exemption updated successfully",
		Data:    result,
	})
}

// GetCustomerVatID reads the stored identifier for the customer. A hit seeds
// the session as a known business buyer so no fresh registry call is needed.
func (h *CommerceHandler) GetCustomerVatID(c *gin.Context) {
	var req requests.GetCustomerVatIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Missing required fields: customerId or email", err)
		return
	}
	if req.CustomerID == "" && req.Email == "" {
		sendError(c, http.StatusBadRequest, "Missing required fields: customerId or email", nil)
		return
	}

	gateway, err := h.common.commerceFor(c.Request.Context(), req.StoreDomain)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Credentials not found for store", err)
		return
	}

	vatID, err := gateway.GetTaxIdentifier(c.Request.Context(), req.CustomerID, req.Email)
	if err != nil {
		sendError(c, writeFailureStatus(err), "Failed to get customer VAT ID", err)
		return
	}

	sess := h.common.session(c)
	if req.CustomerID != "" {
		sess.SetCustomerID(req.CustomerID)
	}
	if vatID != "" {
		sess.SeedValidated(vatID, nil)
	}

	sendSuccess(c, http.StatusOK, responses.CustomerVatIDResponse{
		Success: true,
		VatID:   vatID,
	})
}

// SetMetafield is the generic fallback metafield write.
func (h *CommerceHandler) SetMetafield(c *gin.Context) {
	var req requests.SetMetafieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest,
			"Missing required fields: customerId, namespace, key, value, type and storeDomain are required", err)
		return
	}

	gateway, err := h.common.commerceFor(c.Request.Context(), req.StoreDomain)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Credentials not found for store", err)
		return
	}

	customer, err := gateway.SetMetafield(c.Request.Context(),
		req.CustomerID, req.Namespace, req.Key, req.Value, req.Type)
	if err != nil {
		sendError(c, writeFailureStatus(err), "Failed to set customer metafield", err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.Envelope{
		Success: true,
		Message: "Customer metafield set successfully",
		Data:    customer,
	})
}

// writeFailureStatus maps classified gateway failures to HTTP statuses:
// domain-level rejections are the client's problem, everything else is a
// gateway failure.
func writeFailureStatus(err error) int {
	var userErr *commerce.UserError
	if errors.As(err, &userErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
