package responses

import "github.com/taxbridge/taxbridge-api/internal/client/registry"

// Envelope is the common response shape of the API.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidateVatResponse reports a registry verdict.
type ValidateVatResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    *registry.CheckResult `json:"data,omitempty"`
}

// CustomerVatIDResponse carries the stored identifier read-back.
type CustomerVatIDResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	VatID   string `json:"vatId,omitempty"`
}

// CompletionResponse reports the checkout completion-intercept verdict.
type CompletionResponse struct {
	Success  bool   `json:"success"`
	Complete bool   `json:"complete"`
	Reason   string `json:"reason,omitempty"`
}
