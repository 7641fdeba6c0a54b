package commerce

import "encoding/json"

// Customer is the subset of the commerce backend's customer object the
// reconciliation path cares about.
type Customer struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	TaxExempt bool       `json:"taxExempt"`
	Metafield *Metafield `json:"metafield,omitempty"`
}

// Metafield is a namespaced key-value attribute on a customer record.
type Metafield struct {
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type,omitempty"`
}

// graphqlRequest is the wire shape of an admin API call.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlResponse is the generic admin API response envelope. Data is decoded
// per operation; Errors are transport/query-level failures as opposed to the
// userErrors embedded in mutation payloads.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type customerPayload struct {
	Customer   *Customer   `json:"customer"`
	UserErrors []userError `json:"userErrors"`
}
