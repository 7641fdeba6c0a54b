package requests

// ValidateVatRequest asks for a registry check of one identifier.
type ValidateVatRequest struct {
	TaxID string `json:"taxId" binding:"required"`
}

// SetVatIDRequest stores a validated identifier on a customer record,
// creating the customer by email when no id is known.
type SetVatIDRequest struct {
	CustomerID      string `json:"customerId"`
	Email           string `json:"email"`
	Value           string `json:"value" binding:"required"`
	StoreDomain     string `json:"storeDomain" binding:"required"`
	ShippingCountry string `json:"shippingCountry"`
}

// ExemptCustomerRequest toggles the customer's tax exemption flag.
type ExemptCustomerRequest struct {
	CustomerID      string `json:"customerId"`
	Email           string `json:"email"`
	StoreDomain     string `json:"storeDomain" binding:"required"`
	Exempt          *bool  `json:"exempt" binding:"required"`
	ShippingCountry string `json:"shippingCountry"`
}

// GetCustomerVatIDRequest reads the stored identifier for re-entry.
type GetCustomerVatIDRequest struct {
	CustomerID  string `json:"customerId"`
	Email       string `json:"email"`
	StoreDomain string `json:"storeDomain" binding:"required"`
}

// SetMetafieldRequest is the generic fallback metafield write.
type SetMetafieldRequest struct {
	CustomerID  string `json:"customerId" binding:"required"`
	Namespace   string `json:"namespace" binding:"required"`
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Type        string `json:"type" binding:"required"`
	StoreDomain string `json:"storeDomain" binding:"required"`
}
