package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Eligibility is the store-to-country rule deciding when a validated business
// identifier earns a tax exemption. The rule is deliberately configuration,
// not code: deployments disagree on the policy, so it ships as data.
type Eligibility struct {
	// AllowedCountry maps a store domain to the tax-id country prefix that
	// qualifies for exemption on that store.
	AllowedCountry map[string]string
	// RequireShippingMatch additionally requires the shipping-address country
	// to equal the allowed country.
	RequireShippingMatch bool
}

// LoadEligibility reads the mapping from TAX_EXEMPT_COUNTRY_MAP (a JSON
// object of store domain to country code) and the REQUIRE_SHIPPING_MATCH
// flag. An absent map means no store grants exemptions.
func LoadEligibility() (*Eligibility, error) {
	e := &Eligibility{
		AllowedCountry:       make(map[string]string),
		RequireShippingMatch: strings.EqualFold(os.Getenv("REQUIRE_SHIPPING_MATCH"), "true"),
	}

	raw := os.Getenv("TAX_EXEMPT_COUNTRY_MAP")
	if raw == "" {
		return e, nil
	}

	var mapping map[string]string
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, fmt.Errorf("invalid TAX_EXEMPT_COUNTRY_MAP: %w", err)
	}

	for domain, country := range mapping {
		e.AllowedCountry[strings.ToLower(strings.TrimSpace(domain))] = strings.ToUpper(strings.TrimSpace(country))
	}

	return e, nil
}

// Eligible reports whether a validated identifier with the given country
// prefix earns an exemption on the store, optionally gated on the shipping
// country.
func (e *Eligibility) Eligible(storeDomain, taxIDCountry, shippingCountry string) bool {
	if e == nil || taxIDCountry == "" {
		return false
	}

	allowed, ok := e.AllowedCountry[strings.ToLower(strings.TrimSpace(storeDomain))]
	if !ok || !strings.EqualFold(taxIDCountry, allowed) {
		return false
	}

	if e.RequireShippingMatch && !strings.EqualFold(shippingCountry, allowed) {
		return false
	}

	return true
}
