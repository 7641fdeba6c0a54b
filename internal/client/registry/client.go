package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpClient "github.com/taxbridge/taxbridge-api/internal/client/http"
	"github.com/taxbridge/taxbridge-api/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.vatcheckapi.com"
	defaultTimeout = 10 * time.Second
)

// Classified registry failures. The caller must be able to tell a broken or
// throttled registry apart from "the identifier is invalid", so transient and
// availability failures are distinct sentinel errors and never folded into
// the validation outcome.
var (
	// ErrRateLimited indicates the registry throttled the request.
	ErrRateLimited = errors.New("vat registry rate limit exceeded")
	// ErrUnavailable indicates the registry or its database is down.
	ErrUnavailable = errors.New("vat registry unavailable")
	// ErrMisconfigured indicates the registry rejected our credentials.
	ErrMisconfigured = errors.New("vat registry credentials rejected")
)

// CheckResult is the registry's verdict on a single identifier.
type CheckResult struct {
	VatNumber      string `json:"vat_number"`
	CountryCode    string `json:"country_code"`
	FormatValid    bool   `json:"format_valid"`
	ChecksumValid  bool   `json:"checksum_valid"`
	CompanyName    string `json:"company_name,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
	CompanyCountry string `json:"company_country_code,omitempty"`
	Checked        string `json:"checked,omitempty"`
}

// Valid reports whether the registry confirmed the identifier.
func (r *CheckResult) Valid() bool {
	return r != nil && r.ChecksumValid
}

// Client manages communication with the VAT registry API.
type Client struct {
	apiKey     string
	httpClient *httpClient.HTTPClient
}

// Option configures the registry client.
type Option func(*Client)

// WithBaseURL overrides the registry endpoint, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.httpClient = httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultTimeout),
		)
	}
}

// NewClient creates a new VAT registry client.
// Rate-limit and availability failures are surfaced to the caller instead of
// being retried here, so the client performs a single attempt per check.
func NewClient(apiKey string, options ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(defaultBaseURL),
			httpClient.WithTimeout(defaultTimeout),
		),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Check queries the registry for the given identifier. The identifier is
// assumed to already be normalized and format-checked by the caller.
func (c *Client) Check(ctx context.Context, vatID string) (*CheckResult, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/check",
		httpClient.WithQueryParam("vat_number", vatID),
		httpClient.WithHeader("apikey", c.apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("vat registry request failed: %w", ErrUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		logger.Warn("VAT registry rate limit exceeded", zap.String("vat_id", vatID))
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		logger.Error("VAT registry rejected API key", zap.Int("status", resp.StatusCode))
		return nil, ErrMisconfigured
	case resp.StatusCode >= 500:
		resp.Body.Close()
		logger.Warn("VAT registry unavailable", zap.Int("status", resp.StatusCode))
		return nil, ErrUnavailable
	}

	var result CheckResult
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode vat registry response: %w", err)
	}

	return &result, nil
}
