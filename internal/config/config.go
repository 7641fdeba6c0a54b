// Package config resolves runtime configuration: stage, the session gate
// secret, per-store commerce credentials and the store eligibility mapping
// for tax exemption.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/taxbridge/taxbridge-api/internal/constants"
)

// SecretSource abstracts where secrets come from. Deployed stages use AWS
// Secrets Manager with an env fallback; local runs read env vars only.
type SecretSource interface {
	GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error)
}

// EnvSecretSource reads secrets directly from environment variables.
type EnvSecretSource struct{}

// GetSecretString ignores the ARN variable and reads the fallback env var.
func (EnvSecretSource) GetSecretString(_ context.Context, _ string, fallbackEnvVar string) (string, error) {
	if value := os.Getenv(fallbackEnvVar); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("environment variable '%s' not set", fallbackEnvVar)
}

// Config holds the resolved runtime configuration.
type Config struct {
	Stage          string
	GateSecret     string
	RegistryAPIKey string
	Eligibility    *Eligibility

	secrets SecretSource
}

// Load resolves configuration for the given stage. The session gate secret is
// resolved eagerly so a missing secret is reported at startup; store access
// tokens are resolved lazily per request since the set of stores is open.
func Load(ctx context.Context, stage string, secrets SecretSource) (*Config, error) {
	if !constants.IsValidStage(stage) {
		return nil, fmt.Errorf("invalid stage '%s'", stage)
	}
	if secrets == nil {
		secrets = EnvSecretSource{}
	}

	// The gate secret may legitimately be absent in local runs; the session
	// gate then rejects with a configuration error per request.
	gateSecret, _ := secrets.GetSecretString(ctx, "SESSION_GATE_SECRET_ARN", "SESSION_GATE_SECRET")

	registryKey, err := secrets.GetSecretString(ctx, "VATCHECKAPI_KEY_ARN", "VATCHECKAPI_KEY")
	if err != nil {
		return nil, fmt.Errorf("vat registry API key not configured: %w", err)
	}

	eligibility, err := LoadEligibility()
	if err != nil {
		return nil, err
	}

	return &Config{
		Stage:          stage,
		GateSecret:     gateSecret,
		RegistryAPIKey: registryKey,
		Eligibility:    eligibility,
		secrets:        secrets,
	}, nil
}

// StoreHandle derives the credential lookup handle from a store domain:
// first domain label, uppercased, dashes replaced by underscores.
func StoreHandle(storeDomain string) string {
	domain := strings.TrimSpace(storeDomain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")

	label := domain
	if i := strings.IndexAny(label, "./"); i >= 0 {
		label = label[:i]
	}

	return strings.ReplaceAll(strings.ToUpper(label), "-", "_")
}

// StoreAccessToken resolves the admin API access token for a store. The
// token lives in '<HANDLE>_ACCESS_TOKEN', with a Secrets Manager indirection
// via '<HANDLE>_ACCESS_TOKEN_ARN' in deployed stages.
func (c *Config) StoreAccessToken(ctx context.Context, storeDomain string) (string, error) {
	handle := StoreHandle(storeDomain)
	if handle == "" {
		return "", fmt.Errorf("store domain is required to resolve credentials")
	}

	token, err := c.secrets.GetSecretString(ctx, handle+"_ACCESS_TOKEN_ARN", handle+"_ACCESS_TOKEN")
	if err != nil {
		return "", fmt.Errorf("credentials not found for store '%s': %w", storeDomain, err)
	}

	return token, nil
}
