package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxbridge/taxbridge-api/internal/config"
)

func TestStoreHandle(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"plain myshopify domain", "acme-store.myshopify.com", "ACME_STORE"},
		{"scheme stripped", "https://acme-store.myshopify.com", "ACME_STORE"},
		{"custom domain", "shop.example.com", "SHOP"},
		{"no dots", "acme", "ACME"},
		{"trailing path", "https://acme.myshopify.com/admin", "ACME"},
		{"whitespace trimmed", "  acme.myshopify.com ", "ACME"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.StoreHandle(tt.domain))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("resolves gate secret and registry key", func(t *testing.T) {
		t.Setenv("SESSION_GATE_SECRET", "gate-secret")
		t.Setenv("VATCHECKAPI_KEY", "registry-key")

		cfg, err := config.Load(context.Background(), "local", nil)
		require.NoError(t, err)
		assert.Equal(t, "gate-secret", cfg.GateSecret)
		assert.Equal(t, "registry-key", cfg.RegistryAPIKey)
	})

	t.Run("missing registry key fails", func(t *testing.T) {
		t.Setenv("SESSION_GATE_SECRET", "gate-secret")
		t.Setenv("VATCHECKAPI_KEY", "")

		_, err := config.Load(context.Background(), "local", nil)
		assert.Error(t, err)
	})

	t.Run("missing gate secret is tolerated at startup", func(t *testing.T) {
		t.Setenv("SESSION_GATE_SECRET", "")
		t.Setenv("VATCHECKAPI_KEY", "registry-key")

		cfg, err := config.Load(context.Background(), "local", nil)
		require.NoError(t, err)
		assert.Empty(t, cfg.GateSecret)
	})

	t.Run("invalid stage rejected", func(t *testing.T) {
		_, err := config.Load(context.Background(), "staging", nil)
		assert.Error(t, err)
	})
}

func TestStoreAccessToken(t *testing.T) {
	t.Setenv("SESSION_GATE_SECRET", "gate-secret")
	t.Setenv("VATCHECKAPI_KEY", "registry-key")
	t.Setenv("ACME_STORE_ACCESS_TOKEN", "shpat_test_token")

	cfg, err := config.Load(context.Background(), "local", nil)
	require.NoError(t, err)

	token, err := cfg.StoreAccessToken(context.Background(), "acme-store.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "shpat_test_token", token)

	_, err = cfg.StoreAccessToken(context.Background(), "unknown.myshopify.com")
	assert.Error(t, err)

	_, err = cfg.StoreAccessToken(context.Background(), "")
	assert.Error(t, err)
}

func TestLoadEligibility(t *testing.T) {
	t.Run("parses the country map", func(t *testing.T) {
		t.Setenv("TAX_EXEMPT_COUNTRY_MAP", `{"Shop.Example.com": "de"}`)
		t.Setenv("REQUIRE_SHIPPING_MATCH", "")

		e, err := config.LoadEligibility()
		require.NoError(t, err)

		assert.True(t, e.Eligible("shop.example.com", "DE", ""))
		assert.True(t, e.Eligible("SHOP.EXAMPLE.COM", "de", ""))
		assert.False(t, e.Eligible("shop.example.com", "FR", ""))
		assert.False(t, e.Eligible("other.example.com", "DE", ""))
		assert.False(t, e.Eligible("shop.example.com", "", ""))
	})

	t.Run("shipping match gate", func(t *testing.T) {
		t.Setenv("TAX_EXEMPT_COUNTRY_MAP", `{"shop.example.com": "DE"}`)
		t.Setenv("REQUIRE_SHIPPING_MATCH", "true")

		e, err := config.LoadEligibility()
		require.NoError(t, err)

		assert.True(t, e.Eligible("shop.example.com", "DE", "DE"))
		assert.False(t, e.Eligible("shop.example.com", "DE", "FR"))
		assert.False(t, e.Eligible("shop.example.com", "DE", ""))
	})

	t.Run("absent map grants nothing", func(t *testing.T) {
		t.Setenv("TAX_EXEMPT_COUNTRY_MAP", "")

		e, err := config.LoadEligibility()
		require.NoError(t, err)
		assert.False(t, e.Eligible("shop.example.com", "DE", ""))
	})

	t.Run("malformed map rejected", func(t *testing.T) {
		t.Setenv("TAX_EXEMPT_COUNTRY_MAP", "{not json")

		_, err := config.LoadEligibility()
		assert.Error(t, err)
	})
}
