package interfaces

import (
	"context"

	"github.com/taxbridge/taxbridge-api/internal/client/commerce"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
)

//go:generate mockgen -source=clients.go -destination=../mocks/clients_mock.go -package=mocks

// RegistryGateway validates tax identifiers against the external VAT registry.
// Implementations must report transient failures (rate limit, registry down)
// as classified errors, never as an invalid identifier.
type RegistryGateway interface {
	Check(ctx context.Context, vatID string) (*registry.CheckResult, error)
}

// CommerceGateway is the narrow capability surface onto the commerce backend
// used by the reconciliation engine. Every call is a single network round
// trip against one store's admin API.
type CommerceGateway interface {
	FindOrCreateCustomer(ctx context.Context, email string) (string, error)
	GetCustomer(ctx context.Context, customerID, email string) (*commerce.Customer, error)
	SetMetafield(ctx context.Context, customerID, namespace, key, value, fieldType string) (*commerce.Customer, error)
	RemoveMetafield(ctx context.Context, customerID, namespace, key string) error
	SetTaxExemption(ctx context.Context, customerID string, exempt bool) (*commerce.Customer, error)
	GetTaxIdentifier(ctx context.Context, customerID, email string) (string, error)
}
