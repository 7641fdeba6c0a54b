// Package reconcile drives the commerce backend's customer record (stored
// tax identifier metafield, exemption flag) to match the session's current
// classification, idempotently.
package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/classification"
	"github.com/taxbridge/taxbridge-api/internal/client/commerce"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/interfaces"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/session"
	"github.com/taxbridge/taxbridge-api/internal/vat"
)

// Engine reconciles one store's backend state with a session's
// classification. It is cheap to construct; handlers build one per request
// around the store-scoped commerce gateway.
type Engine struct {
	commerce    interfaces.CommerceGateway
	eligibility *config.Eligibility
	logger      *zap.Logger
}

// NewEngine creates an engine for one store's commerce gateway.
func NewEngine(gateway interfaces.CommerceGateway, eligibility *config.Eligibility) *Engine {
	return &Engine{
		commerce:    gateway,
		eligibility: eligibility,
		logger:      logger.Log,
	}
}

// Input identifies the buyer and store a reconciliation round runs against.
type Input struct {
	StoreDomain     string
	CustomerID      string
	Email           string
	ShippingCountry string
}

// Result reports what a reconciliation round did.
type Result struct {
	CustomerID string             `json:"customerId"`
	Exempt     bool               `json:"exempt"`
	TaxID      string             `json:"vatId,omitempty"`
	Skipped    bool               `json:"skipped,omitempty"`
	Seeded     bool               `json:"seeded,omitempty"`
	Customer   *commerce.Customer `json:"customer,omitempty"`
}

// desiredState is the ReconciliationRecord: what the backend should hold for
// the customer given the current classification.
type desiredState struct {
	exempt bool
	taxID  string
}

func (e *Engine) desired(state classification.State, in Input) desiredState {
	if state.BuyerType != classification.Business || state.Validation != classification.Valid {
		return desiredState{}
	}

	country := vat.CountryCode(state.TaxID)
	if state.Payload != nil && state.Payload.CountryCode != "" {
		country = state.Payload.CountryCode
	}

	return desiredState{
		exempt: e.eligibility.Eligible(in.StoreDomain, country, in.ShippingCountry),
		taxID:  state.TaxID,
	}
}

func processedKey(customerID string, d desiredState) string {
	return fmt.Sprintf("%s|%t|%s", customerID, d.exempt, d.taxID)
}

// Reconcile runs one round: resolve the customer identity, compute the
// desired exemption state, and issue the metafield and exemption writes
// unless the identical round already succeeded this session. A failed write
// clears the processed marker so the next qualifying trigger retries.
func (e *Engine) Reconcile(ctx context.Context, sess *session.Session, in Input) (*Result, error) {
	state := sess.State()
	desired := e.desired(state, in)

	customerID, err := e.resolveIdentity(ctx, sess, in, desired)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		// Nothing is stored server-side for an unknown buyer, so a clearing
		// round has nothing to do.
		return &Result{Skipped: true}, nil
	}

	result := &Result{CustomerID: customerID}

	// Once per session, on first identity resolution: if the server already
	// holds a validated identifier for this customer, seed the session as a
	// known business buyer without a fresh registry call. A session that
	// explicitly chose consumer is running a clearing round; seeding it would
	// invert the request, so the lookup is skipped (and not consumed).
	if state.TaxID == "" && !state.ConsumerChosen && !sess.ReentryChecked() {
		stored, lookupErr := e.commerce.GetTaxIdentifier(ctx, customerID, in.Email)
		if lookupErr != nil {
			e.logger.Warn("Stored tax identifier lookup failed",
				zap.String("customer_id", customerID),
				zap.Error(lookupErr))
		} else if stored != "" {
			state = sess.SeedValidated(stored, nil)
			desired = e.desired(state, in)
			result.Seeded = true
		}
	}

	marker := processedKey(customerID, desired)
	if sess.ProcessedMarker() == marker {
		result.Skipped = true
		result.Exempt = desired.exempt
		result.TaxID = desired.taxID
		return result, nil
	}

	if desired.taxID != "" {
		if _, err := e.commerce.SetMetafield(ctx, customerID,
			constants.VatMetafieldNamespace, constants.VatMetafieldKey,
			desired.taxID, constants.VatMetafieldType); err != nil {
			sess.ClearProcessedMarker()
			return nil, fmt.Errorf("failed to store tax identifier: %w", err)
		}
	} else {
		if err := e.commerce.RemoveMetafield(ctx, customerID,
			constants.VatMetafieldNamespace, constants.VatMetafieldKey); err != nil {
			sess.ClearProcessedMarker()
			return nil, fmt.Errorf("failed to clear tax identifier: %w", err)
		}
	}

	customer, err := e.commerce.SetTaxExemption(ctx, customerID, desired.exempt)
	if err != nil {
		sess.ClearProcessedMarker()
		return nil, fmt.Errorf("failed to update tax exemption: %w", err)
	}

	sess.SetProcessedMarker(marker)

	e.logger.Info("Reconciled customer tax state",
		zap.String("store", in.StoreDomain),
		zap.String("customer_id", customerID),
		zap.Bool("exempt", desired.exempt),
		zap.String("vat_id", desired.taxID))

	result.Exempt = desired.exempt
	result.TaxID = desired.taxID
	result.Customer = customer
	return result, nil
}

// ForceExemption sets the exemption flag directly, bypassing the
// classification-derived desired state. Used by the administrative exemption
// endpoint; the same processed-marker absorption applies.
func (e *Engine) ForceExemption(ctx context.Context, sess *session.Session, in Input, exempt bool) (*Result, error) {
	customerID, err := e.resolveIdentity(ctx, sess, in, desiredState{exempt: exempt})
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return &Result{Skipped: true}, nil
	}

	marker := fmt.Sprintf("force|%s|%t", customerID, exempt)
	if sess.ProcessedMarker() == marker {
		return &Result{CustomerID: customerID, Exempt: exempt, Skipped: true}, nil
	}

	customer, err := e.commerce.SetTaxExemption(ctx, customerID, exempt)
	if err != nil {
		// This round never set a marker; whatever marker the session holds
		// came from an earlier successful round and still stands.
		return nil, fmt.Errorf("failed to update tax exemption: %w", err)
	}

	sess.SetProcessedMarker(marker)

	return &Result{CustomerID: customerID, Exempt: exempt, Customer: customer}, nil
}

// resolveIdentity returns the backend customer id, creating the customer by
// email when needed. An empty return with nil error means no identity is
// resolvable and nothing has to be written.
func (e *Engine) resolveIdentity(ctx context.Context, sess *session.Session, in Input, desired desiredState) (string, error) {
	if id := sess.CustomerID(); id != "" {
		return id, nil
	}
	if in.CustomerID != "" {
		sess.SetCustomerID(in.CustomerID)
		return in.CustomerID, nil
	}
	if in.Email == "" {
		if !desired.exempt && desired.taxID == "" {
			return "", nil
		}
		return "", fmt.Errorf("customer id or email is required")
	}

	id, err := e.commerce.FindOrCreateCustomer(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("failed to resolve customer: %w", err)
	}

	sess.SetCustomerID(id)
	return id, nil
}
