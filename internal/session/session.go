// Package session owns the per-checkout-session state: the classification
// state machine, the validation cache with its in-flight markers and the
// reconciliation processed-marker. Everything lives on the session object so
// there is no cross-session shared mutable state.
package session

import (
	"sync"
	"time"

	"github.com/taxbridge/taxbridge-api/internal/classification"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
	"github.com/taxbridge/taxbridge-api/internal/vat"
)

// Session is the state owned by one checkout session.
type Session struct {
	ID string

	mu             sync.Mutex
	state          classification.State
	validator      *vat.Validator
	customerID     string
	processedFor   string
	reentryChecked bool
	lastSeen       time.Time
}

func newSession(id string, validator *vat.Validator) *Session {
	return &Session{
		ID:        id,
		state:     classification.NewState(),
		validator: validator,
		lastSeen:  time.Now(),
	}
}

// Validator returns the session's deduplicating validator.
func (s *Session) Validator() *vat.Validator {
	return s.validator
}

// State returns a snapshot of the classification state.
func (s *Session) State() classification.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs one event through the classification transition function.
// A SetTaxID edit whose value already has a Valid outcome in the session
// cache short-circuits straight to Valid without a registry call.
func (s *Session) Apply(ev classification.Event) classification.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := ev.(classification.SetTaxID); ok {
		normalized := vat.Normalize(set.Value)
		if outcome, hit := s.validator.Cache().Lookup(normalized); hit && outcome.Valid() {
			s.state = classification.SeedValidated(s.state, normalized, outcome.Payload)
			return s.state
		}
	}

	s.state = classification.Transition(s.state, ev)
	return s.state
}

// SeedValidated installs a pre-validated business classification, used by
// the re-entry shortcut. The identifier is also seeded into the cache so it
// never triggers a registry call this session.
func (s *Session) SeedValidated(taxID string, payload *registry.CheckResult) classification.State {
	normalized := vat.Normalize(taxID)
	s.validator.Cache().SeedValid(normalized, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = classification.SeedValidated(s.state, normalized, payload)
	return s.state
}

// CustomerID returns the resolved backend customer id, if any.
func (s *Session) CustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerID
}

// SetCustomerID stores the resolved backend customer id.
func (s *Session) SetCustomerID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = id
}

// ReentryChecked reports whether the once-per-session stored-identifier
// lookup already ran, and marks it as run.
func (s *Session) ReentryChecked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reentryChecked {
		return true
	}
	s.reentryChecked = true
	return false
}

// ProcessedMarker returns the idempotency marker of the last successfully
// reconciled desired state.
func (s *Session) ProcessedMarker() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processedFor
}

// SetProcessedMarker records a successfully reconciled desired state.
func (s *Session) SetProcessedMarker(marker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processedFor = marker
}

// ClearProcessedMarker wipes the marker so the next qualifying trigger
// retries the backend writes.
func (s *Session) ClearProcessedMarker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processedFor = ""
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
