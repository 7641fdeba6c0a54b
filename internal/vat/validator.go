package vat

import (
	"context"
	"errors"
	"sync"

	"github.com/taxbridge/taxbridge-api/internal/interfaces"
	"github.com/taxbridge/taxbridge-api/internal/logger"

	"go.uber.org/zap"
)

// ErrBadFormat rejects identifiers that fail the pattern check. It is raised
// before any cache or network lookup.
var ErrBadFormat = errors.New("invalid vat id format")

// flight tracks one in-flight registry call so concurrent requests for the
// same identifier collapse onto it instead of issuing duplicates.
type flight struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// Validator answers "is this identifier valid" for one checkout session,
// guaranteeing at most one registry call per distinct identifier value:
// settled outcomes come from the session cache, concurrent misses share a
// single in-flight call.
type Validator struct {
	mu       sync.Mutex
	cache    *Cache
	inflight map[string]*flight
	registry interfaces.RegistryGateway
}

// NewValidator creates a validator owning the given session cache.
func NewValidator(cache *Cache, gateway interfaces.RegistryGateway) *Validator {
	return &Validator{
		cache:    cache,
		inflight: make(map[string]*flight),
		registry: gateway,
	}
}

// Cache exposes the session cache, used by the re-entry shortcut.
func (v *Validator) Cache() *Cache {
	return v.cache
}

// Validate settles an outcome for the identifier. Transient registry
// failures (rate limit, unavailable, misconfigured) are returned as errors
// and never cached; only definitive valid/invalid verdicts are recorded.
func (v *Validator) Validate(ctx context.Context, rawID string) (Outcome, error) {
	id := Normalize(rawID)

	if !vatIDPattern.MatchString(id) {
		return Outcome{}, ErrBadFormat
	}

	v.mu.Lock()
	if outcome, ok := v.cache.Lookup(id); ok {
		v.mu.Unlock()
		logger.Debug("VAT validation cache hit", zap.String("vat_id", id))
		return outcome, nil
	}

	if f, ok := v.inflight[id]; ok {
		// Another request already has a registry call in flight for this
		// identifier; wait for its result instead of issuing a duplicate.
		v.mu.Unlock()
		select {
		case <-f.done:
			return f.outcome, f.err
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	v.inflight[id] = f
	v.mu.Unlock()

	f.outcome, f.err = v.check(ctx, id)
	close(f.done)

	v.mu.Lock()
	delete(v.inflight, id)
	v.mu.Unlock()

	return f.outcome, f.err
}

func (v *Validator) check(ctx context.Context, id string) (Outcome, error) {
	result, err := v.registry.Check(ctx, id)
	if err != nil {
		// Transient or availability failure: surfaced, not cached, so the
		// next trigger retries.
		return Outcome{}, err
	}

	var outcome Outcome
	if result.Valid() {
		outcome = Outcome{Status: OutcomeValid, Payload: result}
	} else {
		outcome = Outcome{Status: OutcomeInvalid, Payload: result, Reason: "identifier rejected by registry"}
	}

	v.cache.Record(id, outcome)
	logger.Info("VAT identifier validated",
		zap.String("vat_id", id),
		zap.Bool("valid", outcome.Valid()))

	return outcome, nil
}
