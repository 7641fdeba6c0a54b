// Package vat holds the format check, per-session validation cache and the
// deduplicating validator in front of the external VAT registry.
package vat

import (
	"regexp"
	"strings"
	"sync"

	"github.com/taxbridge/taxbridge-api/internal/client/registry"
)

// vatIDPattern accepts a two-letter country code followed by 2-12
// alphanumeric characters (plus the '+' and '*' used by some registries).
var vatIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z+*]{2,12}$`)

// Normalize canonicalizes an identifier for caching and comparison.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// FormatValid reports whether the normalized identifier matches the pattern.
func FormatValid(id string) bool {
	return vatIDPattern.MatchString(Normalize(id))
}

// CountryCode returns the identifier's two-letter country prefix.
func CountryCode(id string) string {
	n := Normalize(id)
	if len(n) < 2 {
		return ""
	}
	return n[:2]
}

// OutcomeStatus is a cached registry verdict.
type OutcomeStatus int

const (
	OutcomeValid OutcomeStatus = iota
	OutcomeInvalid
)

// Outcome is a settled validation result for one identifier. Format failures
// are never stored here; they are cheap to recompute and are not registry
// outcomes.
type Outcome struct {
	Status  OutcomeStatus
	Payload *registry.CheckResult
	Reason  string
}

// Valid reports whether the registry confirmed the identifier.
func (o Outcome) Valid() bool {
	return o.Status == OutcomeValid
}

// Cache deduplicates registry outcomes within one checkout session. At most
// one outcome is held per normalized identifier; once an identifier is Valid
// it never triggers another registry call in the same session.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Outcome
}

// NewCache creates an empty session cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Outcome)}
}

// Lookup returns the cached outcome for the identifier, if any.
func (c *Cache) Lookup(id string) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outcome, ok := c.entries[Normalize(id)]
	return outcome, ok
}

// Record stores an outcome for the identifier. The first settled outcome per
// identifier wins; later recordings for the same value are ignored.
func (c *Cache) Record(id string, outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := Normalize(id)
	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = outcome
}

// SeedValid marks an identifier as pre-validated without a registry payload.
// Used by the re-entry shortcut when the server already holds a confirmed
// identifier for the customer.
func (c *Cache) SeedValid(id string, payload *registry.CheckResult) {
	c.Record(id, Outcome{Status: OutcomeValid, Payload: payload})
}

// Len reports the number of cached outcomes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
