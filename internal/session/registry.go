package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taxbridge/taxbridge-api/internal/interfaces"
	"github.com/taxbridge/taxbridge-api/internal/vat"
)

const defaultTTL = 2 * time.Hour

// Registry holds live checkout sessions in memory, keyed by session id.
// Sessions idle past the TTL are evicted; nothing in them needs to survive
// beyond the checkout.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	gateway  interfaces.RegistryGateway

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry creates a session registry backed by the given VAT registry
// gateway and starts the eviction sweeper.
func NewRegistry(gateway interfaces.RegistryGateway, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		gateway:  gateway,
		done:     make(chan struct{}),
	}

	go r.sweep()

	return r
}

// Close stops the eviction sweeper. Safe to call more than once.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Get returns the session for the given id, creating it on first use. An
// empty id yields a fresh single-use session.
func (r *Registry) Get(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch()
		return s
	}

	cache := vat.NewCache()
	s := newSession(id, vat.NewValidator(cache, r.gateway))
	r.sessions[id] = s
	return s
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.ttl)
			r.mu.Lock()
			for id, s := range r.sessions {
				if s.idleSince(cutoff) {
					delete(r.sessions, id)
				}
			}
			r.mu.Unlock()
		}
	}
}
