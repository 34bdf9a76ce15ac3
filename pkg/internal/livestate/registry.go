// Package livestate holds the in-memory working set of active sessions and
// polls. It is a denormalized projection of durable state, rebuilt lazily
// and owned explicitly by whoever constructs the Registry, never a package
// global.
package livestate

import (
	"sync"

	"github.com/livepoll-dev/server/pkg/internal/models"
)

// LivePoll mirrors the broadcast-relevant slice of a poll's durable record.
type LivePoll struct {
	Question string
	Options  []string
	Metric   models.PollMetric
	IsActive bool
}

// Registry maps session codes to their live poll projections. Mutations are
// single assignments under the lock so concurrent event handlers can never
// observe a torn record.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[uint]LivePoll
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]map[uint]LivePoll)}
}

// Ensure returns without touching durable storage; a code with no live entry
// gets an empty one.
func (r *Registry) Ensure(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[code]; !ok {
		r.sessions[code] = make(map[uint]LivePoll)
	}
}

// Hydrate inserts or overwrites the live projection for one poll. Callers
// invoke it right after a durable read or write so the projection tracks the
// latest known-good state.
func (r *Registry) Hydrate(code string, pollId uint, poll LivePoll) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[code]
	if !ok {
		session = make(map[uint]LivePoll)
		r.sessions[code] = session
	}
	session[pollId] = poll
}

func (r *Registry) Get(code string, pollId uint) (LivePoll, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[code]
	if !ok {
		return LivePoll{}, false
	}
	poll, ok := session[pollId]
	return poll, ok
}

// SessionFor resolves which live session currently tracks a poll.
func (r *Registry) SessionFor(pollId uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for code, polls := range r.sessions {
		if _, ok := polls[pollId]; ok {
			return code, true
		}
	}
	return "", false
}

// Remove drops a session's entire live projection. Safe to call on a code
// with no entry.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, code)
}
