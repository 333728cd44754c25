// Package memory is the in-memory registry implementation. The mutex
// here guards only the map itself; each session carries its own lock,
// so work on one session never blocks another.
package memory

import (
	"sync"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry"
)

// Registry is an in-memory implementation of the registry interface.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.SessionCode]*model.Session
}

var _ registry.Registry = (*Registry)(nil)

// New creates a new in-memory registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[model.SessionCode]*model.Session),
	}
}

func (r *Registry) Get(code model.SessionCode) (*model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[code]
	return sess, ok
}

func (r *Registry) GetOrCreate(code model.SessionCode, create func() *model.Session) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[code]; ok {
		return sess, false
	}
	sess := create()
	r.sessions[code] = sess
	return sess, true
}

func (r *Registry) Remove(code model.SessionCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, code)
}

func (r *Registry) All() []*model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
