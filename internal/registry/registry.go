// Package registry defines the authoritative store of live sessions.
// Sessions exist only for the lifetime of the process; codes become
// reusable as soon as a session is evicted.
package registry

import (
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// Registry is the in-memory mapping from session code to session.
// Callers depend on this interface, never on the backing storage.
type Registry interface {
	// Get returns the live session for code, if any.
	Get(code model.SessionCode) (*model.Session, bool)

	// GetOrCreate returns the live session for code, calling create to
	// build one atomically if absent. The boolean reports whether a new
	// session was created.
	GetOrCreate(code model.SessionCode, create func() *model.Session) (*model.Session, bool)

	// Remove evicts the session for code. Removing an absent code is a
	// no-op.
	Remove(code model.SessionCode)

	// All returns a snapshot of every live session.
	All() []*model.Session

	// Len returns the number of live sessions.
	Len() int
}
