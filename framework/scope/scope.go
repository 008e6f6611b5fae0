// Package scope issues the tokens that delimit Scoped registrations.
//
// A Tracker holds the current scope ID. Every Scoped registration built with
// [Tracker.ScopeFunc] reuses its cached instance until [Tracker.Begin] starts
// a new scope, at which point the next Resolve closes the old instance and
// builds a fresh one.
//
//	tracker := scope.NewTracker()
//	container.For[*UnitOfWork](c).InScope(tracker.ScopeFunc()).Use(container.TypeOf[*UnitOfWork]())
//
//	tracker.Begin() // next Resolve builds a new *UnitOfWork
package scope

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/km-arc/go-injector/framework/container"
)

// Tracker hands out scope IDs. Safe for concurrent use.
type Tracker struct {
	// active is held for the lifetime of a scope opened with Enter.
	active sync.Mutex

	mu      sync.RWMutex
	current uuid.UUID
}

// NewTracker returns a tracker with an initial scope already open.
func NewTracker() *Tracker {
	return &Tracker{current: uuid.New()}
}

// Begin starts a new scope and returns its ID.
func (t *Tracker) Begin() uuid.UUID {
	id := uuid.New()
	t.mu.Lock()
	t.current = id
	t.mu.Unlock()
	return id
}

// Current returns the ID of the open scope.
func (t *Tracker) Current() uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Enter begins a new scope that no other Enter caller can replace until
// release is called. Scoped instances handed out inside it stay valid
// until then.
func (t *Tracker) Enter() (id uuid.UUID, release func()) {
	t.active.Lock()
	var once sync.Once
	return t.Begin(), func() { once.Do(t.active.Unlock) }
}

// ScopeFunc returns a container.ScopeFunc reporting the current scope ID.
func (t *Tracker) ScopeFunc() container.ScopeFunc {
	return func(*container.Registration) any { return t.Current() }
}

type ctxKey struct{}

// WithID returns a copy of ctx carrying the scope ID.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the scope ID stored by WithID.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
