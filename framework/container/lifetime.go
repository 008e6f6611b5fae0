package container

import (
	"fmt"
	"strings"
)

// Lifetime controls how long a resolved instance is reused.
type Lifetime int

const (
	// Transient builds a new instance on every Resolve.
	Transient Lifetime = iota

	// Singleton builds on first Resolve and reuses the instance until the
	// container is shut down. This is the default for new registrations.
	Singleton

	// Scoped reuses the cached instance while the registration's ScopeFunc
	// keeps returning an equal scope token. A new token releases the old
	// instance and builds a fresh one.
	Scoped
)

// String returns the lower-case name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// ParseLifetime converts a name produced by [Lifetime.String] back into a
// Lifetime. Matching is case-insensitive.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	case "scoped":
		return Scoped, nil
	default:
		return 0, fmt.Errorf("%w: unknown lifetime %q", ErrInvalidArgument, s)
	}
}
