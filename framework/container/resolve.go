package container

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns an instance of serviceType.
//
// Without a registration the type itself is built by the [DefaultProvider],
// so concrete types work without being registered. With a registration the
// lifetime decides:
//
//   - Transient builds a new instance every time.
//   - Singleton returns the cached instance, building it on first use.
//   - Scoped asks the registration's ScopeFunc for the current token. An
//     equal token behaves like Singleton; a different token closes the
//     cached instance (if it is an io.Closer) and builds a fresh one.
//
// Errors from nested resolution are returned unchanged.
func (c *Container) Resolve(serviceType reflect.Type) (any, error) {
	if serviceType == nil {
		return nil, fmt.Errorf("%w: nil service type", ErrInvalidArgument)
	}

	c.mu.RLock()
	if c.shutdown {
		c.mu.RUnlock()
		return nil, ErrAlreadyShutdown
	}
	r, ok := c.index[serviceType]
	c.mu.RUnlock()

	if !ok {
		c.logger.Debug("building unregistered type", zap.String("type", serviceType.String()))
		return (&DefaultProvider{typ: serviceType, container: c}).Create()
	}

	switch r.lifetime {
	case Transient:
		return c.construct(r)
	case Singleton:
		return c.resolveSingleton(r)
	case Scoped:
		return c.resolveScoped(r)
	default:
		return nil, fmt.Errorf("%w: %s has unknown lifetime %d", ErrInvalidRegistration, serviceType, int(r.lifetime))
	}
}

// construct runs the registration's construction source: the builder
// function first, then the provider.
func (c *Container) construct(r *Registration) (any, error) {
	if r.builder != nil {
		return r.builder()
	}
	if r.provider != nil {
		return r.provider.Create()
	}
	return nil, fmt.Errorf("%w: %s has neither a builder function nor a provider", ErrInvalidRegistration, r.serviceType)
}

// resolveSingleton builds under the registration's build lock, so
// concurrent first resolves invoke the construction source once.
func (c *Container) resolveSingleton(r *Registration) (any, error) {
	if inst := r.CachedInstance(); inst != nil {
		return inst, nil
	}

	r.build.Lock()
	defer r.build.Unlock()

	if c.isShutdown() {
		return nil, ErrAlreadyShutdown
	}
	if inst := r.CachedInstance(); inst != nil {
		return inst, nil
	}

	inst, err := c.construct(r)
	if err != nil {
		return nil, err
	}
	r.store(inst)
	return inst, nil
}

// resolveScoped reads the token, supersedes a stale instance and builds,
// all under the build lock. A token that moves on meanwhile is seen by the
// next caller, which releases this instance in turn.
func (c *Container) resolveScoped(r *Registration) (any, error) {
	if r.scopeFunc == nil {
		return nil, fmt.Errorf("%w: scoped %s has no scope function", ErrInvalidRegistration, r.serviceType)
	}

	r.build.Lock()
	defer r.build.Unlock()

	if c.isShutdown() {
		return nil, ErrAlreadyShutdown
	}
	token := r.scopeFunc(r)

	r.mu.Lock()
	same := tokensEqual(token, r.scopeToken)
	if same && r.cached != nil {
		inst := r.cached
		r.mu.Unlock()
		return inst, nil
	}
	var stale any
	if !same {
		stale = r.cached
		r.scopeToken = token
		r.cached = nil
	}
	r.mu.Unlock()

	if stale != nil {
		c.logger.Debug("scope changed, releasing cached instance", zap.String("service", r.serviceType.String()))
		if err := release(stale); err != nil {
			return nil, fmt.Errorf("releasing %s from previous scope: %w", r.serviceType, err)
		}
	}

	inst, err := c.construct(r)
	if err != nil {
		return nil, err
	}
	r.store(inst)
	return inst, nil
}

// ── Scope tokens ──────────────────────────────────────────────────────────────

// Equaler lets a scope token define its own equality.
type Equaler interface {
	Equal(other any) bool
}

// tokensEqual compares scope tokens by value: an [Equaler] decides for
// itself, comparable values use ==, anything else falls back to
// reflect.DeepEqual. Two nil tokens are equal.
func tokensEqual(current, last any) bool {
	if current == nil || last == nil {
		return current == nil && last == nil
	}
	if eq, ok := current.(Equaler); ok {
		return eq.Equal(last)
	}
	cv := reflect.ValueOf(current)
	if cv.Comparable() {
		return cv.Equal(reflect.ValueOf(last))
	}
	return reflect.DeepEqual(current, last)
}
