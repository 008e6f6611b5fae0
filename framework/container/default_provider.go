package container

import (
	"fmt"
	"reflect"
)

// ── Constructors ──────────────────────────────────────────────────────────────

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructor is a validated constructor function recorded with
// [Container.Constructor].
type constructor struct {
	fn         reflect.Value
	out        reflect.Type
	returnsErr bool
}

func newConstructor(fn any) (constructor, error) {
	if fn == nil {
		return constructor{}, fmt.Errorf("%w: nil constructor", ErrInvalidArgument)
	}

	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return constructor{}, fmt.Errorf("%w: constructor must be a function, got %s", ErrInvalidArgument, typ)
	}
	if typ.IsVariadic() {
		return constructor{}, fmt.Errorf("%w: constructor %s must not be variadic", ErrInvalidArgument, typ)
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return constructor{}, fmt.Errorf("%w: constructor %s must return (T) or (T, error)", ErrInvalidArgument, typ)
	}
	if typ.NumOut() == 2 && !typ.Out(1).Implements(errorType) {
		return constructor{}, fmt.Errorf("%w: second return value of %s must implement error", ErrInvalidArgument, typ)
	}

	return constructor{
		fn:         val,
		out:        typ.Out(0),
		returnsErr: typ.NumOut() == 2,
	}, nil
}

func (ctor constructor) call(args []reflect.Value) (any, error) {
	results := ctor.fn.Call(args)
	if ctor.returnsErr && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// richestConstructor returns the constructor for t with the most parameters.
func (c *Container) richestConstructor(t reflect.Type) (constructor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctors := c.constructors[t]
	if len(ctors) == 0 {
		return constructor{}, false
	}
	best := ctors[0]
	for _, ctor := range ctors[1:] {
		if ctor.fn.Type().NumIn() > best.fn.Type().NumIn() {
			best = ctor
		}
	}
	return best, true
}

// ── DefaultProvider ───────────────────────────────────────────────────────────

// DefaultProvider builds a type by constructor injection. It picks the
// richest constructor recorded for the type, resolves every parameter
// through its container from left to right, and calls it. A type without a
// constructor is built from its zero value: pointers get a freshly
// allocated element, maps an empty map, everything else the zero value.
//
// Nothing is memoized between parameters: a Transient dependency that
// appears twice is built twice. Circular constructor graphs are not
// detected and recurse until the stack is exhausted.
type DefaultProvider struct {
	typ       reflect.Type
	container *Container
}

// NewDefaultProvider returns a provider building t from c.
func NewDefaultProvider(t reflect.Type, c *Container) (*DefaultProvider, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil target type", ErrInvalidArgument)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil container", ErrInvalidArgument)
	}
	return &DefaultProvider{typ: t, container: c}, nil
}

// Type returns the type the provider builds.
func (p *DefaultProvider) Type() reflect.Type { return p.typ }

// Create builds a new instance of the provider's type.
func (p *DefaultProvider) Create() (any, error) {
	ctor, ok := p.container.richestConstructor(p.typ)
	if !ok {
		return zeroInstance(p.typ)
	}

	fnType := ctor.fn.Type()
	if fnType.NumIn() == 0 {
		return ctor.call(nil)
	}

	args := make([]reflect.Value, fnType.NumIn())
	for i := range args {
		paramType := fnType.In(i)

		dep, err := p.container.Resolve(paramType)
		if err != nil {
			return nil, err
		}

		arg, err := argument(dep, paramType)
		if err != nil {
			return nil, fmt.Errorf("parameter %d of %s: %w", i, fnType, err)
		}
		args[i] = arg
	}

	return ctor.call(args)
}

// argument converts a resolved dependency into a call argument.
func argument(dep any, paramType reflect.Type) (reflect.Value, error) {
	if dep == nil {
		return reflect.Zero(paramType), nil
	}
	v := reflect.ValueOf(dep)
	if !v.Type().AssignableTo(paramType) {
		return reflect.Value{}, fmt.Errorf("%w: resolved %s is not assignable to %s", ErrInvalidRegistration, v.Type(), paramType)
	}
	return v, nil
}

func zeroInstance(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return nil, fmt.Errorf("%w: %s has no constructor and no usable zero value", ErrNotConstructible, t)
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface(), nil
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), nil
	default:
		return reflect.Zero(t).Interface(), nil
	}
}
