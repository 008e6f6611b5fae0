package container

import "errors"

var (
	// ErrDuplicateRegistration is returned when a service type is registered
	// more than once on the same container.
	ErrDuplicateRegistration = errors.New("container: duplicate registration")

	// ErrInvalidRegistration is returned for a malformed registration: a
	// missing service type, or a registration that reaches construction with
	// neither a builder function nor a provider.
	ErrInvalidRegistration = errors.New("container: invalid registration")

	// ErrInvalidArgument is returned when a nil or empty argument is passed
	// where a value is required.
	ErrInvalidArgument = errors.New("container: invalid argument")

	// ErrNotConstructible is returned by the default provider when a type has
	// no registered constructor and cannot be built from its zero value
	// (interfaces, funcs, channels).
	ErrNotConstructible = errors.New("container: type not constructible")

	// ErrAlreadyShutdown is returned by Resolve and Shutdown once the
	// container has been shut down.
	ErrAlreadyShutdown = errors.New("container: already shut down")
)
