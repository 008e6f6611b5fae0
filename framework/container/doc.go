// Package container provides a reflection-based dependency-injection
// container for Go.
//
// # Overview
//
// Callers register service types, each mapped to a way of building it, and
// then resolve instances by service type. How long an instance is reused is
// decided by the registration's [Lifetime].
//
// Go has no runtime constructor discovery, so constructors are plain
// functions recorded with [Container.Constructor]. The [DefaultProvider]
// picks the one with the most parameters and resolves each parameter
// through the container.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithLogger(logger))
//  2. Register constructors and services
//  3. Resolve
//  4. Shutdown: c.Shutdown(ctx) closes cached io.Closer instances
//
// # Registering
//
//	// Constructor injection for a concrete type, no registration needed
//	c.Constructor(NewUserService, NewUserRepo)
//	svc, err := container.Resolve[*UserService](c)
//
//	// Interface → implementation, built by the default provider
//	container.For[Mailer](c).AsSingleton().Use(container.TypeOf[*smtpMailer]())
//
//	// Builder function, new instance every time
//	container.For[Clock](c).AsTransient().
//	    UseFunc(func() (any, error) { return &systemClock{}, nil }).
//	    Use(container.TypeOf[*systemClock]())
//
//	// Pre-built value
//	container.For[*Config](c).UseInstance(cfg)
//
//	// Registration record, without the builder
//	c.Register(container.NewRegistration(svc, target,
//	    container.WithProvider(p), container.WithMetadata("v2")))
//
// # Lifetimes
//
// [Transient]: a new instance on every Resolve; the cache is never used.
//
// [Singleton] (default): built once and reused until Shutdown.
//
// [Scoped]: reused while the registration's [ScopeFunc] keeps returning an
// equal token. A new token closes the cached instance (when it implements
// io.Closer) before a new one is built:
//
//	tracker := scope.NewTracker()
//	container.For[*UnitOfWork](c).InScope(tracker.ScopeFunc()).Use(container.TypeOf[*UnitOfWork]())
//
// [Container.EndScope] closes the instances cached for a token once its
// scope is over.
//
// Tokens are compared by value. A token type may implement [Equaler] to
// define equality itself.
//
// # Errors
//
// [ErrDuplicateRegistration], [ErrInvalidRegistration] and
// [ErrInvalidArgument] classify container failures; test with errors.Is.
// Errors raised while resolving a constructor parameter are returned
// unchanged, so a missing leaf dependency reports its own error.
//
// Singleton and Scoped construction is serialized per registration, so a
// construction source runs once per cache fill even under concurrent
// resolves. Circular constructor dependencies are not detected.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&MailServiceProvider{})
//	registry.Boot()
package container
