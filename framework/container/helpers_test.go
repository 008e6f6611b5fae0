package container_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
)

// Shared test types and constructors used across test files.

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type greeter interface{ Greet() string }

type englishGreeter struct{ Word string }

func (g *englishGreeter) Greet() string { return g.Word }

type loggerPair struct {
	First  *testLogger
	Second *testLogger
}

func newTestLogger() *testLogger { return &testLogger{Prefix: "app"} }
func newTestConfig() *testConfig { return &testConfig{DSN: "postgres://localhost"} }

func newTestDatabase(cfg *testConfig, log *testLogger) *testDatabase {
	return &testDatabase{Config: cfg, Logger: log}
}

func newEnglishGreeter() *englishGreeter { return &englishGreeter{Word: "hello"} }

func newLoggerPair(a, b *testLogger) *loggerPair { return &loggerPair{First: a, Second: b} }

// events records the order of builds and closes across instances.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

// testClosable implements io.Closer and records how often it was closed.
type testClosable struct {
	ID     int
	Closed int
	events *events
	err    error
}

func (c *testClosable) Close() error {
	c.Closed++
	if c.events != nil {
		c.events.add(fmt.Sprintf("close:%d", c.ID))
	}
	return c.err
}

var errLeaf = errors.New("leaf failed")

func typeOf[T any]() reflect.Type { return container.TypeOf[T]() }

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c *container.Container, r *container.Registration) {
	t.Helper()
	require.NoError(t, c.Register(r))
}

// mustConstructor calls t.Fatal if recording constructors fails.
func mustConstructor(t *testing.T, c *container.Container, fns ...any) {
	t.Helper()
	require.NoError(t, c.Constructor(fns...))
}

// sequence returns a ScopeFunc yielding tokens in order, repeating the last.
func sequence(tokens ...any) container.ScopeFunc {
	var mu sync.Mutex
	i := 0
	return func(*container.Registration) any {
		mu.Lock()
		defer mu.Unlock()
		tok := tokens[i]
		if i < len(tokens)-1 {
			i++
		}
		return tok
	}
}
