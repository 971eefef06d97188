package ecstest

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecstest/types"
)

// TestingT is the subset of testing.TB this package reports failures through.
type TestingT interface {
	Log(args ...interface{})
	FailNow()
}

type helperT interface {
	Helper()
}

type cleanupT interface {
	Cleanup(func())
}

// App wraps a host world for use in tests. Every failure path is fatal
// through the TestingT supplied at construction.
type App struct {
	t      TestingT
	world  World
	logger zerolog.Logger
}

type Option func(*App)

// WithLogger replaces the default no-op logger of the fixture.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a test fixture around a host world.
func NewApp(t TestingT, world World, opts ...Option) *App {
	// Init testing environment
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)

	app := &App{
		t:      t,
		world:  world,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if ct, ok := t.(cleanupT); ok {
		ct.Cleanup(func() {
			app.logger.Debug().Msg("test app torn down")
		})
	}
	return app
}

// World returns the wrapped host world.
func (a *App) World() World {
	return a.world
}

// Spawn creates a new entity carrying the given components and returns its id.
func (a *App) Spawn(components ...types.Component) types.EntityID {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	id, err := a.world.Spawn(components...)
	if err != nil {
		a.fatalf("unable to spawn entity: %s", eris.ToString(err, true))
	}
	a.logger.Debug().
		Uint64("entity_id", uint64(id)).
		Strs("components", types.ComponentNames(components)).
		Msg("spawned entity")
	return id
}

// SpawnEmpty creates a new entity with no components.
func (a *App) SpawnEmpty() types.EntityID {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	return a.Spawn()
}

// SpawnMany creates num entities, each carrying the given components.
func (a *App) SpawnMany(num int, components ...types.Component) []types.EntityID {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	ids, err := a.world.SpawnMany(num, components...)
	if err != nil {
		a.fatalf("unable to spawn %d entities: %s", num, eris.ToString(err, true))
	}
	return ids
}

// Despawn removes an entity and all of its components.
func (a *App) Despawn(id types.EntityID) {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	if err := a.world.Despawn(id); err != nil {
		a.fatalf("unable to despawn entity %d: %s", id, eris.ToString(err, true))
	}
}

// Entity returns a read-only view of the given entity. It fails the test if
// the entity does not exist; use GetEntity to check for existence instead.
func (a *App) Entity(id types.EntityID) EntityRef {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	ref, ok := a.GetEntity(id)
	if !ok {
		a.fatalf("entity %d does not exist", id)
	}
	return ref
}

// GetEntity returns a read-only view of the given entity, and false when the
// entity does not exist.
func (a *App) GetEntity(id types.EntityID) (EntityRef, bool) {
	if !a.world.Exists(id) {
		return EntityRef{}, false
	}
	return EntityRef{id: id, world: a.world}, true
}

// UpdateOnce runs the host's schedule a single time.
func (a *App) UpdateOnce() {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	if err := a.world.Tick(context.Background()); err != nil {
		a.fatalf("tick failed: %s", eris.ToString(err, true))
	}
	a.logger.Debug().Msg("tick completed")
}

// UpdateNTimes runs the host's schedule amount times. Use UpdateOnce to run
// it a single time.
func (a *App) UpdateNTimes(amount int) {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	for i := 0; i < amount; i++ {
		a.UpdateOnce()
	}
}

func (a *App) fatalf(format string, args ...interface{}) {
	if ht, ok := a.t.(helperT); ok {
		ht.Helper()
	}
	a.t.Log(fmt.Sprintf(format, args...))
	a.t.FailNow()
}
