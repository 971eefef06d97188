package ecstest

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecstest/types"
)

var (
	ErrEntityDoesNotExist   = errors.New("entity does not exist")
	ErrComponentNotOnEntity = errors.New("component not on entity")
)

// World is the narrow slice of a host ECS engine that this package calls
// into. Entity storage, component layout, query execution and scheduling all
// belong to the host; implementations are expected to wrap
// ErrEntityDoesNotExist and ErrComponentNotOnEntity for the corresponding
// lookup failures.
type World interface {
	// Spawn creates one entity carrying the given components and returns its id.
	Spawn(components ...types.Component) (types.EntityID, error)
	// SpawnMany creates num entities, each carrying the given components.
	SpawnMany(num int, components ...types.Component) ([]types.EntityID, error)
	// Despawn removes an entity and all of its components.
	Despawn(id types.EntityID) error
	// Exists reports whether an entity is alive.
	Exists(id types.EntityID) bool
	// Component returns the encoded component with the given name on an entity.
	Component(id types.EntityID, name string) (json.RawMessage, error)
	// SetComponent overwrites a component on a live entity.
	SetComponent(id types.EntityID, comp types.Component) error
	// Each iterates over all live entities in the host's iteration order.
	// Return false from yield to stop the iteration.
	Each(yield func(types.EntityID) bool)
	// Tick runs one update of the host's schedule.
	Tick(ctx context.Context) error
}

// EntityRef exposes read-only operations for a single entity.
type EntityRef struct {
	id    types.EntityID
	world World
}

func (e EntityRef) ID() types.EntityID {
	return e.id
}

// Has reports whether the entity carries a component with the given name.
func (e EntityRef) Has(name string) bool {
	_, err := e.world.Component(e.id, name)
	return err == nil
}

// Raw returns the encoded form of the named component. Use the generic
// Component and GetComponent helpers for typed access.
func (e EntityRef) Raw(name string) (json.RawMessage, error) {
	bz, err := e.world.Component(e.id, name)
	if err != nil {
		return nil, eris.Wrapf(err, "get raw component %q from entity %d", name, e.id)
	}
	return bz, nil
}
