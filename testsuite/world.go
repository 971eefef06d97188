// Package testsuite provides shared test components and an in-memory World
// for tests that do not need a real engine behind them.
package testsuite

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecstest"
	"pkg.world.dev/world-engine/ecstest/codec"
	"pkg.world.dev/world-engine/ecstest/types"
)

// System mutates the world during a tick.
type System func(w *MemWorld) error

var _ ecstest.World = (*MemWorld)(nil)

// MemWorld is a map-backed test double for ecstest.World. Entities iterate in
// spawn order. It is a stand-in for a host engine, not an engine: there are
// no archetypes, no scheduling and no persistence. Not safe for concurrent
// use.
type MemWorld struct {
	nextID   types.EntityID
	order    []types.EntityID
	entities map[types.EntityID]map[string]json.RawMessage
	systems  []System
	tick     uint64
}

func NewMemWorld(systems ...System) *MemWorld {
	return &MemWorld{
		entities: map[types.EntityID]map[string]json.RawMessage{},
		systems:  systems,
	}
}

func (w *MemWorld) Spawn(components ...types.Component) (types.EntityID, error) {
	comps := make(map[string]json.RawMessage, len(components))
	for _, c := range components {
		bz, err := codec.Encode(c)
		if err != nil {
			return 0, eris.Wrapf(err, "encode component %q", c.Name())
		}
		comps[c.Name()] = bz
	}
	w.nextID++
	id := w.nextID
	w.entities[id] = comps
	w.order = append(w.order, id)
	return id, nil
}

func (w *MemWorld) SpawnMany(num int, components ...types.Component) ([]types.EntityID, error) {
	ids := make([]types.EntityID, 0, num)
	for i := 0; i < num; i++ {
		id, err := w.Spawn(components...)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (w *MemWorld) Despawn(id types.EntityID) error {
	if _, ok := w.entities[id]; !ok {
		return eris.Wrapf(ecstest.ErrEntityDoesNotExist, "entity %d", id)
	}
	delete(w.entities, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

func (w *MemWorld) Exists(id types.EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

func (w *MemWorld) Component(id types.EntityID, name string) (json.RawMessage, error) {
	comps, ok := w.entities[id]
	if !ok {
		return nil, eris.Wrapf(ecstest.ErrEntityDoesNotExist, "entity %d", id)
	}
	bz, ok := comps[name]
	if !ok {
		return nil, eris.Wrapf(ecstest.ErrComponentNotOnEntity, "component %q on entity %d", name, id)
	}
	return bz, nil
}

func (w *MemWorld) SetComponent(id types.EntityID, comp types.Component) error {
	comps, ok := w.entities[id]
	if !ok {
		return eris.Wrapf(ecstest.ErrEntityDoesNotExist, "entity %d", id)
	}
	if _, ok := comps[comp.Name()]; !ok {
		return eris.Wrapf(ecstest.ErrComponentNotOnEntity, "component %q on entity %d", comp.Name(), id)
	}
	bz, err := codec.Encode(comp)
	if err != nil {
		return eris.Wrapf(err, "encode component %q", comp.Name())
	}
	comps[comp.Name()] = bz
	return nil
}

func (w *MemWorld) Each(yield func(types.EntityID) bool) {
	// Iterate a copy so systems can despawn while iterating.
	order := make([]types.EntityID, len(w.order))
	copy(order, w.order)
	for _, id := range order {
		if !w.Exists(id) {
			continue
		}
		if !yield(id) {
			return
		}
	}
}

func (w *MemWorld) Tick(ctx context.Context) error {
	for _, system := range w.systems {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "tick canceled")
		}
		if err := system(w); err != nil {
			return eris.Wrapf(err, "system failed during tick %d", w.tick)
		}
	}
	w.tick++
	return nil
}

// CurrentTick returns the number of completed ticks.
func (w *MemWorld) CurrentTick() uint64 {
	return w.tick
}
