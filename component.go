package ecstest

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecstest/codec"
	"pkg.world.dev/world-engine/ecstest/types"
)

// Component returns the component of type T on the given entity. It fails the
// test if the entity does not exist or does not carry T; use GetComponent to
// check for absence instead.
func Component[T types.Component](app *App, id types.EntityID) T {
	if ht, ok := app.t.(helperT); ok {
		ht.Helper()
	}
	comp, err := GetComponent[T](app, id)
	if err != nil {
		var t T
		app.fatalf("component %q is not part of entity %d: %s", t.Name(), id, eris.ToString(err, true))
	}
	return comp
}

// GetComponent returns the component of type T on the given entity, or an
// error when the entity does not exist or does not carry T.
func GetComponent[T types.Component](app *App, id types.EntityID) (T, error) {
	var t T
	bz, err := app.world.Component(id, t.Name())
	if err != nil {
		return t, eris.Wrapf(err, "get component %q from entity %d", t.Name(), id)
	}
	return codec.Decode[T](bz)
}

// SetComponent overwrites the component of type T on the given entity. It
// fails the test if the entity does not exist or does not carry T.
func SetComponent[T types.Component](app *App, id types.EntityID, comp T) {
	if ht, ok := app.t.(helperT); ok {
		ht.Helper()
	}
	if err := app.world.SetComponent(id, comp); err != nil {
		app.fatalf("unable to set component %q on entity %d: %s", comp.Name(), id, eris.ToString(err, true))
	}
}
