package testsuite

import (
	"pkg.world.dev/world-engine/ecstest/codec"
	"pkg.world.dev/world-engine/ecstest/types"
)

// Position is a test component for location-based tests.
type Position struct {
	X, Y float64
}

func (Position) Name() string {
	return "position"
}

// Energy is a test component with a current and a maximum amount.
type Energy struct {
	Amt, Cap int64
}

func (Energy) Name() string {
	return "energy"
}

// Countdown is a test component decremented once per tick by CountdownSystem.
type Countdown struct {
	Remaining int64
}

func (Countdown) Name() string {
	return "countdown"
}

// CountdownSystem decrements every Countdown component by one.
func CountdownSystem(w *MemWorld) error {
	var sysErr error
	w.Each(func(id types.EntityID) bool {
		bz, err := w.Component(id, Countdown{}.Name())
		if err != nil {
			return true
		}
		c, err := codec.Decode[Countdown](bz)
		if err != nil {
			sysErr = err
			return false
		}
		c.Remaining--
		if err := w.SetComponent(id, c); err != nil {
			sysErr = err
			return false
		}
		return true
	})
	return sysErr
}
