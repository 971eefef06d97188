// Package ecstest adds test-only conveniences on top of a host ECS world:
// spawn helpers, entity and component accessors, update-loop helpers, and a
// fluent query-assertion builder.
//
// Accessors come in two flavors. The plain form (Entity, Component) fails the
// test immediately when the target is absent; the Get form (GetEntity,
// GetComponent) returns an ok/error value for callers who want to probe for
// absence instead.
//
// Query assertions are chained off App.Query and can be inverted one call at
// a time with Not:
//
//	app.Spawn(Position{X: 0, Y: 0})
//	app.Spawn(Position{X: 1, Y: 2})
//	app.Spawn(Position{X: 4.5, Y: 1})
//
//	ecstest.Query[Position](app).
//		Has(Position{X: 1, Y: 2}).
//		Not().Has(Position{X: 4, Y: -3}).
//		Length(3)
//
// The package implements no storage, query engine or scheduler of its own.
// All of that lives behind the World interface supplied by the host.
package ecstest
