package ecstest_test

import (
	"fmt"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"pkg.world.dev/world-engine/ecstest"
	"pkg.world.dev/world-engine/ecstest/testsuite"
)

// recordingT captures failures instead of stopping the test, so failing
// assertion paths can be observed.
type recordingT struct {
	failed bool
	logs   []string
}

func (r *recordingT) Log(args ...interface{}) {
	r.logs = append(r.logs, fmt.Sprint(args...))
}

func (r *recordingT) FailNow() {
	r.failed = true
}

func (r *recordingT) output() string {
	return strings.Join(r.logs, "\n")
}

func newPositionApp(t ecstest.TestingT) *ecstest.App {
	app := ecstest.NewApp(t, testsuite.NewMemWorld())
	app.Spawn(testsuite.Position{X: 0, Y: 0})
	app.Spawn(testsuite.Position{X: 1, Y: 2})
	app.Spawn(testsuite.Position{X: 4.5, Y: 1})
	return app
}

func TestQueryChaining(t *testing.T) {
	app := newPositionApp(t)

	ecstest.Query[testsuite.Position](app).
		Has(testsuite.Position{X: 1, Y: 2}).
		Not().Has(testsuite.Position{X: 4, Y: -3}).
		Length(3).
		HasAll([]testsuite.Position{{X: 0, Y: 0}, {X: 1, Y: 2}}).
		Not().HasAll([]testsuite.Position{{X: 1, Y: 2}, {X: 3, Y: -2}}).
		HasAny([]testsuite.Position{{X: 3, Y: -2}, {X: 1, Y: 2}}).
		Not().HasAny([]testsuite.Position{{X: 5, Y: -6}, {X: 0, Y: 3}}).
		All(func(p testsuite.Position) bool { return p.X >= 0 }).
		Not().All(func(p testsuite.Position) bool { return p.X == 0 }).
		Any(func(p testsuite.Position) bool { return p.Y == 2 }).
		Not().Any(func(p testsuite.Position) bool { return p.Y == 9 }).
		Not().Length(5)
}

func TestMatchesIsOrderInsensitive(t *testing.T) {
	app := newPositionApp(t)

	ecstest.Query[testsuite.Position](app).
		Matches([]testsuite.Position{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 4.5, Y: 1}}).
		Matches([]testsuite.Position{{X: 4.5, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 2}})
}

func TestMatchesReportsLengthMismatch(t *testing.T) {
	rec := &recordingT{}
	app := newPositionApp(rec)

	ecstest.Query[testsuite.Position](app).
		Matches([]testsuite.Position{{X: 0, Y: 0}, {X: 1, Y: 2}})

	assert.Assert(t, rec.failed)
	assert.Assert(t, strings.Contains(rec.output(), "Given:"))
	assert.Assert(t, strings.Contains(rec.output(), "Found:"))
}

func TestMatchesCountsMultiplicity(t *testing.T) {
	a := testsuite.Energy{Amt: 1, Cap: 10}
	b := testsuite.Energy{Amt: 2, Cap: 10}

	newEnergyApp := func(rt ecstest.TestingT) *ecstest.App {
		app := ecstest.NewApp(rt, testsuite.NewMemWorld())
		app.Spawn(a)
		app.Spawn(a)
		app.Spawn(b)
		return app
	}

	ecstest.Query[testsuite.Energy](newEnergyApp(t)).
		Matches([]testsuite.Energy{a, a, b}).
		Matches([]testsuite.Energy{a, b, a})

	rec := &recordingT{}
	ecstest.Query[testsuite.Energy](newEnergyApp(rec)).
		Matches([]testsuite.Energy{a, b})
	assert.Assert(t, rec.failed, "2 vs 3 records must be a length mismatch")

	rec = &recordingT{}
	ecstest.Query[testsuite.Energy](newEnergyApp(rec)).
		Matches([]testsuite.Energy{a, b, b})
	assert.Assert(t, rec.failed, "swapped multiplicities must not match")
}

func TestNotNotIsIdentity(t *testing.T) {
	app := newPositionApp(t)
	ecstest.Query[testsuite.Position](app).
		Not().Not().Has(testsuite.Position{X: 1, Y: 2}).
		Not().Not().Length(3)

	rec := &recordingT{}
	ecstest.Query[testsuite.Position](newPositionApp(rec)).
		Not().Not().Has(testsuite.Position{X: 9, Y: 9})
	assert.Assert(t, rec.failed, "double negation must behave like no negation")
}

func TestInvertResetsAfterEveryAssertion(t *testing.T) {
	// The first Not applies to Has only, so the following Length runs
	// uninverted.
	app := ecstest.NewApp(t, testsuite.NewMemWorld())
	app.Spawn(testsuite.Position{X: 1, Y: 1})
	ecstest.Query[testsuite.Position](app).
		Not().Has(testsuite.Position{X: 5, Y: 5}).
		Length(1)

	// A second Not inverts Length again.
	rec := &recordingT{}
	app = ecstest.NewApp(rec, testsuite.NewMemWorld())
	app.Spawn(testsuite.Position{X: 1, Y: 1})
	ecstest.Query[testsuite.Position](app).
		Not().Has(testsuite.Position{X: 5, Y: 5}).
		Not().Length(1)
	assert.Assert(t, rec.failed)
	assert.Assert(t, strings.Contains(rec.output(), "Match:"))
}

func TestInvertResetsOnFailurePaths(t *testing.T) {
	rec := &recordingT{}
	app := newPositionApp(rec)

	q := ecstest.Query[testsuite.Position](app).
		Not().Length(3) // fails: length does match
	assert.Assert(t, rec.failed)

	// The failed inverted assertion must not leave the builder inverted.
	before := len(rec.logs)
	q.Length(3)
	assert.Equal(t, before, len(rec.logs), "Length(3) must run uninverted and succeed")
}

func TestHasAgreesWithSingletonHasAll(t *testing.T) {
	present := testsuite.Position{X: 1, Y: 2}
	absent := testsuite.Position{X: 7, Y: 7}

	ecstest.Query[testsuite.Position](newPositionApp(t)).
		Has(present).
		HasAll([]testsuite.Position{present})

	recHas := &recordingT{}
	ecstest.Query[testsuite.Position](newPositionApp(recHas)).Has(absent)
	recAll := &recordingT{}
	ecstest.Query[testsuite.Position](newPositionApp(recAll)).
		HasAll([]testsuite.Position{absent})
	assert.Equal(t, recHas.failed, recAll.failed)
}

func TestEmptyQuery(t *testing.T) {
	app := ecstest.NewApp(t, testsuite.NewMemWorld())

	ecstest.Query[testsuite.Position](app).
		Length(0).
		Not().Has(testsuite.Position{X: 1, Y: 1}).
		All(func(testsuite.Position) bool { return false }). // vacuously true
		Matches(nil)

	rec := &recordingT{}
	recApp := ecstest.NewApp(rec, testsuite.NewMemWorld())
	ecstest.Query[testsuite.Position](recApp).Has(testsuite.Position{})
	assert.Assert(t, rec.failed, "Has on an empty query must fail")

	rec = &recordingT{}
	recApp = ecstest.NewApp(rec, testsuite.NewMemWorld())
	ecstest.Query[testsuite.Position](recApp).
		Any(func(testsuite.Position) bool { return true })
	assert.Assert(t, rec.failed, "Any on an empty query must fail")
}

func TestNotHasAnyCitesFirstMatch(t *testing.T) {
	rec := &recordingT{}
	app := newPositionApp(rec)

	ecstest.Query[testsuite.Position](app).
		Not().HasAny([]testsuite.Position{{X: 4.5, Y: 1}, {X: 1, Y: 2}})

	assert.Assert(t, rec.failed)
	// {1, 2} precedes {4.5, 1} in spawn order, so it is the cited record.
	assert.Assert(t, strings.Contains(rec.output(), `"X": 1`))
}

func TestAllCitesFirstFailingRecord(t *testing.T) {
	rec := &recordingT{}
	app := newPositionApp(rec)

	ecstest.Query[testsuite.Position](app).
		All(func(p testsuite.Position) bool { return p.Y < 1 })

	assert.Assert(t, rec.failed)
	assert.Assert(t, strings.Contains(rec.output(), `"Y": 2`))
	assert.Assert(t, strings.Contains(rec.output(), "func(testsuite.Position) bool"))
}

func TestQueryWhere(t *testing.T) {
	app := newPositionApp(t)

	ecstest.QueryWhere(app, func(p testsuite.Position) bool { return p.X > 0 }).
		Length(2).
		Not().Has(testsuite.Position{X: 0, Y: 0})
}

func TestQuerySnapshotIsStable(t *testing.T) {
	app := newPositionApp(t)

	q := ecstest.Query[testsuite.Position](app)
	app.Spawn(testsuite.Position{X: 9, Y: 9})

	// The snapshot was taken before the extra spawn.
	q.Length(3)
	ecstest.Query[testsuite.Position](app).Length(4)
}

func TestQuerySkipsEntitiesWithoutComponent(t *testing.T) {
	app := ecstest.NewApp(t, testsuite.NewMemWorld())
	app.Spawn(testsuite.Position{X: 1, Y: 1})
	app.Spawn(testsuite.Energy{Amt: 5, Cap: 10})
	app.SpawnEmpty()

	ecstest.Query[testsuite.Position](app).Length(1)
	ecstest.Query[testsuite.Energy](app).Length(1)
}

func TestQueryResults(t *testing.T) {
	app := newPositionApp(t)
	results := ecstest.Query[testsuite.Position](app).Results()
	assert.Equal(t, 3, len(results))
	assert.Equal(t, testsuite.Position{X: 0, Y: 0}, results[0])
}
