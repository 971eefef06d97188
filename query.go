package ecstest

import (
	"fmt"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecstest/codec"
	"pkg.world.dev/world-engine/ecstest/types"
)

// Query snapshots every entity carrying a component of type T and returns an
// AssertQuery over the decoded components. The snapshot is taken once; spawn
// or update the world after this call and you need a new query to see it.
func Query[T types.Component](app *App) *AssertQuery[T] {
	if ht, ok := app.t.(helperT); ok {
		ht.Helper()
	}
	return QueryWhere[T](app, nil)
}

// QueryWhere is Query with a filter applied before the snapshot is taken.
// Components for which pred returns false are left out of the result set.
func QueryWhere[T types.Component](app *App, pred func(T) bool) *AssertQuery[T] {
	if ht, ok := app.t.(helperT); ok {
		ht.Helper()
	}
	var zero T
	name := zero.Name()

	var results []T
	var iterErr error
	app.world.Each(func(id types.EntityID) bool {
		bz, err := app.world.Component(id, name)
		if err != nil {
			if eris.Is(eris.Cause(err), ErrComponentNotOnEntity) {
				return true
			}
			iterErr = eris.Wrapf(err, "read component %q from entity %d", name, id)
			return false
		}
		comp, err := codec.Decode[T](bz)
		if err != nil {
			iterErr = eris.Wrapf(err, "decode component %q from entity %d", name, id)
			return false
		}
		if pred != nil && !pred(comp) {
			return true
		}
		results = append(results, comp)
		return true
	})
	if iterErr != nil {
		app.fatalf("query for %q failed: %s", name, eris.ToString(iterErr, true))
	}
	return &AssertQuery[T]{t: app.t, results: results}
}

// AssertQuery performs tests on a snapshot of query results. Methods chain;
// a failing assertion is fatal for the current test. Records are compared
// with go-cmp deep equality, so component structs must have exported fields.
type AssertQuery[T any] struct {
	t       TestingT
	results []T
	invert  bool
}

// Results returns the snapshot the assertions run against.
func (q *AssertQuery[T]) Results() []T {
	return q.results
}

// Not inverts the next assertion in the chain. The inverted state is reset
// after every assertion, so each Not applies to exactly one call; two Nots in
// a row cancel out.
func (q *AssertQuery[T]) Not() *AssertQuery[T] {
	q.invert = !q.invert
	return q
}

// Matches checks that the query result and the expected records are equal as
// multisets: same records, same multiplicities, in any order. Use HasAll if
// you only need containment.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) Matches(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notMatches(expected)
	}

	for _, record := range q.results {
		if !containsRecord(expected, record) {
			q.mismatch("the query contains an unexpected record", expected, record)
			return q.resetInvert()
		}
	}
	for _, record := range expected {
		if !containsRecord(q.results, record) {
			q.mismatch("an expected record was not found in the query", record, q.results)
			return q.resetInvert()
		}
	}
	if len(expected) != len(q.results) {
		q.mismatch("the length of the query result mismatches", len(expected), len(q.results))
		return q.resetInvert()
	}
	if !multisetEqual(q.results, expected) {
		q.mismatch("record multiplicities differ between the query and the expected records", expected, q.results)
	}

	return q.resetInvert()
}

func (q *AssertQuery[T]) notMatches(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if multisetEqual(q.results, expected) {
		q.unexpectedMatch("the query matches the expected records", expected)
	}
	return q.resetInvert()
}

// Has checks that the query contains the given record.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) Has(expected T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notHas(expected)
	}

	if !containsRecord(q.results, expected) {
		q.mismatch("the expected record was not found in the query", expected, q.results)
	}
	return q.resetInvert()
}

func (q *AssertQuery[T]) notHas(expected T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if containsRecord(q.results, expected) {
		q.unexpectedMatch("the query contains the record", expected)
	}
	return q.resetInvert()
}

// HasAll checks that the query contains every one of the expected records.
// Use Matches if you need exact equality between the query and the expected
// records.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) HasAll(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notHasAll(expected)
	}

	for _, record := range expected {
		if !containsRecord(q.results, record) {
			q.mismatch("an expected record was not found in the query", record, q.results)
			return q.resetInvert()
		}
	}
	return q.resetInvert()
}

func (q *AssertQuery[T]) notHasAll(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	for _, record := range expected {
		if !containsRecord(q.results, record) {
			return q.resetInvert()
		}
	}
	q.unexpectedMatch("the query contains all of the expected records", expected)
	return q.resetInvert()
}

// HasAny checks that the query contains at least one of the expected records.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) HasAny(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notHasAny(expected)
	}

	for _, record := range q.results {
		if containsRecord(expected, record) {
			return q.resetInvert()
		}
	}
	q.mismatch("none of the expected records were found in the query", expected, q.results)
	return q.resetInvert()
}

func (q *AssertQuery[T]) notHasAny(expected []T) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	for _, record := range q.results {
		if containsRecord(expected, record) {
			q.unexpectedMatch("one of the expected records was found in the query", record)
			return q.resetInvert()
		}
	}
	return q.resetInvert()
}

// All checks that every record in the query matches the given predicate. Use
// Any to check whether some record matches it.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) All(predicate func(T) bool) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notAll(predicate)
	}

	for _, record := range q.results {
		if !predicate(record) {
			q.mismatch("the predicate fails on one of the records", predicateLabel[T](), record)
			return q.resetInvert()
		}
	}
	return q.resetInvert()
}

func (q *AssertQuery[T]) notAll(predicate func(T) bool) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	for _, record := range q.results {
		if !predicate(record) {
			return q.resetInvert()
		}
	}
	q.unexpectedMatch("the predicate matches on all of the records", q.results)
	return q.resetInvert()
}

// Any checks that at least one record in the query matches the given
// predicate. Use All to check whether every record matches it.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) Any(predicate func(T) bool) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notAny(predicate)
	}

	for _, record := range q.results {
		if predicate(record) {
			return q.resetInvert()
		}
	}
	q.mismatch("the predicate did not match any of the records", predicateLabel[T](), q.results)
	return q.resetInvert()
}

func (q *AssertQuery[T]) notAny(predicate func(T) bool) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	for _, record := range q.results {
		if predicate(record) {
			q.unexpectedMatch("the predicate matched on one of the records", record)
			return q.resetInvert()
		}
	}
	return q.resetInvert()
}

// Length checks that the number of records in the query equals the given
// length.
//
// This can be inverted via Not.
func (q *AssertQuery[T]) Length(length int) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if q.invert {
		return q.notLength(length)
	}

	if len(q.results) != length {
		q.mismatch("the length of the query result mismatches", length, len(q.results))
	}
	return q.resetInvert()
}

func (q *AssertQuery[T]) notLength(length int) *AssertQuery[T] {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	if len(q.results) == length {
		q.unexpectedMatch("the length of the query result matches", length)
	}
	return q.resetInvert()
}

func (q *AssertQuery[T]) resetInvert() *AssertQuery[T] {
	q.invert = false
	return q
}

func (q *AssertQuery[T]) mismatch(headline string, given, found any) {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	q.invert = false
	q.t.Log(formatMismatch(headline, given, found))
	q.t.FailNow()
}

func (q *AssertQuery[T]) unexpectedMatch(headline string, match any) {
	if ht, ok := q.t.(helperT); ok {
		ht.Helper()
	}
	q.invert = false
	q.t.Log(formatUnexpectedMatch(headline, match))
	q.t.FailNow()
}

func containsRecord[T any](records []T, v T) bool {
	for i := range records {
		if gocmp.Equal(records[i], v) {
			return true
		}
	}
	return false
}

// multisetEqual pairs every record of a with a distinct equal record of b.
func multisetEqual[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for i := range a {
		found := false
		for j := range b {
			if !used[j] && gocmp.Equal(a[i], b[j]) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func predicateLabel[T any]() rawString {
	var zero T
	return rawString(fmt.Sprintf("func(%T) bool", zero))
}
