package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(vals ...interface{}) []interface{} { return vals }

func TestCompareResultsOrderAny(t *testing.T) {
	a := [][]interface{}{row("Viktor", int64(42)), row("James", int64(45))}
	b := [][]interface{}{row("James", int64(45)), row("Viktor", int64(42))}

	assert.True(t, compareResults(a, b, OrderAny))
	assert.False(t, compareResults(a, b, OrderExact))
	assert.True(t, compareResults(a, a, OrderExact))
}

func TestCompareResultsDuplicateCounts(t *testing.T) {
	// [x, x, y] and [x, y, y] have the same distinct rows but different
	// multiplicities.
	x := row("x")
	y := row("y")
	player := [][]interface{}{x, x, y}
	expected := [][]interface{}{x, y, y}

	assert.False(t, compareResults(player, expected, OrderAny))
	assert.True(t, compareResults([][]interface{}{x, y, x}, [][]interface{}{x, x, y}, OrderAny))
}

func TestCompareResultsEmpty(t *testing.T) {
	assert.True(t, compareResults(nil, nil, OrderAny))
	assert.True(t, compareResults([][]interface{}{}, [][]interface{}{}, OrderExact))
	assert.False(t, compareResults([][]interface{}{row(int64(1))}, nil, OrderAny))
}

func TestCompareResultsFloatRounding(t *testing.T) {
	// Aggregates computed along different arithmetic paths agree to 2 decimals.
	assert.True(t, compareResults(
		[][]interface{}{row(1234.5649999)},
		[][]interface{}{row(1234.5600001)},
		OrderAny,
	))
	assert.False(t, compareResults(
		[][]interface{}{row(1234.5651)},
		[][]interface{}{row(1234.5649)},
		OrderAny,
	))
	// negative zero never leaks into keys
	assert.True(t, compareResults(
		[][]interface{}{row(-0.0001)},
		[][]interface{}{row(0.0)},
		OrderAny,
	))
}

func TestCompareResultsTypesDoNotCollide(t *testing.T) {
	assert.False(t, compareResults(
		[][]interface{}{row("1")},
		[][]interface{}{row(int64(1))},
		OrderAny,
	))
	assert.False(t, compareResults(
		[][]interface{}{row(nil)},
		[][]interface{}{row("")},
		OrderAny,
	))
	// []byte from the driver equals its string form
	assert.True(t, compareResults(
		[][]interface{}{row([]byte("Viktor"))},
		[][]interface{}{row("Viktor")},
		OrderAny,
	))
	// integer-valued floats stay floats
	assert.False(t, compareResults(
		[][]interface{}{row(float64(1))},
		[][]interface{}{row(int64(1))},
		OrderAny,
	))
}

func TestDiffSummary(t *testing.T) {
	a := row("a")
	b := row("b")
	c := row("c")

	missing, extra := diffSummary([][]interface{}{a, c}, [][]interface{}{a, b})
	assert.True(t, missing)
	assert.True(t, extra)

	missing, extra = diffSummary([][]interface{}{a}, [][]interface{}{a, b})
	assert.True(t, missing)
	assert.False(t, extra)

	missing, extra = diffSummary([][]interface{}{a, b}, [][]interface{}{a})
	assert.False(t, missing)
	assert.True(t, extra)
}
