package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, 7, r.Count())

	for id := 1; id <= 7; id++ {
		level, ok := r.Get(id)
		require.True(t, ok, "level %d missing", id)
		assert.Equal(t, id, level.ID)
		assert.NotEmpty(t, level.Title)
		assert.NotEmpty(t, level.ExpectedQuery)
		assert.NotEmpty(t, level.TablesUnlocked)
	}

	_, ok := r.Get(0)
	assert.False(t, ok)
	_, ok = r.Get(8)
	assert.False(t, ok)
}

func TestNextID(t *testing.T) {
	r := Default()

	assert.Equal(t, 2, r.NextID(1))
	assert.Equal(t, 7, r.NextID(6))
	assert.Equal(t, 0, r.NextID(7), "last level has no successor")
	assert.Equal(t, 0, r.NextID(99))
}

func TestTablesForAccumulate(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{"suspects"}, r.TablesFor(1))

	all := r.TablesFor(7)
	assert.Contains(t, all, "suspects")
	assert.Contains(t, all, "bank_transactions")
	assert.GreaterOrEqual(t, len(all), len(r.TablesFor(3)))
}

func TestViewHidesSolution(t *testing.T) {
	r := Default()
	level, ok := r.Get(1)
	require.True(t, ok)

	view := level.View()
	assert.Equal(t, level.Title, view.Title)
	assert.Equal(t, level.Hint, view.Hint)
	// View has no expected-query field at all; spot-check the JSON shape stays
	// free of it via the struct definition.
	assert.NotEmpty(t, view.TablesUnlocked)
}

func TestApplyOverride(t *testing.T) {
	r := Default()

	newQuery := "SELECT * FROM suspects WHERE criminal_record = 1"
	newHint := "Focus on prior offenders."
	orderMatters := true

	require.True(t, r.ApplyOverride(1, &newQuery, &newHint, &orderMatters))

	level, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, newQuery, level.ExpectedQuery)
	assert.Equal(t, newHint, level.Hint)
	assert.True(t, level.OrderMatters)

	// nil fields leave the definition untouched
	require.True(t, r.ApplyOverride(2, nil, &newHint, nil))
	level2, _ := r.Get(2)
	assert.Equal(t, newHint, level2.Hint)
	assert.NotEqual(t, newQuery, level2.ExpectedQuery)
	assert.True(t, level2.OrderMatters)

	assert.False(t, r.ApplyOverride(99, &newQuery, nil, nil))
}

func TestGetReturnsCopy(t *testing.T) {
	r := Default()

	level, _ := r.Get(1)
	level.Hint = "mutated"

	again, _ := r.Get(1)
	assert.NotEqual(t, "mutated", again.Hint)
}
