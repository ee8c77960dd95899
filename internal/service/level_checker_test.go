package service

import (
	"context"
	"testing"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChecker(t *testing.T) (*LevelChecker, *levels.Registry) {
	t.Helper()
	registry := levels.Default()
	executor := newTestExecutor(t, 5*time.Second, 1000)
	checker := NewLevelChecker(NewSQLValidator(5000), executor, registry, zap.NewNop())
	return checker, registry
}

func TestCheckCorrectAnswer(t *testing.T) {
	checker, _ := newTestChecker(t)

	// different text, same result set as the canonical answer
	res, err := checker.Check(context.Background(),
		1, "select * from suspects where criminal_record = 1 and age >= 31;")
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Empty(t, res.FailureKind)
	assert.Equal(t, 2, res.NextLevelID)
	assert.NotEmpty(t, res.Message)
	require.NotNil(t, res.Result)
	assert.Equal(t, 2, res.Result.RowCount)
}

func TestCheckColumnNamesIrrelevant(t *testing.T) {
	checker, _ := newTestChecker(t)

	// aliased columns still compare equal; only cell values matter
	res, err := checker.Check(context.Background(),
		1, "SELECT id AS x, name AS y, age AS z, occupation AS o, criminal_record AS c, address AS a FROM suspects WHERE age > 30 AND criminal_record = 1")
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestCheckWrongRowCount(t *testing.T) {
	checker, _ := newTestChecker(t)

	res, err := checker.Check(context.Background(), 1, "SELECT * FROM suspects WHERE age > 30")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Contains(t, res.Message, "Row count mismatch")
	assert.NotEmpty(t, res.Hints)
	require.NotNil(t, res.Result)
}

func TestCheckEmptyResult(t *testing.T) {
	checker, _ := newTestChecker(t)

	res, err := checker.Check(context.Background(), 1, "SELECT * FROM suspects WHERE age > 200")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Contains(t, res.Message, "no results")
}

func TestCheckValidationShortCircuits(t *testing.T) {
	checker, _ := newTestChecker(t)

	res, err := checker.Check(context.Background(), 1, "DROP TABLE suspects")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Contains(t, res.Message, "Query Error")
	assert.Equal(t, ErrKindValidation, res.FailureKind)
	// rejected before execution, so there is nothing to display
	assert.Nil(t, res.Result)
	assert.NotEmpty(t, res.Hints)
}

func TestCheckExecutionFailureKind(t *testing.T) {
	checker, _ := newTestChecker(t)

	res, err := checker.Check(context.Background(), 1, "SELECT * FROM witnesses")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, ErrKindUnknownObject, res.FailureKind)
	assert.Contains(t, res.Message, "Table not found")
}

func TestCheckUnknownLevel(t *testing.T) {
	checker, _ := newTestChecker(t)

	_, err := checker.Check(context.Background(), 99, "SELECT 1")
	assert.ErrorIs(t, err, util.ErrLevelNotFound)
}

func TestCheckOrderMatters(t *testing.T) {
	checker, _ := newTestChecker(t)

	// level 2 demands descending timestamps; the right rows in ascending order
	// must fail
	res, err := checker.Check(context.Background(), 2,
		`SELECT * FROM (
			SELECT * FROM phone_records
			WHERE timestamp BETWEEN '2024-03-15 23:00:00' AND '2024-03-16 02:00:00'
			ORDER BY timestamp DESC LIMIT 5
		) ORDER BY timestamp ASC`)
	require.NoError(t, err)
	assert.False(t, res.Correct)

	res, err = checker.Check(context.Background(), 2,
		`SELECT * FROM phone_records
		WHERE timestamp BETWEEN '2024-03-15 23:00:00' AND '2024-03-16 02:00:00'
		ORDER BY timestamp DESC LIMIT 5`)
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestCheckLastLevelHasNoNext(t *testing.T) {
	checker, registry := newTestChecker(t)

	last := registry.Count()
	level, ok := registry.Get(last)
	require.True(t, ok)

	res, err := checker.Check(context.Background(), last, level.ExpectedQuery)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 0, res.NextLevelID)
}

// Every shipped level must validate, execute, and return the advertised row
// count against the seeded database.
func TestDefaultLevelsAreSolvable(t *testing.T) {
	registry := levels.Default()
	validator := NewSQLValidator(5000)
	executor := newTestExecutor(t, 5*time.Second, 1000)

	for _, level := range registry.All() {
		verr := validator.Validate(level.ExpectedQuery)
		require.Nilf(t, verr, "level %d expected query rejected: %v", level.ID, verr)

		rs, err := executor.ExecuteUncapped(context.Background(), level.ExpectedQuery)
		require.NoErrorf(t, err, "level %d expected query failed", level.ID)

		if level.ExpectedRowCount != nil {
			assert.Equalf(t, *level.ExpectedRowCount, rs.RowCount, "level %d row count", level.ID)
		}
	}
}
