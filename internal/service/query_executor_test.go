package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestGameDB builds and seeds a fresh crime database in a temp dir and
// opens it read-only, exactly as the app does at startup.
func openTestGameDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crime.db")
	require.NoError(t, database.EnsureGameDB(path))

	db, err := database.OpenGameDBReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestExecutor(t *testing.T, timeout time.Duration, maxRows int) *QueryExecutor {
	t.Helper()
	return NewQueryExecutor(openTestGameDB(t), timeout, maxRows, zap.NewNop())
}

func TestExecuteReturnsRows(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	rs, err := e.Execute(context.Background(), "SELECT id, name FROM suspects ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	assert.Equal(t, 10, rs.RowCount)
	assert.False(t, rs.Truncated)
	assert.Equal(t, int64(3), rs.Rows[2][0])
	assert.Equal(t, "Viktor Petrov", rs.Rows[2][1])
}

func TestExecuteCapsDisplayRows(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 3)

	rs, err := e.Execute(context.Background(), "SELECT * FROM suspects ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.RowCount)
	assert.True(t, rs.Truncated)

	full, err := e.ExecuteUncapped(context.Background(), "SELECT * FROM suspects ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, 10, full.RowCount)
	assert.False(t, full.Truncated)

	capped := e.DisplayView(full)
	assert.Equal(t, 3, capped.RowCount)
	assert.True(t, capped.Truncated)
	// the uncapped result is untouched
	assert.Equal(t, 10, full.RowCount)
}

func TestExecuteTrailingSemicolon(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	rs, err := e.Execute(context.Background(), "SELECT COUNT(*) FROM suspects;")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rs.Rows[0][0])
}

func TestExecuteErrorMapping(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	tests := []struct {
		name    string
		query   string
		kind    string
		message string
	}{
		{"unknown table", "SELECT * FROM witnesses", ErrKindUnknownObject, "Table not found"},
		{"unknown column", "SELECT alibi FROM suspects", ErrKindUnknownObject, "Column not found"},
		{"syntax error", "SELECT FROM WHERE", ErrKindSyntax, "syntax error"},
		{"write blocked", "DELETE FROM suspects", ErrKindOther, "Query failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Execute(context.Background(), tt.query)
			require.Error(t, err)

			var execErr *ExecError
			require.True(t, errors.As(err, &execErr))
			assert.Equal(t, tt.kind, execErr.Kind)
			assert.Contains(t, execErr.Message, tt.message)
		})
	}
}

func TestUnknownTableNameExtraction(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	_, err := e.Execute(context.Background(), "SELECT * FROM witnesses")
	require.Error(t, err)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	// the bare table name, with no driver errno suffix
	assert.Contains(t, execErr.Message, "Table not found: witnesses.")
	assert.NotContains(t, execErr.Message, "(")
}

func TestExecuteTimeout(t *testing.T) {
	e := newTestExecutor(t, 100*time.Millisecond, 1000)

	// unbounded recursive CTE; only the deadline stops it
	_, err := e.ExecuteUncapped(context.Background(),
		"WITH RECURSIVE cnt(x) AS (SELECT 1 UNION ALL SELECT x+1 FROM cnt) SELECT COUNT(*) FROM cnt")
	require.Error(t, err)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, ErrKindTimeout, execErr.Kind)
	assert.Contains(t, execErr.Message, "timed out")
}

func TestSetLimitsHotReload(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 2)

	rs, err := e.Execute(context.Background(), "SELECT * FROM suspects")
	require.NoError(t, err)
	assert.Equal(t, 2, rs.RowCount)

	e.SetLimits(5*time.Second, 1000)

	rs, err = e.Execute(context.Background(), "SELECT * FROM suspects")
	require.NoError(t, err)
	assert.Equal(t, 10, rs.RowCount)
}

func TestTableSchema(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	cols, err := e.TableSchema(context.Background(), "suspects")
	require.NoError(t, err)
	require.Len(t, cols, 6)
	assert.Equal(t, "id", cols[0].Name)
	assert.True(t, cols[0].PrimaryKey)
	assert.Equal(t, "name", cols[1].Name)
	assert.False(t, cols[1].Nullable)

	_, err = e.TableSchema(context.Background(), "witnesses")
	require.Error(t, err)

	_, err = e.TableSchema(context.Background(), "suspects; DROP TABLE suspects")
	require.Error(t, err)
}

func TestSampleData(t *testing.T) {
	e := newTestExecutor(t, 5*time.Second, 1000)

	rs, err := e.SampleData(context.Background(), "locations", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, rs.RowCount)

	// out-of-range limits fall back to the default
	rs, err = e.SampleData(context.Background(), "locations", 500)
	require.NoError(t, err)
	assert.Equal(t, 5, rs.RowCount)
}
