package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/pkg/monitoring"
	"go.uber.org/zap"
)

// Execution error kinds. Raw driver errors never reach players; each kind maps
// to one friendly message.
const (
	ErrKindSyntax        = "syntax"
	ErrKindUnknownObject = "unknown_object"
	ErrKindTimeout       = "timeout"
	ErrKindOther         = "error"
)

type ExecError struct {
	Kind    string
	Message string
	cause   error
}

func (e *ExecError) Error() string { return e.Message }
func (e *ExecError) Unwrap() error { return e.cause }

// ResultSet is the raw outcome of one query execution. Column names are
// positional; rows hold driver scalars (string, int64, float64, nil).
type ResultSet struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"row_count"`
	ElapsedMs float64         `json:"execution_time"`
	Truncated bool            `json:"truncated"`
}

// ColumnInfo describes one column of a game table for the schema browser.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// The sqlite driver appends its errno to messages, e.g. "no such table:
// witnesses (1)"; that suffix never belongs in player-facing text.
var errnoSuffixPattern = regexp.MustCompile(`\s*\(\d+\)$`)

// QueryExecutor runs validated query text against the read-only crime
// database, bounded by a wall-clock timeout and a display row cap. Limits are
// hot-reloadable, hence the mutex.
type QueryExecutor struct {
	db  *sql.DB
	log *zap.Logger

	mu      sync.RWMutex
	timeout time.Duration
	maxRows int
}

func NewQueryExecutor(db *sql.DB, timeout time.Duration, maxRows int, log *zap.Logger) *QueryExecutor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &QueryExecutor{db: db, log: log, timeout: timeout, maxRows: maxRows}
}

// SetLimits retunes the timeout and row cap, used by config hot reload.
func (e *QueryExecutor) SetLimits(timeout time.Duration, maxRows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
	if maxRows > 0 {
		e.maxRows = maxRows
	}
}

func (e *QueryExecutor) limits() (time.Duration, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.timeout, e.maxRows
}

// Execute runs the query and returns at most the display row cap, flagging
// truncation. Used for ad hoc exploration queries.
func (e *QueryExecutor) Execute(ctx context.Context, query string) (*ResultSet, error) {
	_, maxRows := e.limits()
	return e.run(ctx, query, maxRows)
}

// ExecuteUncapped runs the query with no row cap. Answer comparison must see
// the full result; only the display path is capped.
func (e *QueryExecutor) ExecuteUncapped(ctx context.Context, query string) (*ResultSet, error) {
	return e.run(ctx, query, 0)
}

// DisplayView caps an uncapped result for the player-facing response.
func (e *QueryExecutor) DisplayView(rs *ResultSet) *ResultSet {
	_, maxRows := e.limits()
	if rs == nil || len(rs.Rows) <= maxRows {
		return rs
	}
	capped := *rs
	capped.Rows = rs.Rows[:maxRows]
	capped.RowCount = maxRows
	capped.Truncated = true
	return &capped
}

func (e *QueryExecutor) run(ctx context.Context, query string, limit int) (*ResultSet, error) {
	timeout, _ := e.limits()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	rows, err := e.db.QueryContext(ctx, Sanitize(query))
	if err != nil {
		execErr := e.mapError(err, ctx)
		monitoring.QueryCounter.WithLabelValues(execErr.Kind).Inc()
		return nil, execErr
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, e.mapError(err, ctx)
	}

	rs := &ResultSet{Columns: cols, Rows: [][]interface{}{}}

	for rows.Next() {
		if limit > 0 && len(rs.Rows) >= limit {
			rs.Truncated = true
			break
		}

		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, e.mapError(err, ctx)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}

	if err := rows.Err(); err != nil {
		execErr := e.mapError(err, ctx)
		monitoring.QueryCounter.WithLabelValues(execErr.Kind).Inc()
		return nil, execErr
	}

	rs.RowCount = len(rs.Rows)
	elapsed := time.Since(start)
	rs.ElapsedMs = float64(elapsed.Microseconds()) / 1000.0

	monitoring.QueryCounter.WithLabelValues("ok").Inc()
	monitoring.QueryDuration.Observe(elapsed.Seconds())

	return rs, nil
}

func (e *QueryExecutor) mapError(err error, ctx context.Context) *ExecError {
	timeout, _ := e.limits()

	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &ExecError{
			Kind:    ErrKindTimeout,
			Message: fmt.Sprintf("Query timed out after %s. Try a simpler query.", timeout),
			cause:   err,
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "no such table"):
		table := "unknown"
		if i := strings.LastIndex(msg, ":"); i >= 0 {
			table = strings.TrimSpace(errnoSuffixPattern.ReplaceAllString(msg[i+1:], ""))
		}
		return &ExecError{
			Kind:    ErrKindUnknownObject,
			Message: fmt.Sprintf("Table not found: %s. Check your table name spelling.", table),
			cause:   err,
		}
	case strings.Contains(lower, "no such column"):
		return &ExecError{
			Kind:    ErrKindUnknownObject,
			Message: "Column not found. Check your column names. Use SELECT * FROM table_name to see available columns.",
			cause:   err,
		}
	case strings.Contains(lower, "syntax error"):
		return &ExecError{
			Kind:    ErrKindSyntax,
			Message: "SQL syntax error. Check your query syntax.",
			cause:   err,
		}
	default:
		e.log.Warn("unmapped query error", zap.Error(err))
		return &ExecError{
			Kind:    ErrKindOther,
			Message: "Query failed. Check your SQL and try again.",
			cause:   err,
		}
	}
}

// TableSchema describes a table for the schema browser. The table name is
// interpolated, so it is restricted to a bare identifier first.
func (e *QueryExecutor) TableSchema(ctx context.Context, table string) ([]ColumnInfo, error) {
	if !identPattern.MatchString(table) {
		return nil, &ExecError{Kind: ErrKindUnknownObject, Message: "Invalid table name"}
	}

	timeout, _ := e.limits()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, e.mapError(err, ctx)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, e.mapError(err, ctx)
		}
		cols = append(cols, ColumnInfo{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0,
			PrimaryKey: pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, e.mapError(err, ctx)
	}
	if len(cols) == 0 {
		return nil, &ExecError{Kind: ErrKindUnknownObject, Message: fmt.Sprintf("Table not found: %s. Check your table name spelling.", table)}
	}

	return cols, nil
}

// SampleData returns up to limit rows of a table for preview.
func (e *QueryExecutor) SampleData(ctx context.Context, table string, limit int) (*ResultSet, error) {
	if !identPattern.MatchString(table) {
		return nil, &ExecError{Kind: ErrKindUnknownObject, Message: "Invalid table name"}
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}
	return e.run(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit), limit)
}
