package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/monitoring"
	"go.uber.org/zap"
)

// CheckResult is the verdict for one submitted answer. Result always carries
// the player's own (display-capped) output so the UI can render it.
// FailureKind is for the analytics log only: the validation/execution error
// kind when the query never produced a comparable result, empty otherwise.
type CheckResult struct {
	Correct     bool       `json:"correct"`
	Message     string     `json:"message"`
	Result      *ResultSet `json:"result,omitempty"`
	Hints       []string   `json:"hints,omitempty"`
	NextLevelID int        `json:"next_level,omitempty"`
	FailureKind string     `json:"-"`
}

var successMessages = map[int]string{
	1: "Excellent work, Detective! You've identified the key suspects. The investigation deepens...",
	2: "Great analysis! Those midnight calls are suspicious. Let's dig deeper...",
	3: "You've connected the dots! Now we know who was at the scene.",
	4: "Pattern identified! One suspect was unusually active that night.",
	5: "Follow the money! These large transactions are very suspicious.",
	6: "The alibi is broken! Viktor's movements prove he was at the bank.",
	7: "CASE SOLVED! You've proven the financial conspiracy. Viktor Petrov and his accomplices are caught!",
}

// LevelChecker judges player answers. Each check is independent and
// stateless; progress bookkeeping lives elsewhere.
type LevelChecker struct {
	validator *SQLValidator
	executor  *QueryExecutor
	registry  *levels.Registry
	log       *zap.Logger
}

func NewLevelChecker(validator *SQLValidator, executor *QueryExecutor, registry *levels.Registry, log *zap.Logger) *LevelChecker {
	return &LevelChecker{
		validator: validator,
		executor:  executor,
		registry:  registry,
		log:       log,
	}
}

// Check validates and executes the player's query, executes the level's
// canonical query, and compares the normalized results per the level's order
// policy. The only returned error is util.ErrLevelNotFound; everything the
// player can cause is folded into the CheckResult.
func (c *LevelChecker) Check(ctx context.Context, levelID int, query string) (*CheckResult, error) {
	level, ok := c.registry.Get(levelID)
	if !ok {
		return nil, util.ErrLevelNotFound
	}

	if verr := c.validator.Validate(query); verr != nil {
		monitoring.QueryCounter.WithLabelValues("rejected").Inc()
		monitoring.ObserveCheck(levelID, false)
		return &CheckResult{
			Correct:     false,
			Message:     "Query Error: " + verr.Reason,
			Hints:       errorHints(verr.Reason, &level),
			FailureKind: ErrKindValidation,
		}, nil
	}

	// Comparison must see the full result; the cap only applies to display.
	playerRS, err := c.executor.ExecuteUncapped(ctx, query)
	if err != nil {
		monitoring.ObserveCheck(levelID, false)
		kind := ErrKindOther
		var execErr *ExecError
		if errors.As(err, &execErr) {
			kind = execErr.Kind
		}
		return &CheckResult{
			Correct:     false,
			Message:     "Query Error: " + err.Error(),
			Hints:       errorHints(err.Error(), &level),
			FailureKind: kind,
		}, nil
	}

	expectedRS, err := c.executor.ExecuteUncapped(ctx, level.ExpectedQuery)
	if err != nil {
		// Never the player's fault: the stored canonical query is broken.
		c.log.Error("expected query failed, level misconfigured",
			zap.Int("level_id", levelID),
			zap.Error(err),
		)
		monitoring.ObserveCheck(levelID, false)
		return &CheckResult{
			Correct: false,
			Message: "This level is temporarily unavailable. Please try again later.",
			Result:  c.executor.DisplayView(playerRS),
		}, nil
	}

	policy := OrderAny
	if level.OrderMatters {
		policy = OrderExact
	}

	correct := compareResults(playerRS.Rows, expectedRS.Rows, policy)
	monitoring.ObserveCheck(levelID, correct)

	display := c.executor.DisplayView(playerRS)

	if correct {
		msg, ok := successMessages[levelID]
		if !ok {
			msg = "Level complete!"
		}
		return &CheckResult{
			Correct:     true,
			Message:     msg,
			Result:      display,
			NextLevelID: c.registry.NextID(levelID),
		}, nil
	}

	message := mismatchMessage(playerRS.Rows, expectedRS.Rows, policy)
	return &CheckResult{
		Correct: false,
		Message: message,
		Result:  display,
		Hints:   incorrectHints(message, playerRS, &level),
	}, nil
}

func mismatchMessage(player, expected [][]interface{}, policy OrderPolicy) string {
	if len(player) == 0 && len(expected) > 0 {
		return "Your query returned no results, but there should be matching records."
	}
	if len(player) != len(expected) {
		return fmt.Sprintf("Row count mismatch: Got %d rows, expected %d rows.", len(player), len(expected))
	}
	if policy == OrderExact {
		return "Data or ordering doesn't match expected result."
	}

	missing, extra := diffSummary(player, expected)
	switch {
	case missing && extra:
		return "Some rows are incorrect or missing."
	case missing:
		return "Some expected rows are missing from your result."
	default:
		return "Your result contains extra rows not in the expected answer."
	}
}

// errorHints turns a validation or execution failure into guidance.
func errorHints(errMsg string, level *levels.Level) []string {
	var hints []string
	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "table not found"):
		hints = append(hints, fmt.Sprintf("Available tables for this level: %s", strings.Join(level.TablesUnlocked, ", ")))
	case strings.Contains(lower, "column not found"):
		hints = append(hints, "Check your column names. Use SELECT * FROM table_name to see available columns.")
	case strings.Contains(lower, "syntax error"):
		hints = append(hints, "Check your SQL syntax. Common issues: missing commas, unmatched quotes, typos in keywords.")
	case strings.Contains(lower, "forbidden") || strings.Contains(lower, "not allowed"):
		hints = append(hints, "Only SELECT queries are allowed. You cannot modify the database.")
	}

	hints = append(hints, "Hint: "+level.Hint)
	return hints
}

// incorrectHints covers valid-but-wrong answers.
func incorrectHints(message string, playerRS *ResultSet, level *levels.Level) []string {
	var hints []string

	switch {
	case strings.Contains(message, "no results"):
		hints = append(hints,
			"Your query syntax is correct but the filter conditions may be too restrictive.",
			"Double-check your WHERE clause values.")
	case strings.Contains(message, "Row count mismatch"):
		hints = append(hints,
			"You're on the right track but getting different number of rows.",
			"Review the filter conditions in the objective carefully.")
	default:
		hints = append(hints, "The data doesn't match. Re-read the objective and check your conditions.")
	}

	// Column names never decide the verdict, but a missing expected column is
	// a strong clue about what went wrong.
	if len(level.ExpectedColumns) > 0 && playerRS != nil {
		have := make(map[string]bool, len(playerRS.Columns))
		for _, col := range playerRS.Columns {
			have[strings.ToLower(col)] = true
		}
		for _, want := range level.ExpectedColumns {
			if !have[strings.ToLower(want)] {
				hints = append(hints, "Make sure you're selecting all the required columns.")
				break
			}
		}
	}

	hints = append(hints, "Level hint: "+level.Hint)
	return hints
}
