package service

import (
	"fmt"
	"regexp"
	"strings"
)

// BlockedKeywords are rejected anywhere in a query as whole words.
var BlockedKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER",
	"CREATE", "TRUNCATE", "GRANT", "REVOKE", "EXEC",
	"EXECUTE", "PRAGMA", "ATTACH", "DETACH", "VACUUM",
	"REINDEX", "REPLACE",
}

var (
	// Comments are stripped for analysis only; the executed text is untouched.
	commentPattern = regexp.MustCompile(`(?s)--[^\n]*|/\*.*?\*/`)

	leadingWordPattern = regexp.MustCompile(`^[A-Za-z]+`)

	// EXECUTE before EXEC so the full keyword is reported.
	blockedPattern = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|CREATE|TRUNCATE|GRANT|REVOKE|EXECUTE|EXEC|PRAGMA|ATTACH|DETACH|VACUUM|REINDEX|REPLACE)\b`)

	suspiciousPatterns = []struct {
		re     *regexp.Regexp
		reason string
	}{
		{regexp.MustCompile(`(?i)INTO\s+OUTFILE`), "INTO OUTFILE is not allowed"},
		{regexp.MustCompile(`(?i)INTO\s+DUMPFILE`), "INTO DUMPFILE is not allowed"},
		{regexp.MustCompile(`(?i)\bLOAD_FILE\b`), "LOAD_FILE is not allowed"},
		{regexp.MustCompile(`(?i)\bBENCHMARK\s*\(`), "BENCHMARK is not allowed"},
		{regexp.MustCompile(`(?i)\bSLEEP\s*\(`), "SLEEP is not allowed"},
	}
)

// ErrKindValidation tags attempts rejected before execution, alongside the
// executor's error kinds.
const ErrKindValidation = "validation"

// ValidationError carries the player-facing rejection reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// SQLValidator gates player queries before anything touches the database.
// It is a pure function over the query text.
type SQLValidator struct {
	maxLength int
}

func NewSQLValidator(maxLength int) *SQLValidator {
	if maxLength <= 0 {
		maxLength = 5000
	}
	return &SQLValidator{maxLength: maxLength}
}

// Validate returns nil for an acceptable query, or a *ValidationError with a
// distinct reason for the first failed check.
func (v *SQLValidator) Validate(query string) *ValidationError {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &ValidationError{Reason: "Query cannot be empty"}
	}

	if len(trimmed) > v.maxLength {
		return &ValidationError{Reason: fmt.Sprintf("Query is too long. Maximum %d characters allowed.", v.maxLength)}
	}

	analyzed := strings.TrimSpace(commentPattern.ReplaceAllString(trimmed, " "))

	lead := strings.ToUpper(leadingWordPattern.FindString(analyzed))
	if lead != "SELECT" && lead != "WITH" {
		return &ValidationError{Reason: "Only SELECT queries are allowed. Your query must start with SELECT or WITH."}
	}

	if kw := blockedPattern.FindString(analyzed); kw != "" {
		return &ValidationError{Reason: fmt.Sprintf("Forbidden keyword detected: %s. Only SELECT queries are allowed.", strings.ToUpper(kw))}
	}

	// A semicolon may only appear as the single trailing character; anything
	// else could stack a second statement.
	if i := strings.IndexByte(trimmed, ';'); i >= 0 && i != len(trimmed)-1 {
		return &ValidationError{Reason: "Multiple statements are not allowed. Please submit one query at a time."}
	}

	for _, p := range suspiciousPatterns {
		if p.re.MatchString(analyzed) {
			return &ValidationError{Reason: p.reason}
		}
	}

	return nil
}

// Sanitize normalizes line endings and drops the trailing semicolon before
// execution.
func Sanitize(query string) string {
	q := strings.ReplaceAll(query, "\r\n", "\n")
	q = strings.ReplaceAll(q, "\r", "\n")
	q = strings.TrimSpace(q)
	q = strings.TrimSuffix(q, ";")
	return strings.TrimSpace(q)
}
