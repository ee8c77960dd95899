package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsSelectQueries(t *testing.T) {
	v := NewSQLValidator(5000)

	queries := []string{
		"SELECT * FROM suspects",
		"select name, age from suspects where age > 30",
		"  SELECT 1  ",
		"SELECT * FROM suspects;",
		"WITH recent AS (SELECT * FROM phone_records) SELECT * FROM recent",
		"with t as (select 1) select * from t",
		"/* case notes */ SELECT * FROM suspects",
		"SELECT * FROM suspects -- check everyone",
		// "dropdown" contains a blocked keyword as a substring only
		"SELECT dropdown FROM suspects",
		"SELECT created_at FROM suspects",
		"SELECT * FROM suspects WHERE occupation = 'Updater'",
	}

	for _, q := range queries {
		assert.Nil(t, v.Validate(q), "query should be accepted: %s", q)
	}
}

func TestValidateRejections(t *testing.T) {
	v := NewSQLValidator(5000)

	tests := []struct {
		name   string
		query  string
		reason string
	}{
		{"empty", "", "Query cannot be empty"},
		{"whitespace only", "   \n\t  ", "Query cannot be empty"},
		{"not a select", "UPDATE suspects SET age = 1", "Only SELECT queries are allowed"},
		{"mixed case keyword", "UpDaTe suspects SET age = 1", "Only SELECT queries are allowed"},
		{"leading parenthesis", "(SELECT 1)", "Only SELECT queries are allowed"},
		{"blocked keyword after select", "SELECT * FROM suspects; DROP TABLE suspects", "Forbidden keyword detected: DROP"},
		{"delete inside select", "SELECT * FROM suspects WHERE id IN (DELETE FROM suspects)", "Forbidden keyword detected: DELETE"},
		{"pragma", "SELECT * FROM suspects UNION SELECT 1 PRAGMA table_info(suspects)", "Forbidden keyword detected: PRAGMA"},
		{"stacked statements", "SELECT 1; SELECT 2", "Multiple statements are not allowed"},
		{"load_file", "SELECT LOAD_FILE('/etc/passwd')", "LOAD_FILE is not allowed"},
		{"into outfile", "SELECT * FROM suspects INTO OUTFILE '/tmp/x'", "INTO OUTFILE is not allowed"},
		{"sleep probe", "SELECT SLEEP(10)", "SLEEP is not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(tt.query)
			require.NotNil(t, verr)
			assert.Contains(t, verr.Reason, tt.reason)
		})
	}
}

func TestValidateLengthLimit(t *testing.T) {
	v := NewSQLValidator(100)

	long := "SELECT * FROM suspects WHERE name = '" + strings.Repeat("x", 100) + "'"
	verr := v.Validate(long)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Reason, "Maximum 100 characters")

	assert.Nil(t, v.Validate("SELECT * FROM suspects"))
}

func TestValidateCommentedKeywordsAreHarmless(t *testing.T) {
	v := NewSQLValidator(5000)

	// Keywords inside comments never execute, so they are not grounds for
	// rejection once the comment is stripped for analysis.
	assert.Nil(t, v.Validate("SELECT * FROM suspects -- do not DROP this"))
	assert.Nil(t, v.Validate("SELECT * FROM suspects /* DELETE nothing */"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1;", "SELECT 1"},
		{"SELECT 1", "SELECT 1"},
		{"  SELECT 1 ;  ", "SELECT 1"},
		{"SELECT *\r\nFROM suspects\r", "SELECT *\nFROM suspects"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in))
	}

	// idempotent
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(Sanitize(tt.in)))
	}
}
