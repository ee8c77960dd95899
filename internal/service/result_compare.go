package service

import (
	"fmt"
	"math"
	"strings"
)

// OrderPolicy controls whether row order is significant when judging a level
// answer.
type OrderPolicy int

const (
	// OrderAny compares results as multisets: duplicate counts matter, row
	// order does not.
	OrderAny OrderPolicy = iota
	// OrderExact compares results positionally.
	OrderExact
)

// normalizeValue maps a raw scanned scalar to its comparable form: nil stays
// nil, floats round to 2 decimals, everything else passes through. The
// rounding makes aggregates computed via different arithmetic paths compare
// equal.
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		r := math.Round(x*100) / 100
		if r == 0 {
			r = 0 // squash negative zero
		}
		return r
	case float32:
		return normalizeValue(float64(x))
	case []byte:
		return string(x)
	default:
		return v
	}
}

// rowKey encodes a normalized row as a type-tagged string so that the string
// "1" and the integer 1 never collide.
func rowKey(row []interface{}) string {
	var b strings.Builder
	for _, v := range row {
		switch x := normalizeValue(v).(type) {
		case nil:
			b.WriteString("n;")
		case bool:
			fmt.Fprintf(&b, "b:%t;", x)
		case int:
			fmt.Fprintf(&b, "i:%d;", x)
		case int64:
			fmt.Fprintf(&b, "i:%d;", x)
		case float64:
			fmt.Fprintf(&b, "f:%.2f;", x)
		case string:
			fmt.Fprintf(&b, "s:%q;", x)
		default:
			fmt.Fprintf(&b, "v:%v;", x)
		}
	}
	return b.String()
}

// compareResults reports whether two row sequences are equal under the given
// policy. Column names never participate; only cell values and, for
// OrderExact, their order.
func compareResults(player, expected [][]interface{}, policy OrderPolicy) bool {
	if len(player) != len(expected) {
		return false
	}

	if policy == OrderExact {
		for i := range player {
			if rowKey(player[i]) != rowKey(expected[i]) {
				return false
			}
		}
		return true
	}

	counts := make(map[string]int, len(expected))
	for _, row := range expected {
		counts[rowKey(row)]++
	}
	for _, row := range player {
		k := rowKey(row)
		counts[k]--
		if counts[k] < 0 {
			return false
		}
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// diffSummary classifies a mismatch for feedback messages: which side has
// rows the other lacks.
func diffSummary(player, expected [][]interface{}) (missing, extra bool) {
	expCounts := make(map[string]int, len(expected))
	for _, row := range expected {
		expCounts[rowKey(row)]++
	}
	for _, row := range player {
		expCounts[rowKey(row)]--
	}
	for _, c := range expCounts {
		if c > 0 {
			missing = true
		}
		if c < 0 {
			extra = true
		}
	}
	return missing, extra
}
