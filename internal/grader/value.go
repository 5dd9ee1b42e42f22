package grader

import (
	"math"
	"strconv"
	"strings"
)

// Absolute tolerance when both values parse as numbers.
const numericTolerance = 1e-4

// equalValues reports whether two cell values count as a match.
// A blank cell (absent, or whitespace-only) matches another blank cell:
// "no answer" is still graded against an equally empty reference.
// Numeric values compare within a small absolute tolerance so that formatting
// differences (e.g. "0.50" vs "0.5") don't fail the check. Text compares
// case-insensitively after trimming.
func equalValues(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" && b == "" {
		return true
	}
	if af, aok := parseNumber(a); aok {
		if bf, bok := parseNumber(b); bok {
			return math.Abs(af-bf) < numericTolerance
		}
	}
	return strings.EqualFold(a, b)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
