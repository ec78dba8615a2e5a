// Package core holds the bill domain model and the lenient numeric
// parsing rules used by inline edits and the import adapters.
//
// Inline edits never fail: text that does not parse becomes 0 so the
// editing experience stays non-blocking. Import adapters are stricter and
// drop rows instead.
package core

import (
	"strconv"
	"strings"
)

// CoerceNumber parses free-typed text from an editable field into a
// number. Leading currency markers and a trailing percent sign are
// ignored, and like a browser's parseFloat it accepts the longest numeric
// prefix of the remaining text. Anything unusable yields 0.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	end := 0
	seenDot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
			end = i + 1
		case (r == '-' || r == '+') && i == 0:
			end = i + 1
		default:
			break scan
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || !IsFinite(f) {
		return 0
	}
	return f
}

// ParseQty parses a spreadsheet quantity cell. Returns false when the
// trimmed cell is not a finite number; the row is then dropped.
func ParseQty(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// CleanPrice parses a spreadsheet price cell after stripping everything
// that is not a digit, '.' or '-', so "₹160" and "Rs 1,600.50" both
// survive. Returns false when nothing numeric remains.
func CleanPrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// SumQuantityExpr evaluates an additive quantity expression from the
// vision service, e.g. "1+1" means two separate tallies on one line.
// Each segment is parsed as an integer; segments that fail count as 0.
func SumQuantityExpr(s string) int {
	total := 0
	for _, part := range strings.Split(s, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil {
			total += n
		}
	}
	return total
}
