// Package util provides shared utilities: numeric cell parsing, value
// formatting, and error aggregation.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/derickschaefer/gapview/internal/model"
)

// ─── Number Parsing ───────────────────────────────────────────────────────────

// ParseNumber parses a numeric cell.
// Surrounding whitespace is ignored. Empty cells, non-numeric text, NaN and
// infinities all fail with an error wrapping model.ErrParse.
// Uses strconv.ParseFloat to avoid locale issues.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty cell", model.ErrParse)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", model.ErrParse, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", model.ErrParse, s)
	}
	return v, nil
}

// ParseColumn parses col of row. A row without the column fails with
// model.ErrParse as well; only a column absent from the whole subset is a
// schema error, and that is the caller's decision.
func ParseColumn(row model.Row, col string) (float64, error) {
	raw, ok := row.Get(col)
	if !ok {
		return 0, fmt.Errorf("%w: column %q missing from row", model.ErrParse, col)
	}
	v, err := ParseNumber(raw)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

// ─── Formatting ───────────────────────────────────────────────────────────────

// FormatValue formats a float64 for display, showing "." for NaN.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatThousands renders n with comma thousands separators: 1234567 → "1,234,567".
func FormatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}
