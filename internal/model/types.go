// Package model defines the canonical data types used throughout gapview.
// Rows are kept as text exactly as they were loaded; numeric columns are
// parsed on demand by the components that need them.
package model

import (
	"errors"
	"sort"
	"time"
)

// ─── Columns ──────────────────────────────────────────────────────────────────

// Column names of the Gapminder-style input dataset.
const (
	ColLocation       = "location"
	ColTime           = "time"
	ColPopulation     = "pop_mlns"
	ColFertilityRate  = "fertility_rate"
	ColLifeExpectancy = "life_expectancy"
)

// RequiredColumns lists every column the two views read.
var RequiredColumns = []string{
	ColLocation,
	ColTime,
	ColPopulation,
	ColFertilityRate,
	ColLifeExpectancy,
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// Sentinel errors. Callers wrap them with context and test with errors.Is.
var (
	// ErrEmptyDataset is returned when an extent or projection is requested
	// over a subset with no usable rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidValue is returned for NaN or infinite numbers.
	ErrInvalidValue = errors.New("invalid value")
	// ErrParse is returned when a cell that must be numeric is not.
	ErrParse = errors.New("parse error")
	// ErrSchema is returned when an expected column is absent.
	ErrSchema = errors.New("schema error")
)

// IsDatasetError reports whether err aborts a whole render (as opposed to a
// row-level error, which only drops the offending row).
func IsDatasetError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) || errors.Is(err, ErrSchema)
}

// ─── Rows ─────────────────────────────────────────────────────────────────────

// Row is a single record: column name → raw text value.
// A Row is never mutated after load.
type Row map[string]string

// Get returns the raw value of col and whether the column is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Dataset is the ordered sequence of rows loaded once at startup and shared
// read-only by every view.
type Dataset struct {
	Source   string    `json:"source"`
	Columns  []string  `json:"columns"`
	Rows     []Row     `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether col appears in the dataset header.
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of cols absent from the header.
func (d *Dataset) MissingColumns(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Categories returns the sorted set of unique values of col across rows.
// Rows without the column are ignored. This is the selector's option list.
func Categories(rows []Row, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v, ok := r.Get(col)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by the listing commands.
// The Data field holds the typed payload; Kind identifies what is in it.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindLocations = "locations"
	KindColumns   = "columns"
	KindRender    = "render"
)

// ColumnSummary describes one column of a dataset for `describe`.
type ColumnSummary struct {
	Column  string  `json:"column"`
	Rows    int     `json:"rows"`
	Numeric int     `json:"numeric"`
	Missing int     `json:"missing"`
	Invalid int     `json:"invalid"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std"`
	Median  float64 `json:"median"`
}

// LocationSummary is one selector value with the span of rows behind it.
type LocationSummary struct {
	Location  string  `json:"location"`
	Rows      int     `json:"rows"`
	FirstTime float64 `json:"first_time"`
	LastTime  float64 `json:"last_time"`
}

// RenderOutput records one file written by a render.
type RenderOutput struct {
	View  string `json:"view"`
	Path  string `json:"path"`
	Marks int    `json:"marks"`
	Error string `json:"error,omitempty"`
}
