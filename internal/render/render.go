// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatMD:
		return true
	}
	return false
}

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// ─── Tabular view ─────────────────────────────────────────────────────────────

// tabulate flattens a result payload into a header and string rows. Every
// text format except JSON renders from this, so the formats agree. With human
// set, counts carry thousands separators.
func tabulate(result *model.Result, human bool) ([]string, [][]string, error) {
	count := strconv.Itoa
	if human {
		count = util.FormatThousands
	}
	switch data := result.Data.(type) {
	case []model.LocationSummary:
		header := []string{"LOCATION", "ROWS", "FIRST", "LAST"}
		rows := make([][]string, len(data))
		for i, l := range data {
			rows[i] = []string{l.Location, count(l.Rows), formatValue(l.FirstTime), formatValue(l.LastTime)}
		}
		return header, rows, nil
	case []model.ColumnSummary:
		header := []string{"COLUMN", "ROWS", "NUMERIC", "MISSING", "INVALID", "MIN", "MAX", "MEAN", "STD", "MEDIAN"}
		rows := make([][]string, len(data))
		for i, c := range data {
			rows[i] = []string{
				c.Column,
				count(c.Rows),
				count(c.Numeric),
				count(c.Missing),
				count(c.Invalid),
				formatValue(c.Min),
				formatValue(c.Max),
				formatValue(c.Mean),
				formatValue(c.StdDev),
				formatValue(c.Median),
			}
		}
		return header, rows, nil
	case []model.RenderOutput:
		header := []string{"VIEW", "PATH", "MARKS", "ERROR"}
		rows := make([][]string, len(data))
		for i, o := range data {
			rows[i] = []string{o.View, o.Path, count(o.Marks), o.Error}
		}
		return header, rows, nil
	default:
		return nil, nil, fmt.Errorf("unexpected data type %T for %s", result.Data, result.Kind)
	}
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonSafe(result))
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// renderJSONL writes one JSON object per item, keyed by lower-cased header.
func renderJSONL(w io.Writer, result *model.Result) error {
	header, rows, err := tabulate(result, false)
	if err != nil {
		return json.NewEncoder(w).Encode(jsonSafe(result).Data)
	}
	enc := json.NewEncoder(w)
	for _, r := range rows {
		obj := make(map[string]string, len(header))
		for i, h := range header {
			obj[strings.ToLower(h)] = r[i]
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	header, rows, err := tabulate(result, true)
	if err != nil {
		// Fallback: JSON
		return renderJSON(w, result)
	}
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	tw.AppendBulk(rows)
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	header, rows, err := tabulate(result, false)
	if err != nil {
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(jsonSafe(result).Data)
		_ = cw.Write([]string{string(b)})
	} else {
		lower := make([]string, len(header))
		for i, h := range header {
			lower[i] = strings.ToLower(h)
		}
		_ = cw.Write(lower)
		for _, r := range rows {
			_ = cw.Write(r)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	header, rows, err := tabulate(result, true)
	if err != nil {
		return renderJSON(w, result)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "----"
	}
	fmt.Fprintf(w, "|%s|\n", strings.Join(sep, "|"))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = mdEscape(c)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatValue formats a summary number for display. Missing values (NaN)
// render as ".".
func formatValue(v float64) string {
	return util.FormatValue(v)
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// jsonSafe returns a copy of result whose NaN summary bounds are replaced by
// zero, since encoding/json rejects NaN.
func jsonSafe(result *model.Result) *model.Result {
	out := *result
	switch data := result.Data.(type) {
	case []model.ColumnSummary:
		cp := make([]model.ColumnSummary, len(data))
		for i, c := range data {
			for _, v := range []*float64{&c.Min, &c.Max, &c.Mean, &c.StdDev, &c.Median} {
				if math.IsNaN(*v) {
					*v = 0
				}
			}
			cp[i] = c
		}
		out.Data = cp
	case []model.LocationSummary:
		cp := make([]model.LocationSummary, len(data))
		for i, l := range data {
			if math.IsNaN(l.FirstTime) || math.IsNaN(l.LastTime) {
				l.FirstTime, l.LastTime = 0, 0
			}
			cp[i] = l
		}
		out.Data = cp
	}
	return &out
}
