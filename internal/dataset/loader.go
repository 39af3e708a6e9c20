// Package dataset loads the tabular input gapview renders. Sources may be a
// local file, standard input ("-") or an http(s) URL, in CSV (with a header
// row), as a JSON array of objects, or as JSONL (one object per line).
// Remote fetches are context-aware, respect a rate limiter, and retry on
// transient errors (429, 5xx).
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/derickschaefer/gapview/internal/model"
)

const maxRetries = 4

// Format is a dataset encoding.
type Format string

const (
	FormatAuto  Format = ""
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatCSV, FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q (valid: csv, json, jsonl)", s)
	}
}

// Loader reads datasets from files and URLs.
type Loader struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
	backoff    time.Duration

	// Format forces the input encoding; FormatAuto sniffs it.
	Format Format
	// Stdin is read when the source is "-". Defaults to os.Stdin.
	Stdin  io.Reader
}

// NewLoader creates a Loader with the given HTTP timeout and request rate.
func NewLoader(timeout time.Duration, ratePerSec float64, debug bool) *Loader {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		debug:      debug,
		backoff:    500 * time.Millisecond,
	}
}

// SetBackoff changes the base retry delay. Tests use it to keep retries fast.
func (l *Loader) SetBackoff(d time.Duration) {
	l.backoff = d
}

// Load reads src and returns the dataset with its header and rows.
//
// Missing required columns are not an error here: they are returned as
// warnings so that the views can draw their own error state for them.
func (l *Loader) Load(ctx context.Context, src string) (*model.Dataset, []string, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil, errors.New("no data source: pass --data or set GAPVIEW_DATA")
	}

	var (
		body []byte
		hint string
		err  error
	)
	switch {
	case src == "-":
		body, err = l.readStdin()
	case isURL(src):
		body, hint, err = l.fetch(ctx, src)
	default:
		body, err = os.ReadFile(src)
		hint = filepath.Ext(src)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", src, err)
	}

	format := l.Format
	if format == FormatAuto {
		format = sniff(hint, body)
	}

	var ds *model.Dataset
	switch format {
	case FormatJSON:
		ds, err = decodeJSON(bytes.NewReader(body))
	case FormatJSONL:
		ds, err = decodeJSONL(bytes.NewReader(body))
	default:
		ds, err = decodeCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", src, err)
	}
	ds.Source = src
	ds.LoadedAt = time.Now()

	var warnings []string
	if missing := ds.MissingColumns(model.RequiredColumns...); len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("missing column(s): %s", strings.Join(missing, ", ")))
	}
	if ds.Len() == 0 {
		warnings = append(warnings, "dataset has no rows")
	}
	slog.Debug("dataset loaded", "source", src, "format", string(format), "rows", ds.Len(), "columns", len(ds.Columns))
	return ds, warnings, nil
}

// ─── Decoding ─────────────────────────────────────────────────────────────────

func sniff(hint string, body []byte) Format {
	h := strings.ToLower(hint)
	switch {
	case strings.Contains(h, "jsonl"), strings.Contains(h, "ndjson"):
		return FormatJSONL
	case strings.Contains(h, "json"):
		return FormatJSON
	case strings.Contains(h, "csv"):
		return FormatCSV
	}
	// The first line that is neither blank nor a "//" comment decides.
	for _, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimLeft(line, " \t\r\ufeff")
		if len(line) == 0 || bytes.HasPrefix(line, []byte("//")) {
			continue
		}
		switch line[0] {
		case '[':
			return FormatJSON
		case '{':
			return FormatJSONL
		}
		return FormatCSV
	}
	return FormatCSV
}

func decodeCSV(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	ds := &model.Dataset{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		// Short records leave trailing columns absent so that they surface
		// as row-level parse errors rather than empty strings.
		row := make(model.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func decodeJSON(r io.Reader) (*model.Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	seen := make(map[string]bool)
	ds := &model.Dataset{Rows: make([]model.Row, 0, len(raw))}
	for _, obj := range raw {
		row := make(model.Row, len(obj))
		for k, v := range obj {
			s, ok := cellText(v)
			if !ok {
				continue
			}
			row[k] = s
			if !seen[k] {
				seen[k] = true
				ds.Columns = append(ds.Columns, k)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	sort.Strings(ds.Columns)
	return ds, nil
}

// cellText converts a decoded JSON value to the text form rows keep.
// Nulls are treated as absent.
func cellText(v interface{}) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

func isURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// fetch performs a GET request for src, handling rate limiting and retries.
// It returns the body and a format hint from the Content-Type or URL path.
func (l *Loader) fetch(ctx context.Context, src string) ([]byte, string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}
	if l.debug {
		slog.Debug("dataset request", "url", src)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * l.backoff
			slog.Debug("retrying after backoff", "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, "", fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "text/csv, application/json")
		req.Header.Set("User-Agent", "gapview-cli/1.0")

		resp, err := l.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			lastErr = fmt.Errorf("http: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading body: %w", err)
			continue
		}

		if l.debug {
			slog.Debug("dataset response", "status", resp.StatusCode, "bytes", len(body))
		}

		// Retry on server errors and rate limiting
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))
		}

		hint := resp.Header.Get("Content-Type")
		if hint == "" || strings.HasPrefix(hint, "text/plain") || strings.HasPrefix(hint, "application/octet-stream") {
			hint = filepath.Ext(req.URL.Path)
		}
		return body, hint, nil
	}
	return nil, "", fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
