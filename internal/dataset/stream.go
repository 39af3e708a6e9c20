package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/derickschaefer/gapview/internal/model"
)

const maxLine = 1024 * 1024

func (l *Loader) readStdin() ([]byte, error) {
	r := l.Stdin
	if r == nil {
		r = os.Stdin
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("no data read from stdin (is it empty?)")
	}
	return body, nil
}

// decodeJSONL reads one JSON object per line. Blank lines and lines starting
// with "//" are skipped; any other line that is not an object is an error
// naming its line number.
func decodeJSONL(r io.Reader) (*model.Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	seen := make(map[string]bool)
	ds := &model.Dataset{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var obj map[string]interface{}
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if obj == nil {
			return nil, fmt.Errorf("line %d: expected an object", lineNum)
		}

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
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	sort.Strings(ds.Columns)
	return ds, nil
}
