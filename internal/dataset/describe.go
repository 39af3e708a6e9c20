package dataset

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/util"
)

// Describe summarises every column of ds: how many cells parse as numbers,
// how many are absent, how many are present but not numeric, and the numeric
// extent and moments. Columns are reported in header order. The numeric
// fields are NaN for a column with no numeric cells; StdDev is NaN with
// fewer than two.
func Describe(ds *model.Dataset) []model.ColumnSummary {
	out := make([]model.ColumnSummary, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		nan := math.NaN()
		s := model.ColumnSummary{Column: col, Rows: ds.Len(), Min: nan, Max: nan, Mean: nan, StdDev: nan, Median: nan}
		var values []float64
		for _, r := range ds.Rows {
			raw, ok := r.Get(col)
			if !ok || raw == "" {
				s.Missing++
				continue
			}
			v, err := util.ParseNumber(raw)
			if err != nil {
				s.Invalid++
				continue
			}
			values = append(values, v)
		}
		s.Numeric = len(values)
		if ext, err := scale.ExtentOf(values); err == nil {
			s.Min, s.Max = ext.Min, ext.Max
			s.Mean, s.StdDev, s.Median = moments(values)
		}
		out = append(out, s)
	}
	return out
}

func moments(values []float64) (mean, std, median float64) {
	sort.Float64s(values)
	sample := stats.Sample{Xs: values, Sorted: true}
	mean = sample.Mean()
	std = math.NaN()
	if len(values) > 1 {
		std = sample.StdDev()
	}
	return mean, std, sample.Quantile(0.5)
}

// Locations returns one summary per distinct value of col, sorted by value,
// with the row count and the time span of that value's rows. FirstTime and
// LastTime are NaN when no time cell parses.
func Locations(ds *model.Dataset, col string) []model.LocationSummary {
	idx := make(map[string]int)
	times := make(map[string][]float64)
	for _, r := range ds.Rows {
		v, ok := r.Get(col)
		if !ok {
			continue
		}
		idx[v]++
		if t, err := util.ParseColumn(r, model.ColTime); err == nil {
			times[v] = append(times[v], t)
		}
	}

	out := make([]model.LocationSummary, 0, len(idx))
	for _, loc := range model.Categories(ds.Rows, col) {
		s := model.LocationSummary{Location: loc, Rows: idx[loc], FirstTime: math.NaN(), LastTime: math.NaN()}
		if ext, err := scale.ExtentOf(times[loc]); err == nil {
			s.FirstTime, s.LastTime = ext.Min, ext.Max
		}
		out = append(out, s)
	}
	return out
}
