// Package aggregate computes per-column statistics over a ResponseTable.
// Every function accepts columns that are absent from the table and returns
// an explicit zero or no-data result for them.
package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

// CategoricalResult holds value counts for a categorical column
type CategoricalResult struct {
	Counts          *model.FrequencyTable `json:"counts"`
	TotalNonMissing int                   `json:"totalNonMissing"`
}

// MeanResult is the outcome of scale_mean. HasData is false when no value coerced.
type MeanResult struct {
	Mean    float64 `json:"mean"`
	Count   int     `json:"count"`
	HasData bool    `json:"hasData"`
}

// MultiselectResult holds flattened option counts
type MultiselectResult struct {
	Counts              *model.FrequencyTable `json:"counts"`
	TotalRowsConsidered int                   `json:"totalRowsConsidered"`
}

// ShareResult is the share of non-missing values matching a set
type ShareResult struct {
	Percentage float64 `json:"percentage"`
	Matched    int     `json:"matched"`
	Total      int     `json:"total"`
	HasData    bool    `json:"hasData"`
}

// DayCount is the number of responses created on one calendar day (UTC)
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Percentage returns 100*count/denominator, or 0 for a zero denominator
func Percentage(count, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return 100 * float64(count) / float64(denominator)
}

// CategoricalCounts counts distinct non-missing values of column.
// Lists are grouped under their comma-joined text.
func CategoricalCounts(t *table.ResponseTable, column string) CategoricalResult {
	c := model.NewFrequencyCounter()
	total := 0
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			continue
		}
		c.Add(v.Text(), 1)
		total++
	}
	return CategoricalResult{Counts: c.Table(), TotalNonMissing: total}
}

// ScaleMean averages the values of column that coerce to a finite number.
// Values that fail coercion are skipped, not counted as zero.
func ScaleMean(t *table.ResponseTable, column string) MeanResult {
	sum := 0.0
	n := 0
	for _, v := range t.Column(column) {
		f, ok := coerce(v)
		if !ok {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return MeanResult{}
	}
	return MeanResult{Mean: sum / float64(n), Count: n, HasData: true}
}

func coerce(v model.Value) (float64, bool) {
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MultiselectCounts flattens list values and comma-joined strings into option counts.
// The denominator for percentages is TotalRowsConsidered, the number of non-missing rows.
func MultiselectCounts(t *table.ResponseTable, column string) MultiselectResult {
	c := model.NewFrequencyCounter()
	considered := 0
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			continue
		}
		considered++
		for _, opt := range Options(v) {
			c.Add(opt, 1)
		}
	}
	return MultiselectResult{Counts: c.Table(), TotalRowsConsidered: considered}
}

// Options returns the selected options of one multiselect value.
// Scalar strings are split on commas; tokens are trimmed and empty tokens dropped.
func Options(v model.Value) []string {
	var raw []string
	switch v.Kind() {
	case model.KindList:
		raw, _ = v.Items()
	case model.KindScalar:
		s, _ := v.Str()
		raw = strings.Split(s, ",")
	default:
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if tok := strings.TrimSpace(r); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// MatchShare computes the percentage of non-missing scalar values equal to one of matches
func MatchShare(t *table.ResponseTable, column string, matches ...string) ShareResult {
	want := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		want[m] = struct{}{}
	}
	res := ShareResult{}
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			continue
		}
		res.Total++
		if _, ok := want[v.Text()]; ok {
			res.Matched++
		}
	}
	if res.Total == 0 {
		return res
	}
	res.HasData = true
	res.Percentage = Percentage(res.Matched, res.Total)
	return res
}

// DistinctCount counts the distinct non-missing values of column
func DistinctCount(t *table.ResponseTable, column string) int {
	return CategoricalCounts(t, column).Counts.Len()
}

// ScalarTexts returns the non-missing values of column as text, in row order
func ScalarTexts(t *table.ResponseTable, column string) []string {
	var out []string
	for _, v := range t.Column(column) {
		if v.IsMissing() {
			continue
		}
		out = append(out, v.Text())
	}
	return out
}

// DailyCounts buckets rows by createdAt calendar day, ascending
func DailyCounts(t *table.ResponseTable) []DayCount {
	counts := make(map[string]int)
	for _, r := range t.Rows() {
		counts[r.CreatedAt.UTC().Format(time.DateOnly)]++
	}
	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
