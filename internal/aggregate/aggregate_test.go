package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

var day = time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

// columnTable builds a table with one row per value; Missing values leave the field absent
func columnTable(column string, vals ...model.Value) *table.ResponseTable {
	rows := make([]model.Response, len(vals))
	for i, v := range vals {
		rows[i] = model.Response{ID: fmt.Sprintf("r%d", i), CreatedAt: day, Fields: map[string]model.Value{}}
		if !v.IsMissing() {
			rows[i].Fields[column] = v
		}
	}
	return table.New([]string{column}, rows, day)
}

func S(s string) model.Value { return model.Scalar(s) }

var M = model.Missing()

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 50.0, Percentage(2, 4))
	assert.InDelta(t, 33.333, Percentage(1, 3), 0.001)
}

func TestCategoricalCounts(t *testing.T) {
	tbl := columnTable("year", S("Second"), S("Final"), M, S("Final"), S(""), S("Second"), model.List("x", "y"))

	res := CategoricalCounts(tbl, "year")
	assert.Equal(t, 6, res.TotalNonMissing)
	assert.Equal(t, res.TotalNonMissing, res.Counts.Total(), "counts sum to non-missing rows")
	assert.Equal(t, []model.Entry{
		{Key: "Second", Count: 2}, {Key: "Final", Count: 2}, {Key: "", Count: 1}, {Key: "x,y", Count: 1},
	}, res.Counts.Ranked())

	top, _ := res.Counts.MostCommon()
	assert.Equal(t, "Second", top.Key, "first-encountered wins ties")
}

func TestCategoricalCounts_AbsentColumn(t *testing.T) {
	tbl := columnTable("year", S("First"))
	res := CategoricalCounts(tbl, "course")
	assert.Equal(t, 0, res.TotalNonMissing)
	assert.Equal(t, 0, res.Counts.Len())
}

func TestScaleMean(t *testing.T) {
	tests := []struct {
		name    string
		vals    []model.Value
		mean    float64
		count   int
		hasData bool
	}{
		{"plain", []model.Value{S("4"), S("2"), S("3")}, 3, 3, true},
		{"skips non-coercible", []model.Value{S("5"), S("n/a"), S(""), M, S("3")}, 4, 2, true},
		{"whitespace tolerated", []model.Value{S(" 2 "), S("4.0")}, 3, 2, true},
		{"zero-valued data is data", []model.Value{S("0"), S("0")}, 0, 2, true},
		{"all missing", []model.Value{M, M}, 0, 0, false},
		{"all non-coercible", []model.Value{S("agree"), S("NaN"), S("Inf"), model.List("3")}, 0, 0, false},
		{"empty table", nil, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ScaleMean(columnTable("boys-club", tt.vals...), "boys-club")
			assert.InDelta(t, tt.mean, res.Mean, 1e-9)
			assert.Equal(t, tt.count, res.Count)
			assert.Equal(t, tt.hasData, res.HasData)
		})
	}
}

func TestMultiselectCounts(t *testing.T) {
	tbl := columnTable("help", S("a,b"), model.List("a"), M, S("c"))

	res := MultiselectCounts(tbl, "help")
	assert.Equal(t, 3, res.TotalRowsConsidered)
	assert.Equal(t, 2, res.Counts.Count("a"))
	assert.Equal(t, 1, res.Counts.Count("b"))
	assert.Equal(t, 1, res.Counts.Count("c"))
	assert.Equal(t, 3, res.Counts.Len())
}

func TestMultiselectCounts_TrimsAndDropsEmptyTokens(t *testing.T) {
	tbl := columnTable("help", S(" women-mentors , late-night-access,"), S(""), model.List())

	res := MultiselectCounts(tbl, "help")
	assert.Equal(t, 3, res.TotalRowsConsidered, "empty answers still count as considered")
	assert.Equal(t, []model.Entry{
		{Key: "women-mentors", Count: 1},
		{Key: "late-night-access", Count: 1},
	}, res.Counts.Entries())
}

func TestMatchShare(t *testing.T) {
	tbl := columnTable("judged", S("multiple"), S("never"), S("sometimes"), S("never"))
	res := MatchShare(tbl, "judged", "multiple", "sometimes")
	assert.True(t, res.HasData)
	assert.Equal(t, 50.0, res.Percentage)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 4, res.Total)

	none := MatchShare(columnTable("judged", M, M), "judged", "multiple")
	assert.False(t, none.HasData)
	assert.Equal(t, 0.0, none.Percentage)
}

func TestDistinctCountAndScalarTexts(t *testing.T) {
	tbl := columnTable("course", S("CSE"), S("IT"), M, S("CSE"))
	assert.Equal(t, 2, DistinctCount(tbl, "course"))
	assert.Equal(t, []string{"CSE", "IT", "CSE"}, ScalarTexts(tbl, "course"))
	assert.Nil(t, ScalarTexts(tbl, "absent"))
}

func TestDailyCounts(t *testing.T) {
	rows := []model.Response{
		{ID: "a", CreatedAt: day.Add(26 * time.Hour)},
		{ID: "b", CreatedAt: day},
		{ID: "c", CreatedAt: day.Add(2 * time.Hour)},
	}
	tbl := table.New(nil, rows, day)
	assert.Equal(t, []DayCount{
		{Day: "2025-03-08", Count: 2},
		{Day: "2025-03-09", Count: 1},
	}, DailyCounts(tbl))
}
