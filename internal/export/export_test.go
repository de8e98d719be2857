package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

var built = time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)

func sample() *table.ResponseTable {
	return table.New([]string{"year", "help", "advice"}, []model.Response{
		{ID: "r1", CreatedAt: time.Date(2025, 3, 7, 8, 15, 30, 123000000, time.UTC), Fields: map[string]model.Value{
			"year":   model.Scalar("Final"),
			"help":   model.List("women-mentors", "late-night-access"),
			"advice": model.Scalar("Speak up, \"always\""),
		}},
		{ID: "r2", CreatedAt: built, CreatedAtDefaulted: true, Fields: map[string]model.Value{
			"year": model.Scalar("Second"),
			"help": model.List(),
		}},
	}, built)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, " json ": FormatJSON, "xlsx": FormatXLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "she_speaks_responses.xlsx", FormatXLSX.Filename())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), sample())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sample()))

	recs, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"id", "createdAt", "year", "help", "advice"}, recs[0])
	assert.Equal(t, []string{"r1", "2025-03-07T08:15:30.123Z", "Final", `["women-mentors","late-night-access"]`, `Speak up, "always"`}, recs[1])
	assert.Equal(t, []string{"r2", "2025-03-08T12:00:00Z", "Second", "[]", ""}, recs[2])
}

func TestCSVRoundTrip(t *testing.T) {
	orig := sample()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, orig))

	got, err := ParseCSV(&buf, built)
	require.NoError(t, err)
	assert.Equal(t, orig.Columns(), got.Columns())
	require.Equal(t, orig.Len(), got.Len())
	for _, c := range orig.Columns() {
		want, have := orig.Column(c), got.Column(c)
		for i := range want {
			assert.True(t, want[i].Equal(have[i]), "column %s row %d: %v != %v", c, i, want[i], have[i])
		}
	}
}

// CSV cannot tell an empty answer from no answer, nor a text that happens to
// be a JSON string array from a multiselect. Both come back in the other form.
func TestCSVRoundTrip_AmbiguousCells(t *testing.T) {
	orig := table.New([]string{"advice", "note"}, []model.Response{
		{ID: "r1", CreatedAt: built, Fields: map[string]model.Value{
			"advice": model.Scalar(""),
			"note":   model.Scalar(`["a","b"]`),
		}},
	}, built)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, orig))
	got, err := ParseCSV(&buf, built)
	require.NoError(t, err)

	row := got.Rows()[0]
	assert.True(t, row.Field("advice").IsMissing())
	assert.Equal(t, model.List("a", "b"), row.Field("note"))
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), built)
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = ParseCSV(strings.NewReader("year,id\nFinal,r1\n"), built)
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = ParseCSV(strings.NewReader("id,createdAt\nr1,\nr1,\n"), built)
	assert.ErrorIs(t, err, table.ErrMalformedRecord)

	_, err = ParseCSV(strings.NewReader("id,createdAt\n,\n"), built)
	assert.ErrorIs(t, err, table.ErrMalformedRecord)

	_, err = ParseCSV(strings.NewReader("id,createdAt\nr1,last tuesday\n"), built)
	assert.ErrorContains(t, err, "createdAt")
}

func TestParseCSV_DefaultsCreatedAt(t *testing.T) {
	got, err := ParseCSV(strings.NewReader("id,createdAt,year\nr1,,Final\n"), built)
	require.NoError(t, err)
	row := got.Rows()[0]
	assert.True(t, row.CreatedAtDefaulted)
	assert.True(t, built.Equal(row.CreatedAt))
}

func TestParseCell(t *testing.T) {
	assert.True(t, ParseCell("").IsMissing())
	assert.Equal(t, model.Scalar("Final"), ParseCell("Final"))
	assert.Equal(t, model.List("a", "b"), ParseCell(`["a","b"]`))
	assert.Equal(t, model.Scalar("[1,2]"), ParseCell("[1,2]"), "non-string arrays stay text")
	assert.Equal(t, model.Scalar("[draft"), ParseCell("[draft"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "r1", rows[0]["id"])
	assert.Equal(t, []interface{}{"women-mentors", "late-night-access"}, rows[0]["help"])
	assert.Nil(t, rows[1]["advice"])
	assert.Contains(t, rows[1], "advice", "missing fields are explicit nulls")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "createdAt", "year", "help", "advice"}, rows[0])
	assert.Equal(t, "Final", rows[1][2])
	assert.Equal(t, `["women-mentors","late-night-access"]`, rows[1][3])
}

func TestWrite_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, table.Empty()))
	assert.Equal(t, "id,createdAt\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, table.Empty()))
	assert.JSONEq(t, "[]", buf.String())
}
