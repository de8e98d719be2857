// Package export writes a ResponseTable as CSV, JSON or XLSX and reads the
// CSV form back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding responses in XLSX exports
const SheetName = "responses"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts csv, json or xlsx in any case; empty means csv
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Filename is the download name for an export in this format
func (f Format) Filename() string {
	return "she_speaks_responses." + string(f)
}

// Write renders t to w in the given format
func Write(w io.Writer, f Format, t *table.ResponseTable) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatJSON:
		return writeJSON(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Cell renders one value as export text. Missing is empty and lists are JSON arrays.
func Cell(v model.Value) string {
	switch v.Kind() {
	case model.KindScalar:
		s, _ := v.Str()
		return s
	case model.KindList:
		items, _ := v.Items()
		b, _ := json.Marshal(items)
		return string(b)
	}
	return ""
}

func records(t *table.ResponseTable) [][]string {
	cols := t.Columns()
	out := make([][]string, 0, t.Len()+1)
	out = append(out, cols)
	for _, r := range t.Rows() {
		rec := make([]string, len(cols))
		for i, c := range cols {
			switch c {
			case table.ColumnID:
				rec[i] = r.ID
			case table.ColumnCreatedAt:
				rec[i] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
			default:
				rec[i] = Cell(r.Field(c))
			}
		}
		out = append(out, rec)
	}
	return out
}

func writeCSV(w io.Writer, t *table.ResponseTable) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records(t)); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, t *table.ResponseTable) error {
	cols := t.Columns()
	rows := make([]map[string]interface{}, 0, t.Len())
	for _, r := range t.Rows() {
		obj := make(map[string]interface{}, len(cols))
		obj[table.ColumnID] = r.ID
		obj[table.ColumnCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
		for _, c := range cols {
			if c == table.ColumnID || c == table.ColumnCreatedAt {
				continue
			}
			obj[c] = r.Field(c)
		}
		rows = append(rows, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeXLSX(w io.Writer, t *table.ResponseTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	for i, rec := range records(t) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
