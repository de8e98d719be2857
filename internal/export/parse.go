package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

var ErrBadHeader = errors.New("csv header must start with id,createdAt")

// ParseCSV reads a CSV export back into a table. Empty cells are Missing,
// JSON string arrays are Lists, and everything else is a Scalar. Rows with an
// empty createdAt are stamped with builtAt.
func ParseCSV(r io.Reader, builtAt time.Time) (*table.ResponseTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 || header[0] != table.ColumnID || header[1] != table.ColumnCreatedAt {
		return nil, ErrBadHeader
	}

	fields := header[2:]
	seen := make(map[string]struct{})
	var rows []model.Response
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		id := rec[0]
		if id == "" {
			return nil, fmt.Errorf("line %d: %w: empty id", line, table.ErrMalformedRecord)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("line %d: %w: duplicate id %q", line, table.ErrMalformedRecord, id)
		}
		seen[id] = struct{}{}

		resp := model.Response{ID: id, Fields: make(map[string]model.Value, len(fields))}
		if rec[1] == "" {
			resp.CreatedAt = builtAt
			resp.CreatedAtDefaulted = true
		} else {
			ts, err := time.Parse(time.RFC3339Nano, rec[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: createdAt: %w", line, err)
			}
			resp.CreatedAt = ts
		}

		for i, name := range fields {
			if v := ParseCell(rec[i+2]); !v.IsMissing() {
				resp.Fields[name] = v
			}
		}
		rows = append(rows, resp)
	}
	return table.New(fields, rows, builtAt), nil
}

// ParseCell is the inverse of Cell, except that an empty cell reads back as
// Missing and a text holding a JSON string array reads back as a List.
func ParseCell(s string) model.Value {
	if s == "" {
		return model.Missing()
	}
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return model.List(items...)
		}
	}
	return model.Scalar(s)
}
