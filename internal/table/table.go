package table

import (
	"encoding/json"
	"time"

	"shespeaks/internal/model"
)

// Synthetic columns present in every table
const (
	ColumnID        = "id"
	ColumnCreatedAt = "createdAt"
)

// ResponseTable is an immutable snapshot of survey responses in stream order
type ResponseTable struct {
	rows    []model.Response
	columns []string
	colset  map[string]struct{}
	builtAt time.Time
}

// Empty returns the table handed out when the source fails or has no data
func Empty() *ResponseTable {
	return &ResponseTable{
		rows:    []model.Response{},
		columns: []string{ColumnID, ColumnCreatedAt},
		colset:  map[string]struct{}{ColumnID: {}, ColumnCreatedAt: {}},
	}
}

// New assembles a table from already-normalized rows, e.g. a parsed export.
// columns fixes the order of known field columns; any other field names are appended.
func New(columns []string, rows []model.Response, builtAt time.Time) *ResponseTable {
	cp := make([]model.Response, len(rows))
	copy(cp, rows)
	return assemble(columns, cp, builtAt)
}

func (t *ResponseTable) Len() int { return len(t.rows) }

func (t *ResponseTable) IsEmpty() bool { return len(t.rows) == 0 }

// BuiltAt is the clock reading taken when the table was assembled
func (t *ResponseTable) BuiltAt() time.Time { return t.builtAt }

// Rows returns the responses in insertion order. Field maps must not be modified.
func (t *ResponseTable) Rows() []model.Response {
	out := make([]model.Response, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the column universe: id, createdAt, then field names
func (t *ResponseTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *ResponseTable) HasColumn(name string) bool {
	_, ok := t.colset[name]
	return ok
}

// Column returns one value per row. Rows lacking the field, and columns
// absent from the table entirely, yield Missing.
func (t *ResponseTable) Column(name string) []model.Value {
	out := make([]model.Value, len(t.rows))
	for i, r := range t.rows {
		switch name {
		case ColumnID:
			out[i] = model.Scalar(r.ID)
		case ColumnCreatedAt:
			out[i] = model.Scalar(r.CreatedAt.UTC().Format(time.RFC3339Nano))
		default:
			out[i] = r.Field(name)
		}
	}
	return out
}

// Filter returns a new table holding the rows for which keep is true.
// The column universe is preserved.
func (t *ResponseTable) Filter(keep func(model.Response) bool) *ResponseTable {
	out := &ResponseTable{
		rows:    make([]model.Response, 0, len(t.rows)),
		columns: t.Columns(),
		colset:  t.colset,
		builtAt: t.builtAt,
	}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

type snapshot struct {
	Columns []string         `json:"columns"`
	Rows    []model.Response `json:"rows"`
	BuiltAt time.Time        `json:"builtAt"`
}

func (t *ResponseTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{Columns: t.columns, Rows: t.rows, BuiltAt: t.builtAt})
}

func (t *ResponseTable) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	rebuilt := assemble(s.Columns, s.Rows, s.BuiltAt)
	*t = *rebuilt
	return nil
}

func assemble(columns []string, rows []model.Response, builtAt time.Time) *ResponseTable {
	t := Empty()
	t.builtAt = builtAt
	for _, c := range columns {
		t.addColumn(c)
	}
	for _, r := range rows {
		for _, name := range sortedKeys(r.Fields) {
			t.addColumn(name)
		}
	}
	if rows != nil {
		t.rows = rows
	}
	return t
}

func (t *ResponseTable) addColumn(name string) {
	if _, ok := t.colset[name]; ok {
		return
	}
	t.colset[name] = struct{}{}
	t.columns = append(t.columns, name)
}
