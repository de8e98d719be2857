package table

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"shespeaks/internal/model"
)

// ErrMalformedRecord marks a record the table cannot hold
var ErrMalformedRecord = errors.New("malformed record")

// Record is one raw document yielded by a Source
type Record struct {
	ID        string
	Fields    map[string]model.Value
	CreatedAt *time.Time // nil when the document has no timestamp
}

// Source yields raw records in store order. Returning an error from fn stops the stream.
type Source interface {
	Stream(ctx context.Context, fn func(Record) error) error
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, fn func(Record) error) error

func (f SourceFunc) Stream(ctx context.Context, fn func(Record) error) error { return f(ctx, fn) }

// Records is a Source over an in-memory slice
type Records []Record

func (rs Records) Stream(ctx context.Context, fn func(Record) error) error {
	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// DataSourceError wraps any failure while streaming records
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// IsDataSourceError reports whether err carries a DataSourceError
func IsDataSourceError(err error) bool {
	var dse *DataSourceError
	return errors.As(err, &dse)
}

// Builder turns a record stream into a ResponseTable
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder. now supplies the timestamp for records without createdAt.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build consumes src. On any source error it returns Empty() and a *DataSourceError,
// never a partial table.
func (b *Builder) Build(ctx context.Context, src Source) (*ResponseTable, error) {
	if src == nil {
		return Empty(), &DataSourceError{Op: "stream", Err: errors.New("no source configured")}
	}

	builtAt := b.now()
	t := Empty()
	t.builtAt = builtAt
	seen := make(map[string]struct{})

	err := src.Stream(ctx, func(rec Record) error {
		if rec.ID == "" {
			return fmt.Errorf("%w: empty id", ErrMalformedRecord)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformedRecord, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		resp := model.Response{
			ID:     rec.ID,
			Fields: make(map[string]model.Value, len(rec.Fields)),
		}
		if rec.CreatedAt != nil {
			resp.CreatedAt = *rec.CreatedAt
		} else {
			resp.CreatedAt = builtAt
			resp.CreatedAtDefaulted = true
		}

		for _, name := range sortedKeys(rec.Fields) {
			if name == ColumnID || name == ColumnCreatedAt {
				continue
			}
			resp.Fields[name] = rec.Fields[name]
			t.addColumn(name)
		}
		t.rows = append(t.rows, resp)
		return nil
	})
	if err != nil {
		return Empty(), &DataSourceError{Op: "stream", Err: err}
	}
	return t, nil
}

func sortedKeys(m map[string]model.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
