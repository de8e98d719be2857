package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shespeaks/internal/logger"
	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

const fieldCreatedAt = "createdAt"

// FieldCreatedAtRaw holds a stored createdAt that could not be read as a time
const FieldCreatedAtRaw = "createdAtRaw"

// ResponseRepo streams survey submissions out of MongoDB and seeds them in.
// It satisfies table.Source.
type ResponseRepo interface {
	Stream(ctx context.Context, fn func(table.Record) error) error
	InsertMany(ctx context.Context, rows []model.Response) (int, error)
	Count(ctx context.Context) (int64, error)
}

type responseRepo struct {
	collection  *mongo.Collection
	retryWindow time.Duration
	log         *logger.Logger
}

// NewResponseRepo creates a repository over the named collection.
// Opening the cursor is retried with exponential backoff for up to retryWindow.
func NewResponseRepo(db *mongo.Database, collection string, retryWindow time.Duration, log *logger.Logger) ResponseRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &responseRepo{
		collection:  db.Collection(collection),
		retryWindow: retryWindow,
		log:         log.WithComponent("response-repo"),
	}
}

func (r *responseRepo) Stream(ctx context.Context, fn func(table.Record) error) error {
	cursor, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		rec, err := decodeRecord(cursor.Current)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// open retries only the Find call; a cursor that fails mid-iteration is not
// restarted, since records already handed to the caller would repeat.
func (r *responseRepo) open(ctx context.Context) (*mongo.Cursor, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = r.retryWindow

	attempt := 0
	var cursor *mongo.Cursor
	operation := func() error {
		attempt++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		c, err := r.collection.Find(ctx, bson.M{})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			r.log.WithError(err).WithField("attempt", attempt).Warn("find responses failed")
			return err
		}
		cursor = c
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("find responses: %w", err)
	}
	return cursor, nil
}

func (r *responseRepo) InsertMany(ctx context.Context, rows []model.Response) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = encodeResponse(row)
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

func (r *responseRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// decodeRecord converts one stored document into a builder record.
// _id becomes the record ID, createdAt the timestamp, and every other
// top-level key a field value.
func decodeRecord(raw bson.Raw) (table.Record, error) {
	elems, err := raw.Elements()
	if err != nil {
		return table.Record{}, err
	}

	rec := table.Record{Fields: make(map[string]model.Value, len(elems))}
	for _, el := range elems {
		val := el.Value()
		switch key := el.Key(); key {
		case "_id":
			rec.ID = idString(val)
		case fieldCreatedAt:
			if ts, ok := timeValue(val); ok {
				rec.CreatedAt = &ts
			} else if v := toValue(val); !v.IsMissing() {
				// keep what the store had so the defaulted timestamp is traceable
				rec.Fields[FieldCreatedAtRaw] = v
			}
		default:
			if v := toValue(val); !v.IsMissing() {
				rec.Fields[key] = v
			}
		}
	}
	return rec, nil
}

func idString(val bson.RawValue) string {
	if oid, ok := val.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := scalarText(val); ok {
		return s
	}
	return val.String()
}

// createdAt layouts accepted for string timestamps, tried in order
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05.999999999", time.DateOnly}

func timeValue(val bson.RawValue) (time.Time, bool) {
	switch val.Type {
	case bson.TypeDateTime:
		return time.UnixMilli(val.DateTime()).UTC(), true
	case bson.TypeTimestamp:
		secs, _ := val.Timestamp()
		return time.Unix(int64(secs), 0).UTC(), true
	case bson.TypeInt64: // epoch millis
		return time.UnixMilli(val.Int64()).UTC(), true
	case bson.TypeInt32: // epoch seconds
		return time.Unix(int64(val.Int32()), 0).UTC(), true
	case bson.TypeString:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, val.StringValue()); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// scalarText renders primitive BSON values as their answer text
func scalarText(val bson.RawValue) (string, bool) {
	switch val.Type {
	case bson.TypeString:
		return val.StringValue(), true
	case bson.TypeInt32:
		return strconv.FormatInt(int64(val.Int32()), 10), true
	case bson.TypeInt64:
		return strconv.FormatInt(val.Int64(), 10), true
	case bson.TypeDouble:
		return strconv.FormatFloat(val.Double(), 'f', -1, 64), true
	case bson.TypeBoolean:
		return strconv.FormatBool(val.Boolean()), true
	case bson.TypeDecimal128:
		return val.Decimal128().String(), true
	}
	return "", false
}

func toValue(val bson.RawValue) model.Value {
	switch val.Type {
	case bson.TypeNull, bson.TypeUndefined:
		return model.Missing()
	case bson.TypeArray:
		items, err := val.Array().Values()
		if err != nil {
			return model.Missing()
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := scalarText(item); ok {
				out = append(out, s)
			}
		}
		return model.List(out...)
	}
	if s, ok := scalarText(val); ok {
		return model.Scalar(s)
	}
	return model.Scalar(val.String())
}

func encodeResponse(r model.Response) bson.D {
	doc := bson.D{}
	if r.ID != "" {
		doc = append(doc, bson.E{Key: "_id", Value: r.ID})
	}
	if !r.CreatedAt.IsZero() {
		doc = append(doc, bson.E{Key: fieldCreatedAt, Value: r.CreatedAt.UTC()})
	}

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := r.Fields[k]
		switch v.Kind() {
		case model.KindScalar:
			s, _ := v.Str()
			doc = append(doc, bson.E{Key: k, Value: s})
		case model.KindList:
			items, _ := v.Items()
			doc = append(doc, bson.E{Key: k, Value: items})
		}
	}
	return doc
}
