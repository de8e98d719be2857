package service

import (
	"context"
	"time"

	"shespeaks/internal/cache"
	"shespeaks/internal/logger"
	"shespeaks/internal/table"
)

// TableService runs the fetch pipeline: shared snapshot first, then a
// fresh build from the record store.
type TableService struct {
	source    table.Source
	snapshots cache.SnapshotCache // nil when Redis is not configured
	builder   *table.Builder
	log       *logger.Logger
}

// NewTableService creates a new table service
func NewTableService(source table.Source, snapshots cache.SnapshotCache, now func() time.Time, log *logger.Logger) *TableService {
	if log == nil {
		log = logger.Nop()
	}
	return &TableService{
		source:    source,
		snapshots: snapshots,
		builder:   table.NewBuilder(now),
		log:       log.WithComponent("table-service"),
	}
}

// Load returns the shared snapshot when one exists, otherwise builds the
// table and publishes it. Snapshot failures never fail the load.
func (s *TableService) Load(ctx context.Context) (*table.ResponseTable, error) {
	if s.snapshots != nil {
		t, err := s.snapshots.Get(ctx)
		if err != nil {
			s.log.WithError(err).Warn("snapshot read failed, building from store")
		} else if t != nil {
			return t, nil
		}
	}
	return s.Rebuild(ctx)
}

// Rebuild builds from the record store, bypassing the snapshot
func (s *TableService) Rebuild(ctx context.Context) (*table.ResponseTable, error) {
	t, err := s.builder.Build(ctx, s.source)
	if err != nil {
		return t, err
	}
	s.log.WithField("rows", t.Len()).Info("response table built")

	if s.snapshots != nil {
		if err := s.snapshots.Set(ctx, t); err != nil {
			s.log.WithError(err).Warn("snapshot write failed")
		}
	}
	return t, nil
}

// Forget drops the shared snapshot so other replicas rebuild too
func (s *TableService) Forget(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Delete(ctx); err != nil {
		s.log.WithError(err).Warn("snapshot delete failed")
	}
}
