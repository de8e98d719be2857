package service

import (
	"context"
	"errors"
	"fmt"

	"shespeaks/internal/cache"
	"shespeaks/internal/logger"
	"shespeaks/internal/table"
)

var ErrUnknownPage = errors.New("unknown page")

// DashboardService serves page payloads from the cached response table
type DashboardService struct {
	cache  *cache.TableCache
	tables *TableService
	pages  *PageBuilder
	log    *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(c *cache.TableCache, tables *TableService, pages *PageBuilder, log *logger.Logger) *DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{
		cache:  c,
		tables: tables,
		pages:  pages,
		log:    log.WithComponent("dashboard"),
	}
}

// Table returns the current response table; on a store failure the table is
// empty and the error is a *table.DataSourceError.
func (s *DashboardService) Table(ctx context.Context) (*table.ResponseTable, error) {
	return s.cache.Get(ctx)
}

// Page renders the named page. When the store is unreachable it still
// returns the page's empty state, together with the error.
func (s *DashboardService) Page(ctx context.Context, name string) (interface{}, error) {
	if _, ok := s.pages.Build(name, table.Empty()); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}

	t, err := s.cache.Get(ctx)
	page, _ := s.pages.Build(name, t)
	if err != nil {
		s.log.WithError(err).WithField("page", name).Warn("serving empty page")
	}
	return page, err
}

// Refresh discards the cached and shared tables and reloads from the store
func (s *DashboardService) Refresh(ctx context.Context) (*table.ResponseTable, error) {
	s.tables.Forget(ctx)
	return s.cache.Refresh(ctx)
}
