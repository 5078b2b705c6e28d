package service

import (
	"context"
	"fmt"
	"sync"

	"qrnav/internal/modules/route/domain"
	routeout "qrnav/internal/modules/route/port/out"
)

// RouteService owns the instruction table loaded at startup. Reindex swaps
// the whole table; a table is never mutated in place.
type RouteService struct {
	source    routeout.TableSource
	projector routeout.TableIndexProjector

	mu    sync.RWMutex
	table domain.Table
}

func NewRouteService(source routeout.TableSource, projector routeout.TableIndexProjector) *RouteService {
	return &RouteService{source: source, projector: projector, table: domain.DefaultTable()}
}

func (s *RouteService) Load(ctx context.Context) (domain.Table, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return domain.Table{}, fmt.Errorf("load route table: %w", err)
	}
	if s.projector != nil {
		if err := s.projector.Reset(ctx); err != nil {
			return domain.Table{}, err
		}
		for _, entry := range table.Entries() {
			if err := s.projector.UpsertEntry(ctx, entry); err != nil {
				return domain.Table{}, err
			}
		}
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return table, nil
}

func (s *RouteService) Table() domain.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func (s *RouteService) Resolve(checkpointID, destinationID string) domain.Outcome {
	return s.Table().Resolve(checkpointID, destinationID)
}

func (s *RouteService) Indexed(ctx context.Context) ([]domain.Entry, error) {
	if s.projector == nil {
		return s.Table().Entries(), nil
	}
	return s.projector.ListEntries(ctx)
}

func (s *RouteService) SourceName() string {
	return s.source.Describe()
}
