package core

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Service is the caller-facing entry point for the team directory.
type Service struct {
	aggregator *RecordAggregator
	store      *RosterStore
	refreshes  singleflight.Group
}

// NewService creates a Service over source. A nil source, or cfg.Configured
// false, always serves the fallback roster.
func NewService(source TabularSource, cfg AggregatorConfig) *Service {
	return &Service{
		aggregator: NewRecordAggregator(source, cfg),
		store:      NewRosterStore(),
	}
}

// Refresh runs one aggregation pass and commits it. Concurrent callers share
// a single pass. The pass is detached from ctx cancellation so an abandoned
// request cannot turn into an empty live roster; PassTimeout still bounds it.
func (s *Service) Refresh(ctx context.Context) PassResult {
	v, _, _ := s.refreshes.Do("refresh", func() (any, error) {
		s.store.BeginRefresh()
		res := s.aggregator.Aggregate(context.WithoutCancel(ctx))
		return s.store.Commit(res), nil
	})
	return v.(PassResult)
}

// Roster returns the current roster, running the initial pass on first use.
func (s *Service) Roster(ctx context.Context) PassResult {
	if !s.store.Loaded() {
		return s.Refresh(ctx)
	}
	return s.store.Snapshot()
}

// AddMember appends candidate to the roster under sourceName. Any
// SourceName already set on candidate is replaced.
func (s *Service) AddMember(ctx context.Context, candidate TeamMember, sourceName string) (TeamMember, error) {
	if !s.store.Loaded() {
		s.Refresh(ctx)
	}
	candidate.ID = ""
	candidate.SourceName = sourceName
	return s.store.Append(candidate)
}

// UpdateMember applies patch to the member with the given ID.
func (s *Service) UpdateMember(_ context.Context, id string, patch MemberPatch) (TeamMember, error) {
	return s.store.Update(id, patch)
}

// DeleteMember removes the member with the given ID.
func (s *Service) DeleteMember(_ context.Context, id string) error {
	return s.store.Delete(id)
}
