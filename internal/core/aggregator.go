package core

// aggregator.go builds the unified roster for one refresh.
//
// A pass is either wholly live or wholly fallback:
//  1. No credential configured -> fallback, no network call
//  2. Catalog cannot be resolved -> fallback
//  3. Otherwise every catalog source is fetched in parallel; failed sources
//     are logged and skipped, successes concatenated in catalog order
//
// The pass is bounded by PassTimeout. Fetches still outstanding at the
// deadline count as unavailable and the pass completes without them.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultPassTimeout bounds a pass when no timeout is configured.
const DefaultPassTimeout = 30 * time.Second

// AggregatorConfig controls one RecordAggregator.
type AggregatorConfig struct {
	Configured  bool          // A non-empty source credential is present
	PassTimeout time.Duration // Upper bound for a whole pass
	MaxParallel int           // Concurrent source fetches; <= 0 means one per source
}

// RecordAggregator orchestrates catalog resolution, per-source fetches and
// the fallback decision.
type RecordAggregator struct {
	catalog  *SourceCatalog
	fetcher  *SourceFetcher
	fallback FallbackProvider
	cfg      AggregatorConfig
}

// NewRecordAggregator creates an aggregator. A nil source is treated as
// unconfigured.
func NewRecordAggregator(source TabularSource, cfg AggregatorConfig) *RecordAggregator {
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = DefaultPassTimeout
	}
	if source == nil {
		cfg.Configured = false
	}

	a := &RecordAggregator{cfg: cfg}
	if source != nil {
		a.catalog = NewSourceCatalog(source)
		a.fetcher = NewSourceFetcher(source)
	}
	return a
}

// Aggregate runs one full pass.
func (a *RecordAggregator) Aggregate(ctx context.Context) PassResult {
	start := time.Now()

	if !a.cfg.Configured {
		slog.Warn("roster source not configured, using fallback roster")
		return a.finish(a.fallbackPass(start))
	}

	passCtx, cancel := context.WithTimeout(ctx, a.cfg.PassTimeout)
	defer cancel()

	catalog, err := a.catalog.Resolve(passCtx)
	if err != nil {
		slog.Warn("source catalog unavailable, using fallback roster", "error", err)
		return a.finish(a.fallbackPass(start))
	}

	results, failures := a.fetchAll(passCtx, catalog)

	total := 0
	for _, r := range results {
		total += len(r)
	}
	members := make([]TeamMember, 0, total)
	for _, r := range results {
		members = append(members, r...)
	}

	return a.finish(PassResult{
		Members:       members,
		Catalog:       catalog,
		Mode:          PassLive,
		FailedSources: failures,
		StartedAt:     start,
		Duration:      time.Since(start),
	})
}

func (a *RecordAggregator) fallbackPass(start time.Time) PassResult {
	return PassResult{
		Members:      a.fallback.Roster(),
		Catalog:      a.fallback.Catalog(),
		Mode:         PassFallback,
		Unconfigured: true,
		StartedAt:    start,
		Duration:     time.Since(start),
	}
}

func (a *RecordAggregator) finish(res PassResult) PassResult {
	passCounter.WithLabelValues(string(res.Mode)).Inc()
	passDuration.Observe(res.Duration.Seconds())
	slog.Info("aggregation pass completed",
		"mode", res.Mode,
		"sources", len(res.Catalog),
		"failed_sources", len(res.FailedSources),
		"members", len(res.Members),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

type fetchOutcome struct {
	index   int
	members []TeamMember
	err     error
}

// fetchAll fetches every source and returns the per-source results indexed
// by catalog position. Failed slots are nil and reported in failures, in
// catalog order.
func (a *RecordAggregator) fetchAll(ctx context.Context, names []string) ([][]TeamMember, []SourceFailure) {
	limit := a.cfg.MaxParallel
	if limit <= 0 || limit > len(names) {
		limit = len(names)
	}

	// Buffered so fetches finishing after the deadline never block.
	outcomes := make(chan fetchOutcome, len(names))

	go func() {
		var g errgroup.Group
		g.SetLimit(limit)
		for i, name := range names {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					outcomes <- fetchOutcome{index: i, err: newFetchError(name, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))}
					return nil
				}
				members, err := a.fetcher.Fetch(ctx, name)
				outcomes <- fetchOutcome{index: i, members: members, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	results := make([][]TeamMember, len(names))
	errs := make([]error, len(names))
	done := make([]bool, len(names))

collect:
	for received := 0; received < len(names); {
		select {
		case o := <-outcomes:
			received++
			done[o.index] = true
			if o.err != nil {
				errs[o.index] = o.err
				continue
			}
			results[o.index] = o.members
		case <-ctx.Done():
			break collect
		}
	}

	var failures []SourceFailure
	for i, name := range names {
		if !done[i] {
			errs[i] = newFetchError(name, fmt.Errorf("%w: %w", ErrSourceUnavailable, ctx.Err()))
		}
		if errs[i] == nil {
			sourceFetchCounter.WithLabelValues(name, "ok").Inc()
			continue
		}

		var fe *FetchError
		if !errors.As(errs[i], &fe) {
			fe = newFetchError(name, errs[i])
		}
		slog.Error("source fetch failed, skipping",
			"source", name,
			"kind", fe.Kind,
			"error", fe.Err,
		)
		sourceFetchCounter.WithLabelValues(name, string(fe.Kind)).Inc()
		failures = append(failures, SourceFailure{Source: name, Kind: fe.Kind, Reason: fe.Err.Error()})
	}

	return results, failures
}
