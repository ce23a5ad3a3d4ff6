package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// SourceFetcher reads and normalizes the rows of one named source.
type SourceFetcher struct {
	source TabularSource
}

// NewSourceFetcher creates a fetcher over the given tabular source.
func NewSourceFetcher(source TabularSource) *SourceFetcher {
	return &SourceFetcher{source: source}
}

// Fetch returns the canonical records of one source in row order, each
// stamped with the source name. Any failure is returned as a *FetchError.
func (f *SourceFetcher) Fetch(ctx context.Context, name string) ([]TeamMember, error) {
	grid, err := f.source.Values(ctx, name)
	if err != nil {
		return nil, newFetchError(name, err)
	}

	rows := NormalizeRows(grid)
	members := make([]TeamMember, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		m, ok := toMember(row, name)
		if !ok {
			dropped++
			continue
		}
		m.ID = uuid.NewString()
		members = append(members, m)
	}

	if dropped > 0 {
		slog.Debug("dropped incomplete rows", "source", name, "dropped", dropped)
	}
	return members, nil
}
