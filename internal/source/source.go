// Package source selects the roster collection adapter from configuration.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/core"
	"github.com/JonMunkholm/teamroster/internal/source/csvdir"
	"github.com/JonMunkholm/teamroster/internal/source/pgsource"
	"github.com/JonMunkholm/teamroster/internal/source/sheets"
)

// Open returns the adapter named by cfg.Source.Kind and a function releasing
// its resources. It returns a nil source when no credential is configured,
// which makes every pass a fallback pass.
func Open(ctx context.Context, cfg *config.Config) (core.TabularSource, func(), error) {
	noop := func() {}
	if !cfg.Configured() {
		slog.Warn("no credential for roster source, serving fallback roster", "kind", cfg.Source.Kind)
		return nil, noop, nil
	}

	switch cfg.Source.Kind {
	case config.SourceSheets:
		return sheets.New(cfg.Source.SheetsBaseURL, cfg.Source.SpreadsheetID, cfg.Source.SheetsAPIKey), noop, nil

	case config.SourcePostgres:
		pool, err := pgsource.Open(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not reachable yet, passes fall back until it is", "error", err)
		}
		return pgsource.New(pool, cfg.Source.PGSchema), pool.Close, nil

	case config.SourceCSVDir:
		return csvdir.New(cfg.Source.CSVDir), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown roster source %q", cfg.Source.Kind)
	}
}

// AggregatorConfig maps the source settings onto core.AggregatorConfig.
func AggregatorConfig(cfg *config.Config) core.AggregatorConfig {
	return core.AggregatorConfig{
		Configured:  cfg.Configured(),
		PassTimeout: cfg.Source.PassTimeout,
		MaxParallel: cfg.Source.MaxParallel,
	}
}
