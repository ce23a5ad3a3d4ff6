// Package pgsource exposes a PostgreSQL schema as a roster collection.
// Every base table in the schema is one source; its column names form the
// header row and each row is rendered as text.
package pgsource

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/core"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source reads tables from Schema.
type Source struct {
	db     Querier
	schema string
}

// New creates a Source over schema.
func New(db Querier, schema string) *Source {
	return &Source{db: db, schema: schema}
}

const catalogQuery = `SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

// Catalog lists the base tables of the schema by name.
func (s *Source) Catalog(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, catalogQuery, s.schema)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", core.ErrSourceUnavailable, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", core.ErrSourceUnavailable, err)
	}
	return names, nil
}

// Values selects every row of the table named source.
func (s *Source) Values(ctx context.Context, source string) ([][]string, error) {
	query := "SELECT * FROM " + pgx.Identifier{s.schema, source}.Sanitize()
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", core.ErrSourceUnavailable, source, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	grid := [][]string{header}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s row %d: %w", core.ErrSourceMalformed, source, len(grid), err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = formatCell(v)
		}
		grid = append(grid, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrSourceUnavailable, source, err)
	}
	return grid, nil
}

// formatCell renders a decoded column value as sheet text. NULL becomes "".
func formatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.Numeric:
		return formatNumeric(val)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumeric renders an exact decimal without float rounding.
func formatNumeric(n pgtype.Numeric) string {
	if !n.Valid || n.NaN {
		return ""
	}
	if n.InfinityModifier != pgtype.Finite {
		return n.InfinityModifier.String()
	}
	if n.Int == nil {
		return "0"
	}
	if n.Exp >= 0 {
		v := new(big.Int).Mul(n.Int, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n.Exp)), nil))
		return v.String()
	}
	r := new(big.Rat).SetFrac(n.Int, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-n.Exp)), nil))
	return r.FloatString(int(-n.Exp))
}

// Open creates a pool sized from cfg. Connections are established lazily, so
// an unreachable server surfaces as a catalog failure on the first pass.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}
