package core

import (
	"context"
	"errors"
	"strings"
)

// errEmptyCatalog is wrapped in a CatalogError when the source lists no sheets.
var errEmptyCatalog = errors.New("catalog is empty")

// SourceCatalog resolves the ordered, unique source names for one pass.
type SourceCatalog struct {
	source TabularSource
}

// NewSourceCatalog creates a catalog resolver over the given tabular source.
func NewSourceCatalog(source TabularSource) *SourceCatalog {
	return &SourceCatalog{source: source}
}

// Resolve returns the catalog in source order with blanks and repeats removed.
// Any failure, including an empty result, is returned as a *CatalogError.
func (c *SourceCatalog) Resolve(ctx context.Context) ([]string, error) {
	names, err := c.source.Catalog(ctx)
	if err != nil {
		return nil, &CatalogError{Err: err}
	}

	seen := make(map[string]bool, len(names))
	catalog := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" || seen[n] {
			continue
		}
		seen[n] = true
		catalog = append(catalog, n)
	}

	if len(catalog) == 0 {
		return nil, &CatalogError{Err: errEmptyCatalog}
	}
	return catalog, nil
}
