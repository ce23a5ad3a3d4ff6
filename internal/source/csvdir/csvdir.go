// Package csvdir exposes a local directory of .csv files as a roster
// collection. Each file is one source, named after the file without its
// extension.
package csvdir

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/teamroster/internal/core"
)

// DefaultMaxFileSize caps a single source file. Larger files are reported
// as malformed rather than read into memory.
const DefaultMaxFileSize = 32 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads sheets from Dir.
type Source struct {
	Dir      string
	MaxBytes int64
}

// New creates a Source over dir.
func New(dir string) *Source {
	return &Source{Dir: dir, MaxBytes: DefaultMaxFileSize}
}

// Catalog returns the base names of the .csv files in Dir, sorted.
func (s *Source) Catalog(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory: %w", core.ErrSourceUnavailable, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	slices.Sort(names)
	return names, nil
}

// Values reads and parses the file backing source.
func (s *Source) Values(ctx context.Context, source string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}

	path, err := s.resolve(source)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}
	if s.MaxBytes > 0 && info.Size() > s.MaxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", core.ErrSourceMalformed, filepath.Base(path), info.Size(), s.MaxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}

	records, err := parseCSV(sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", core.ErrSourceMalformed, filepath.Base(path), err)
	}
	for _, row := range records {
		for i, cell := range row {
			row[i] = stripFormula(cell)
		}
	}
	return records, nil
}

// resolve finds the file for source, accepting any case of the .csv
// extension the same way Catalog does. Names containing path separators are
// rejected.
func (s *Source) resolve(source string) (string, error) {
	if source == "" || strings.ContainsAny(source, `/\`) || source == "." || source == ".." {
		return "", fmt.Errorf("%w: invalid source name %q", core.ErrSourceUnavailable, source)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", fmt.Errorf("%w: read directory: %w", core.ErrSourceUnavailable, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || !strings.EqualFold(ext, ".csv") {
			continue
		}
		if strings.TrimSuffix(name, ext) == source {
			return filepath.Join(s.Dir, name), nil
		}
	}
	return "", fmt.Errorf("%w: %s: %w", core.ErrSourceUnavailable, source, fs.ErrNotExist)
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}

// stripFormula unwraps spreadsheet text formulas like ="0123".
func stripFormula(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, `="`) && strings.HasSuffix(t, `"`) && len(t) >= 3 {
		return t[2 : len(t)-1]
	}
	return s
}
