package csvdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JonMunkholm/teamroster/internal/core"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Staff.csv", []byte("Name\n"))
	writeFile(t, dir, "Marketing.CSV", []byte("Name\n"))
	writeFile(t, dir, "notes.txt", []byte("ignored"))
	if err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := New(dir).Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	want := []string{"Marketing", "Staff"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Catalog() = %v, want %v", got, want)
	}
}

func TestCatalog_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Catalog(context.Background())
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("Catalog() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestValues(t *testing.T) {
	dir := t.TempDir()
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Phone\nAna,=\"0123\"\nBo,\"12, 34\"\n")...)
	writeFile(t, dir, "Staff.csv", data)

	got, err := New(dir).Values(context.Background(), "Staff")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	want := [][]string{
		{"Name", "Phone"},
		{"Ana", "0123"},
		{"Bo", "12, 34"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %q, want %q", got, want)
	}
}

func TestValues_InvalidUTF8Sanitized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Staff.csv", []byte("Name\nJos\xe9\n"))

	got, err := New(dir).Values(context.Background(), "Staff")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if got[1][0] != "Jos\uFFFD" {
		t.Errorf("cell = %q, want %q", got[1][0], "Jos\uFFFD")
	}
}

func TestValues_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Large.csv", []byte("Name\nAna\nBo\nCy\n"))

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"missing file", "Nope", core.ErrSourceUnavailable},
		{"path traversal", "../etc", core.ErrSourceUnavailable},
		{"over size limit", "Large", core.ErrSourceMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(dir)
			src.MaxBytes = 8
			_, err := src.Values(context.Background(), tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("Values(%q) error = %v, want %v", tt.source, err, tt.want)
			}
		})
	}
}

func TestValues_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(t.TempDir()).Values(ctx, "Staff")
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("Values() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestValues_MixedCaseExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Team.cSv", []byte("Name\nAna\n"))

	src := New(dir)
	catalog, err := src.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if !reflect.DeepEqual(catalog, []string{"Team"}) {
		t.Fatalf("Catalog() = %v, want [Team]", catalog)
	}

	for _, name := range catalog {
		got, err := src.Values(context.Background(), name)
		if err != nil {
			t.Fatalf("Values(%q) error = %v", name, err)
		}
		if want := [][]string{{"Name"}, {"Ana"}}; !reflect.DeepEqual(got, want) {
			t.Errorf("Values(%q) = %q, want %q", name, got, want)
		}
	}
}
