package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/core"
	"github.com/JonMunkholm/teamroster/internal/source"
)

// setupDir writes two sheets with different header wording and points the
// configuration at them.
func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"Staff.csv":     "name,mail,number,position\nSarah Johnson,sarah@x.com,555-1,Counselor\n",
		"Marketing.csv": "Name,Email,Phone,Position\nEmily R,emily@x.com,555-2,Manager\n",
		"notes.txt":     "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv("ROSTER_SOURCE", "csvdir")
	t.Setenv("ROSTER_CSV_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd, cleanup := newRootCmd()
	defer cleanup()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rosterctl %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestSources(t *testing.T) {
	setupDir(t)

	var catalog []string
	if err := json.Unmarshal([]byte(run(t, "sources", "--json")), &catalog); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(catalog) != 2 || catalog[0] != "Marketing" || catalog[1] != "Staff" {
		t.Errorf("catalog = %v, want [Marketing Staff]", catalog)
	}

	table := run(t, "sources")
	if !strings.Contains(table, "Staff") || !strings.Contains(table, "live") {
		t.Errorf("sources table missing rows:\n%s", table)
	}
}

func TestList(t *testing.T) {
	setupDir(t)

	var members []core.TeamMember
	if err := json.Unmarshal([]byte(run(t, "list", "--json", "-q", "sarah")), &members); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1", len(members))
	}
	m := members[0]
	if m.Name != "Sarah Johnson" || m.Email != "sarah@x.com" || m.ContactNumber != "555-1" || m.SourceName != "Staff" {
		t.Errorf("member = %+v", m)
	}

	table := run(t, "list", "--source", "Marketing")
	if !strings.Contains(table, "Emily R") || strings.Contains(table, "Sarah Johnson") {
		t.Errorf("filtered table:\n%s", table)
	}
}

func TestExport(t *testing.T) {
	setupDir(t)
	outFile := filepath.Join(t.TempDir(), "team.csv")

	run(t, "export", "-o", outFile)

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "Name,Email,Phone") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"Emily R"`) || !strings.HasPrefix(lines[2], `"Sarah Johnson"`) {
		t.Errorf("rows out of catalog order:\n%s", data)
	}

	stdout := run(t, "export", "--department", "nobody")
	if strings.Contains(stdout, "\n") {
		t.Errorf("expected header only, got %q", stdout)
	}
}

func TestUnconfiguredFallsBack(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "csvdir")
	t.Setenv("ROSTER_CSV_DIR", "")
	t.Setenv("LOG_LEVEL", "error")

	var members []core.TeamMember
	if err := json.Unmarshal([]byte(run(t, "list", "--json")), &members); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(members) != 3 {
		t.Errorf("got %d members, want the 3 built-in members", len(members))
	}
}

func TestCleanupAfterFailedCommand(t *testing.T) {
	setupDir(t)

	closed := 0
	openSource = func(ctx context.Context, cfg *config.Config) (core.TabularSource, func(), error) {
		src, closeSource, err := source.Open(ctx, cfg)
		return src, func() { closed++; closeSource() }, err
	}
	t.Cleanup(func() { openSource = source.Open })

	cmd, cleanup := newRootCmd()
	cmd.SetArgs([]string{"export", "-o", filepath.Join(t.TempDir(), "missing", "team.csv")})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("export into a missing directory succeeded")
	}
	cleanup()

	if closed != 1 {
		t.Errorf("source closed %d times, want 1", closed)
	}
}
