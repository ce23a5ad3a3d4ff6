package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func fallbackService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(nil, AggregatorConfig{})
	if res := svc.Refresh(context.Background()); res.Mode != PassFallback {
		t.Fatalf("initial pass mode = %q, want fallback", res.Mode)
	}
	return svc
}

func strPtr(s string) *string { return &s }

// ============================================================================
// AddMember
// ============================================================================

func TestAddMember_Appends(t *testing.T) {
	svc := fallbackService(t)
	before := len(svc.Roster(context.Background()).Members)

	m, err := svc.AddMember(context.Background(), TeamMember{Name: "A", Email: "a@b.com", Position: "Intern"}, "Staff")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	res := svc.Roster(context.Background())
	if len(res.Members) != before+1 {
		t.Fatalf("roster length = %d, want %d", len(res.Members), before+1)
	}
	last := res.Members[len(res.Members)-1]
	if last.ID != m.ID || last.Name != "A" {
		t.Errorf("last member = %+v, want the added member", last)
	}
	if m.Status != StatusActive {
		t.Errorf("Status = %q, want %q", m.Status, StatusActive)
	}
	if m.SourceName != "Staff" || m.ID == "" {
		t.Errorf("added member = %+v", m)
	}
}

func TestAddMember_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		candidate TeamMember
		source    string
		wantField string
	}{
		{"empty name", TeamMember{Name: "", Email: "a@b.com", Position: "Intern"}, "Staff", "name"},
		{"blank email", TeamMember{Name: "A", Email: "   ", Position: "Intern"}, "Staff", "email"},
		{"missing position", TeamMember{Name: "A", Email: "a@b.com"}, "Staff", "position"},
		{"missing source", TeamMember{Name: "A", Email: "a@b.com", Position: "Intern"}, "", "sourceName"},
		{"unknown source", TeamMember{Name: "A", Email: "a@b.com", Position: "Intern"}, "Nope", "sourceName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := fallbackService(t)
			before := len(svc.Roster(context.Background()).Members)

			_, err := svc.AddMember(context.Background(), tt.candidate, tt.source)

			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if n := len(svc.Roster(context.Background()).Members); n != before {
				t.Errorf("roster length = %d, want unchanged %d", n, before)
			}
		})
	}
}

func TestAddMember_OverridesIDAndSource(t *testing.T) {
	svc := fallbackService(t)

	m, err := svc.AddMember(context.Background(), TeamMember{
		ID: "client-id", Name: " A ", Email: "a@b.com", Position: "Intern", Status: "inactive", SourceName: "Marketing",
	}, "Interns")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if m.ID == "client-id" {
		t.Error("client-supplied ID was kept")
	}
	if m.SourceName != "Interns" || m.Name != "A" || m.Status != StatusInactive {
		t.Errorf("member = %+v", m)
	}
}

func TestAddMember_LoadsRosterFirst(t *testing.T) {
	svc := NewService(nil, AggregatorConfig{})

	if _, err := svc.AddMember(context.Background(), TeamMember{Name: "A", Email: "a@b.com", Position: "Intern"}, "Interns"); err != nil {
		t.Fatalf("AddMember on an unloaded service failed: %v", err)
	}
	if n := len(svc.Roster(context.Background()).Members); n != 4 {
		t.Errorf("roster length = %d, want 4", n)
	}
}

// ============================================================================
// Update / Delete
// ============================================================================

func TestUpdateMember(t *testing.T) {
	svc := fallbackService(t)
	id := svc.Roster(context.Background()).Members[0].ID

	status := StatusOnLeave
	m, err := svc.UpdateMember(context.Background(), id, MemberPatch{Position: strPtr("Director"), Status: &status})
	if err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	if m.Position != "Director" || m.Status != StatusOnLeave || m.Name != "Sarah Johnson" {
		t.Errorf("updated member = %+v", m)
	}

	_, err = svc.UpdateMember(context.Background(), id, MemberPatch{Name: strPtr("  ")})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for blank name, got %v", err)
	}
	if got := svc.Roster(context.Background()).Members[0].Name; got != "Sarah Johnson" {
		t.Errorf("rejected patch changed name to %q", got)
	}

	if _, err := svc.UpdateMember(context.Background(), "missing", MemberPatch{}); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeleteMember(t *testing.T) {
	svc := fallbackService(t)
	id := svc.Roster(context.Background()).Members[1].ID

	if err := svc.DeleteMember(context.Background(), id); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	got := memberNames(svc.Roster(context.Background()).Members)
	if !equalStrings(got, []string{"Sarah Johnson", "Emily Rodriguez"}) {
		t.Errorf("members = %v", got)
	}

	if err := svc.DeleteMember(context.Background(), id); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("second delete: expected ErrMemberNotFound, got %v", err)
	}
}

// ============================================================================
// Refresh
// ============================================================================

func TestRefresh_ReplacesRoster(t *testing.T) {
	svc := NewService(twoSheetSource(), liveConfig)
	svc.Refresh(context.Background())

	if _, err := svc.AddMember(context.Background(), TeamMember{Name: "A", Email: "a@b.com", Position: "Intern"}, "Staff"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	res := svc.Refresh(context.Background())
	if got := memberNames(res.Members); !equalStrings(got, []string{"Sarah Johnson", "Emily R"}) {
		t.Errorf("members after refresh = %v, local additions should not survive a pass", got)
	}
}

func TestRefresh_IgnoresCallerCancellation(t *testing.T) {
	svc := NewService(twoSheetSource(), liveConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Refresh(ctx)
	if res.Mode != PassLive || len(res.Members) != 2 {
		t.Errorf("pass with cancelled caller = %s/%d members, want live/2", res.Mode, len(res.Members))
	}
}

func TestRefresh_DefersAppendsAndRefusesEdits(t *testing.T) {
	src := twoSheetSource()
	svc := NewService(src, liveConfig)
	res := svc.Refresh(context.Background())
	existing := res.Members[0].ID

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	src.onValues = func(name string) {
		if name != "Staff" {
			return
		}
		once.Do(func() { close(entered) })
		<-release
	}

	var wg sync.WaitGroup
	var second PassResult
	runAsync(&wg, func() { second = svc.Refresh(context.Background()) })

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never reached the source")
	}

	added, err := svc.AddMember(context.Background(), TeamMember{Name: "Late", Email: "late@x.com", Position: "Intern"}, "Marketing")
	if err != nil {
		t.Fatalf("AddMember during refresh failed: %v", err)
	}
	if _, err := svc.UpdateMember(context.Background(), existing, MemberPatch{Name: strPtr("X")}); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("UpdateMember during refresh: expected ErrRefreshInProgress, got %v", err)
	}
	if err := svc.DeleteMember(context.Background(), existing); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("DeleteMember during refresh: expected ErrRefreshInProgress, got %v", err)
	}

	close(release)
	wg.Wait()

	want := []string{"Sarah Johnson", "Emily R", "Late"}
	if got := memberNames(second.Members); !equalStrings(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	if second.Members[2].ID != added.ID {
		t.Errorf("deferred member ID = %q, want %q", second.Members[2].ID, added.ID)
	}
}

func TestRosterStore_DeferredSourceKeptInCatalog(t *testing.T) {
	s := NewRosterStore()
	s.Commit(PassResult{Catalog: []string{"Staff", "Old"}, Mode: PassLive})

	s.BeginRefresh()
	if _, err := s.Append(TeamMember{Name: "A", Email: "a@b.com", Position: "P", SourceName: "Old"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	res := s.Commit(PassResult{Catalog: []string{"Staff"}, Mode: PassLive})

	if !equalStrings(res.Catalog, []string{"Staff", "Old"}) {
		t.Errorf("Catalog = %v, want deferred source appended", res.Catalog)
	}
	if len(res.Members) != 1 || res.Members[0].SourceName != "Old" {
		t.Errorf("members = %+v", res.Members)
	}
}

func TestRosterStore_SnapshotIsCopy(t *testing.T) {
	s := NewRosterStore()
	if s.Loaded() {
		t.Fatal("new store reports loaded")
	}
	if snap := s.Snapshot(); snap.Members == nil {
		t.Error("Snapshot of empty store returned nil members")
	}

	s.Commit(PassResult{Members: FallbackProvider{}.Roster(), Catalog: FallbackProvider{}.Catalog()})
	snap := s.Snapshot()
	snap.Members[0].Name = "changed"
	snap.Catalog[0] = "changed"

	again := s.Snapshot()
	if again.Members[0].Name == "changed" || again.Catalog[0] == "changed" {
		t.Error("Snapshot shares storage with the store")
	}
}

func TestEdits_RejectUnknownStatus(t *testing.T) {
	svc := fallbackService(t)
	ctx := context.Background()
	id := svc.Roster(ctx).Members[0].ID

	_, err := svc.AddMember(ctx, TeamMember{Name: "A", Email: "a@b.com", Position: "Intern", Status: "Retired"}, "Staff")
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Errorf("AddMember with unknown status: got %v, want ValidationError on status", err)
	}
	if n := len(svc.Roster(ctx).Members); n != 3 {
		t.Errorf("roster length = %d, want 3", n)
	}

	retired := MemberStatus("Retired")
	_, err = svc.UpdateMember(ctx, id, MemberPatch{Status: &retired})
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Errorf("UpdateMember with unknown status: got %v, want ValidationError on status", err)
	}
	if got := svc.Roster(ctx).Members[0].Status; got != StatusActive {
		t.Errorf("status after rejected patch = %q, want %q", got, StatusActive)
	}

	for _, raw := range []MemberStatus{"", "inactive", "On Leave"} {
		if _, err := svc.AddMember(ctx, TeamMember{Name: "B", Email: "b@b.com", Position: "Intern", Status: raw}, "Staff"); err != nil {
			t.Errorf("AddMember with status %q failed: %v", raw, err)
		}
	}
}
