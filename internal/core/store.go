package core

// store.go holds the in-memory roster owned by the Service.
//
// The roster is replaced wholesale by Commit at the end of every pass. Local
// appends that arrive while a pass is in flight are queued and appended to
// the new roster when it commits; field-level edits are refused until then.

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// RosterStore is the explicit in-memory roster with read/append operations.
type RosterStore struct {
	mu         sync.RWMutex
	current    PassResult
	loaded     bool
	refreshing bool
	pending    []TeamMember
}

// NewRosterStore creates an empty store.
func NewRosterStore() *RosterStore {
	return &RosterStore{}
}

// Loaded reports whether at least one pass has been committed.
func (s *RosterStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the current roster and pass metadata.
func (s *RosterStore) Snapshot() PassResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *RosterStore) snapshotLocked() PassResult {
	snap := s.current
	snap.Members = slices.Clone(s.current.Members)
	snap.Catalog = slices.Clone(s.current.Catalog)
	snap.FailedSources = slices.Clone(s.current.FailedSources)
	if snap.Members == nil {
		snap.Members = []TeamMember{}
	}
	return snap
}

// BeginRefresh marks a pass as in flight so appends are deferred.
func (s *RosterStore) BeginRefresh() {
	s.mu.Lock()
	s.refreshing = true
	s.mu.Unlock()
}

// Commit replaces the roster with res and appends any deferred members.
func (s *RosterStore) Commit(res PassResult) PassResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res.Members = slices.Clone(res.Members)
	res.Catalog = slices.Clone(res.Catalog)
	for _, m := range s.pending {
		if !slices.Contains(res.Catalog, m.SourceName) {
			slog.Warn("deferred member source missing from new catalog, keeping source",
				"source", m.SourceName,
				"member_id", m.ID,
			)
			res.Catalog = append(res.Catalog, m.SourceName)
		}
		res.Members = append(res.Members, m)
	}
	if len(s.pending) > 0 {
		slog.Info("reconciled deferred members", "count", len(s.pending))
	}

	s.pending = nil
	s.refreshing = false
	s.loaded = true
	s.current = res
	rosterSize.Set(float64(len(res.Members)))

	return s.snapshotLocked()
}

// Append validates m against the current catalog and adds it to the end of
// the roster, or queues it when a pass is in flight. The returned member
// carries its generated ID.
func (s *RosterStore) Append(m TeamMember) (TeamMember, error) {
	if err := checkStatus(m.Status); err != nil {
		return TeamMember{}, err
	}
	m = cleanMember(m)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateMember(m, s.current.Catalog); err != nil {
		return TeamMember{}, err
	}
	m.ID = uuid.NewString()

	if s.refreshing {
		s.pending = append(s.pending, m)
		slog.Info("refresh in flight, deferring member append", "member_id", m.ID, "source", m.SourceName)
		return m, nil
	}

	s.current.Members = append(s.current.Members, m)
	rosterSize.Set(float64(len(s.current.Members)))
	return m, nil
}

// Update applies patch to the member with the given ID.
func (s *RosterStore) Update(id string, patch MemberPatch) (TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshing {
		return TeamMember{}, ErrRefreshInProgress
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		return TeamMember{}, ErrMemberNotFound
	}

	if patch.Status != nil {
		if err := checkStatus(*patch.Status); err != nil {
			return TeamMember{}, err
		}
	}
	m := cleanMember(applyPatch(s.current.Members[idx], patch))
	if err := ValidateMember(m, s.current.Catalog); err != nil {
		return TeamMember{}, err
	}
	s.current.Members[idx] = m
	return m, nil
}

// Delete removes the member with the given ID.
func (s *RosterStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshing {
		return ErrRefreshInProgress
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrMemberNotFound
	}
	s.current.Members = slices.Delete(s.current.Members, idx, idx+1)
	rosterSize.Set(float64(len(s.current.Members)))
	return nil
}

func (s *RosterStore) indexLocked(id string) int {
	return slices.IndexFunc(s.current.Members, func(m TeamMember) bool { return m.ID == id })
}

// cleanMember trims every text field and resolves the status, defaulting to
// StatusActive.
func cleanMember(m TeamMember) TeamMember {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.ContactNumber = strings.TrimSpace(m.ContactNumber)
	m.Position = strings.TrimSpace(m.Position)
	m.Department = strings.TrimSpace(m.Department)
	m.Location = strings.TrimSpace(m.Location)
	m.JoinDate = strings.TrimSpace(m.JoinDate)
	m.Skills = strings.TrimSpace(m.Skills)
	m.Experience = strings.TrimSpace(m.Experience)
	m.SourceName = strings.TrimSpace(m.SourceName)
	m.Status = ParseStatus(string(m.Status))
	return m
}

func applyPatch(m TeamMember, p MemberPatch) TeamMember {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.Name, p.Name)
	set(&m.Email, p.Email)
	set(&m.ContactNumber, p.ContactNumber)
	set(&m.Position, p.Position)
	set(&m.Department, p.Department)
	set(&m.Location, p.Location)
	set(&m.JoinDate, p.JoinDate)
	set(&m.Skills, p.Skills)
	set(&m.Experience, p.Experience)
	set(&m.SourceName, p.SourceName)
	if p.Status != nil {
		m.Status = *p.Status
	}
	return m
}
