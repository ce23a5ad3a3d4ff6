package core

import (
	"context"
	"strings"
	"time"
)

// TabularSource is the remote collection of named sheets the roster is
// aggregated from. Implementations wrap ErrSourceUnavailable or
// ErrSourceMalformed so failures can be classified.
type TabularSource interface {
	// Catalog returns the ordered sheet names of the collection.
	Catalog(ctx context.Context) ([]string, error)
	// Values returns the raw grid for one sheet. Row 0 is the header row.
	Values(ctx context.Context, source string) ([][]string, error)
}

// MemberStatus is the employment state of a team member.
type MemberStatus string

const (
	StatusActive   MemberStatus = "Active"
	StatusInactive MemberStatus = "Inactive"
	StatusOnLeave  MemberStatus = "OnLeave"
)

// ParseStatus maps free-form sheet values onto a MemberStatus.
// Matching ignores case, spaces, dashes and underscores ("On leave",
// "on-leave"). Empty or unrecognized values resolve to StatusActive.
func ParseStatus(s string) MemberStatus {
	status, _ := LookupStatus(s)
	return status
}

// LookupStatus is ParseStatus that also reports whether s was empty or named
// a known status.
func LookupStatus(s string) (MemberStatus, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", "active":
		return StatusActive, true
	case "inactive":
		return StatusInactive, true
	case "onleave", "leave":
		return StatusOnLeave, true
	default:
		return StatusActive, false
	}
}

// TeamMember is the canonical roster record.
type TeamMember struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	ContactNumber string       `json:"contactNumber,omitempty"`
	Position      string       `json:"position"`
	Department    string       `json:"department,omitempty"`
	Location      string       `json:"location,omitempty"`
	JoinDate      string       `json:"joinDate,omitempty"`
	Status        MemberStatus `json:"status"`
	Skills        string       `json:"skills,omitempty"`
	Experience    string       `json:"experience,omitempty"`
	SourceName    string       `json:"sourceName"`
}

// FailureKind classifies a per-source fetch failure.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureMalformed   FailureKind = "malformed"
)

// SourceFailure records a source skipped during an aggregation pass.
type SourceFailure struct {
	Source string      `json:"source"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// PassMode indicates where the roster of a pass came from.
type PassMode string

const (
	PassLive     PassMode = "live"
	PassFallback PassMode = "fallback"
)

// PassResult is the outcome of one aggregation pass.
type PassResult struct {
	Members       []TeamMember    `json:"members"`
	Catalog       []string        `json:"catalog"`
	Mode          PassMode        `json:"mode"`
	Unconfigured  bool            `json:"unconfigured"`
	FailedSources []SourceFailure `json:"failedSources,omitempty"`
	StartedAt     time.Time       `json:"startedAt"`
	Duration      time.Duration   `json:"duration"`
}

// FilterSpec holds the optional roster predicates. Empty fields match all.
type FilterSpec struct {
	FreeText   string `json:"q,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Source     string `json:"source,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (f FilterSpec) IsEmpty() bool {
	return f.FreeText == "" && f.Position == "" && f.Department == "" && f.Source == ""
}

// Field selects a roster column for DistinctValues.
type Field string

const (
	FieldPosition   Field = "position"
	FieldDepartment Field = "department"
	FieldSource     Field = "source"
	FieldLocation   Field = "location"
	FieldStatus     Field = "status"
)

// RosterStats summarizes a roster for the directory header cards.
type RosterStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Departments int `json:"departments"`
	Sources     int `json:"sources"`
}

// MemberPatch carries optional field updates; nil fields are left unchanged.
type MemberPatch struct {
	Name          *string       `json:"name,omitempty"`
	Email         *string       `json:"email,omitempty"`
	ContactNumber *string       `json:"contactNumber,omitempty"`
	Position      *string       `json:"position,omitempty"`
	Department    *string       `json:"department,omitempty"`
	Location      *string       `json:"location,omitempty"`
	JoinDate      *string       `json:"joinDate,omitempty"`
	Status        *MemberStatus `json:"status,omitempty"`
	Skills        *string       `json:"skills,omitempty"`
	Experience    *string       `json:"experience,omitempty"`
	SourceName    *string       `json:"sourceName,omitempty"`
}
