// Package schema describes the canonical team roster columns and the rules
// used to map free-form sheet headers onto them.
package schema

import "strings"

// Canonical field keys. Keys not listed here pass through verbatim
// (lower-cased) and are ignored when a record is materialized.
const (
	Name          = "name"
	Email         = "email"
	ContactNumber = "contactNumber"
	Position      = "position"
	Department    = "department"
	Location      = "location"
	JoinDate      = "joinDate"
	Status        = "status"
	Skills        = "skills"
	Experience    = "experience"
)

// FieldSpec describes one canonical roster column.
type FieldSpec struct {
	Key      string
	Label    string // Display/export label
	Required bool   // Record is dropped when empty after normalization
}

// TeamFieldSpecs lists the canonical roster columns in display order.
var TeamFieldSpecs = []FieldSpec{
	{Key: Name, Label: "Name", Required: true},
	{Key: Email, Label: "Email", Required: true},
	{Key: ContactNumber, Label: "Phone"},
	{Key: Position, Label: "Position", Required: true},
	{Key: Department, Label: "Department"},
	{Key: Location, Label: "Location"},
	{Key: JoinDate, Label: "Join Date"},
	{Key: Status, Label: "Status"},
	{Key: Skills, Label: "Skills"},
	{Key: Experience, Label: "Experience"},
}

// HeaderRule maps a lower-cased, trimmed header to a canonical key when Match
// reports true. Rules are evaluated in order and the first match wins.
type HeaderRule struct {
	Key   string
	Match func(header string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, s := range subs {
			if !strings.Contains(h, s) {
				return false
			}
		}
		return true
	}
}

func exactly(names ...string) func(string) bool {
	return func(h string) bool {
		for _, n := range names {
			if h == n {
				return true
			}
		}
		return false
	}
}

// HeaderRules is the alias table applied to every source header.
//
// The exact aliases at the end cover the bare "mail"/"number" headers used by
// the legacy staff sheets. They run after the substring rules so a header
// such as "mobile number" still resolves through the phone rule.
var HeaderRules = []HeaderRule{
	{Key: Email, Match: containsAny("email", "e-mail")},
	{Key: ContactNumber, Match: containsAny("phone", "mobile", "contact")},
	{Key: JoinDate, Match: containsAll("join", "date")},
	{Key: Email, Match: exactly("mail")},
	{Key: ContactNumber, Match: exactly("number")},
}

// CanonicalKey resolves a raw header to its canonical key. Headers that match
// no rule are returned trimmed and lower-cased.
func CanonicalKey(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range HeaderRules {
		if rule.Match(h) {
			return rule.Key
		}
	}
	return h
}

// ExportHeader is the fixed header row of the roster CSV export.
var ExportHeader = []string{"Name", "Email", "Phone", "Position", "Department", "Location", "Status", "Sheet"}
