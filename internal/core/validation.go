package core

// validation.go checks candidate members before they enter the roster.
//
// The same rules guard two boundaries:
//  1. Sheet rows: a normalized row missing a required field is dropped
//  2. Local edits: AddMember/UpdateMember fail with a ValidationError and
//     the roster is left untouched. Edits also reject unknown statuses

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/teamroster/internal/schema"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Canonical field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// missingRequired returns the first required canonical field that is empty,
// or "" when all are present.
func missingRequired(m TeamMember) string {
	for _, spec := range schema.TeamFieldSpecs {
		if spec.Required && strings.TrimSpace(memberValue(m, spec.Key)) == "" {
			return spec.Key
		}
	}
	return ""
}

// ValidateMember checks required fields and that source belongs to catalog.
func ValidateMember(m TeamMember, catalog []string) error {
	if field := missingRequired(m); field != "" {
		return ValidationError{Field: field, Message: "required field is empty"}
	}
	if strings.TrimSpace(m.SourceName) == "" {
		return ValidationError{Field: "sourceName", Message: "required field is empty"}
	}
	if !slices.Contains(catalog, m.SourceName) {
		return ValidationError{
			Field:   "sourceName",
			Value:   m.SourceName,
			Message: fmt.Sprintf("unknown source; must be one of: %s", strings.Join(catalog, ", ")),
		}
	}
	return nil
}

// checkStatus rejects a non-empty status that names no known MemberStatus.
// Sheet rows are lenient and resolve such values to StatusActive instead.
func checkStatus(status MemberStatus) error {
	if _, ok := LookupStatus(string(status)); !ok {
		return ValidationError{
			Field:   "status",
			Value:   string(status),
			Message: "unknown status; must be one of: Active, Inactive, OnLeave",
		}
	}
	return nil
}

// memberValue returns the value of a canonical field.
func memberValue(m TeamMember, key string) string {
	switch key {
	case schema.Name:
		return m.Name
	case schema.Email:
		return m.Email
	case schema.ContactNumber:
		return m.ContactNumber
	case schema.Position:
		return m.Position
	case schema.Department:
		return m.Department
	case schema.Location:
		return m.Location
	case schema.JoinDate:
		return m.JoinDate
	case schema.Status:
		return string(m.Status)
	case schema.Skills:
		return m.Skills
	case schema.Experience:
		return m.Experience
	default:
		return ""
	}
}
