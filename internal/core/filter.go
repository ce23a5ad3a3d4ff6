package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the members matching every non-empty predicate of spec, in
// roster order. The result never aliases roster.
func Filter(roster []TeamMember, spec FilterSpec) []TeamMember {
	fold := cases.Fold()
	q := fold.String(spec.FreeText)
	position := fold.String(spec.Position)
	department := fold.String(spec.Department)

	contains := func(field, sub string) bool {
		return strings.Contains(fold.String(field), sub)
	}

	out := make([]TeamMember, 0, len(roster))
	for _, m := range roster {
		if q != "" && !contains(m.Name, q) && !contains(m.Email, q) && !contains(m.Position, q) {
			continue
		}
		if position != "" && !contains(m.Position, position) {
			continue
		}
		if department != "" && !contains(m.Department, department) {
			continue
		}
		if spec.Source != "" && m.SourceName != spec.Source {
			continue
		}
		out = append(out, m)
	}
	return out
}

// DistinctValues returns each non-empty value of field once, in order of
// first appearance.
func DistinctValues(roster []TeamMember, field Field) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range roster {
		v := fieldValue(m, field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func fieldValue(m TeamMember, field Field) string {
	switch field {
	case FieldPosition:
		return m.Position
	case FieldDepartment:
		return m.Department
	case FieldSource:
		return m.SourceName
	case FieldLocation:
		return m.Location
	case FieldStatus:
		return string(m.Status)
	default:
		return ""
	}
}

// Stats summarizes a roster. Sources counts the catalog, not the sources
// that happen to contribute members.
func Stats(roster []TeamMember, catalog []string) RosterStats {
	st := RosterStats{
		Total:       len(roster),
		Departments: len(DistinctValues(roster, FieldDepartment)),
		Sources:     len(catalog),
	}
	for _, m := range roster {
		if m.Status == StatusActive {
			st.Active++
		}
	}
	return st
}
