package core

// normalize.go turns one source's raw grid into canonical rows.
//
// The header row is resolved once into a HeaderPlan (raw column -> canonical
// key) using the schema alias table; data rows are then zipped against it.
// Blank rows are dropped, short rows pad with "", long rows are truncated and
// when two columns resolve to the same key the later column wins.

import (
	"strings"

	"github.com/JonMunkholm/teamroster/internal/schema"
)

// CanonicalRow maps canonical keys to cell values for one data row.
type CanonicalRow map[string]string

// HeaderPlan holds the canonical key for each raw header column.
type HeaderPlan []string

// PlanHeaders resolves every raw header to its canonical key.
func PlanHeaders(header []string) HeaderPlan {
	plan := make(HeaderPlan, len(header))
	for i, h := range header {
		plan[i] = schema.CanonicalKey(h)
	}
	return plan
}

// Apply zips a data row against the plan.
func (p HeaderPlan) Apply(row []string) CanonicalRow {
	out := make(CanonicalRow, len(p))
	for i, key := range p {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		out[key] = v
	}
	return out
}

// NormalizeRows converts a raw grid (row 0 = header) into canonical rows.
// A grid with no data rows yields an empty slice.
func NormalizeRows(grid [][]string) []CanonicalRow {
	if len(grid) <= 1 {
		return []CanonicalRow{}
	}

	plan := PlanHeaders(grid[0])
	rows := make([]CanonicalRow, 0, len(grid)-1)
	for _, row := range grid[1:] {
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, plan.Apply(row))
	}
	return rows
}

// toMember builds a record from a canonical row. ok is false when a required
// field is empty after trimming.
func toMember(row CanonicalRow, source string) (TeamMember, bool) {
	get := func(key string) string { return strings.TrimSpace(row[key]) }

	m := TeamMember{
		Name:          get(schema.Name),
		Email:         get(schema.Email),
		ContactNumber: get(schema.ContactNumber),
		Position:      get(schema.Position),
		Department:    get(schema.Department),
		Location:      get(schema.Location),
		JoinDate:      get(schema.JoinDate),
		Status:        ParseStatus(get(schema.Status)),
		Skills:        get(schema.Skills),
		Experience:    get(schema.Experience),
		SourceName:    source,
	}
	if missingRequired(m) != "" {
		return TeamMember{}, false
	}
	return m, true
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
