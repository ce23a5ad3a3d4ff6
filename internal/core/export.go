package core

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/teamroster/internal/schema"
)

var (
	errInvalidUTF8    = errors.New("value is not valid UTF-8")
	errCarriageReturn = errors.New("value contains a carriage return")
)

// ExportCSV serializes roster to the fixed-header delimited format. Every
// field is quoted and lines are separated by "\n" with no trailing newline.
func ExportCSV(roster []TeamMember) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, roster); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteCSV writes the export document to w. The roster is validated before
// anything is written, so a failed export produces no partial output.
func WriteCSV(w io.Writer, roster []TeamMember) error {
	lines := make([]string, 0, len(roster)+1)
	lines = append(lines, strings.Join(schema.ExportHeader, ","))

	for i, m := range roster {
		record := exportRecord(m)
		quoted := make([]string, len(record))
		for j, v := range record {
			if err := checkExportable(v); err != nil {
				return &ExportError{Row: i + 1, Field: schema.ExportHeader[j], Err: err}
			}
			quoted[j] = quoteField(v)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// exportRecord returns the fields of m in ExportHeader order.
func exportRecord(m TeamMember) []string {
	return []string{
		m.Name,
		m.Email,
		m.ContactNumber,
		m.Position,
		m.Department,
		m.Location,
		string(m.Status),
		m.SourceName,
	}
}

// checkExportable rejects values a CSV reader could not reproduce exactly.
func checkExportable(s string) error {
	if !utf8.ValidString(s) {
		return errInvalidUTF8
	}
	if strings.ContainsRune(s, '\r') {
		return errCarriageReturn
	}
	return nil
}

// quoteField wraps s in double quotes, doubling embedded quotes.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
