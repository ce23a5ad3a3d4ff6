// Package core provides the business logic for the team directory.
//
// This package aggregates team rosters from a collection of independently
// shaped sheets, independent of any UI or transport layer. It can be used by
// web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
//   - [TabularSource]: the remote collection (catalog + per-sheet values).
//     Adapters live under internal/source.
//   - [SourceCatalog]: resolves the ordered, unique sheet names of a pass.
//   - [SourceFetcher]: reads one sheet and normalizes it via [NormalizeRows].
//   - [RecordAggregator]: runs one pass, live or fallback, never both.
//   - [RosterStore]: the in-memory roster, replaced on every pass.
//   - [Filter], [DistinctValues], [ExportCSV]: pure functions over a roster.
//   - [Service]: the entry point tying it together.
//
// # Header Normalization
//
// Each sheet has its own header row. Headers are trimmed and lower-cased and
// mapped through the alias table in internal/schema:
//
//	"E-mail Address" -> email
//	"Mobile"         -> contactNumber
//	"Join Date"      -> joinDate
//	"Location"       -> location
//
// # Failure Handling
//
// A failing sheet is logged and skipped ([FetchError]). A failing catalog or
// a missing credential replaces the whole pass with the built-in roster and
// sets [PassResult.Unconfigured]. Passes never return errors; edits return
// [ValidationError], [ErrMemberNotFound] or [ErrRefreshInProgress].
package core
