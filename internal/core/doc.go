// Package core implements the checklist tracker's domain logic,
// independent of any transport. The web layer, tests and tools all drive
// it through the same functions.
//
// # Pipeline
//
// Tasks flow through a fixed pipeline:
//
//  1. [Loader] reads a CSV source. Rows are converted with [ParseTaskRow]
//     and checked with [ValidateTask]; rejected rows are dropped with a
//     diagnostic. A missing file or missing column yields an empty set and
//     a [LoadResult.Problem] instead of an error.
//  2. [Query] sorts and filters the loaded tasks according to a
//     [QueryState]. [QueryCache] memoizes the result per session.
//  3. [Paginate] slices the view into fixed-size pages; [Navigate] moves
//     between them. Page counts come from the filtered view.
//  4. [Render] and [ExportFile] write the view as CSV, XLSX or PDF through
//     the exporter registry.
//
// The overview table is separate: [FilterProjects] narrows the seeded
// project list by name and status.
//
// # Sessions
//
// [Service] keeps one [Session] per browser. A session owns its tasks,
// query state and evidence; sessions never share mutable state.
//
// # Error Handling
//
// Failures are sentinel errors ([ErrSourceNotFound], [ErrSchemaMismatch],
// [ErrExportWrite], ...) wrapped with context. [MapError] turns them into
// a [UserMessage] with a support code:
//
//   - VAL001-VAL005: header and row validation
//   - FILE001-FILE004: source and upload files
//   - EXP001-EXP002: exports
//   - EVD001-EVD002: evidence
//   - UPL001-UPL003: upload scheduling
package core
