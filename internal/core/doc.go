// Package core provides the business logic for building the HCL catalog.
//
// This package is the heart of the hardware compatibility list service,
// containing all domain logic independent of any UI or transport layer. It
// can be used by web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
//   - Field resolution: [Resolve] maps a logical field to the first of its
//     accepted header spellings that has a value.
//   - Fill-down: [FillDown] carries vendor and component across rows of one
//     sheet, the way merged cells read in a spreadsheet.
//   - Aggregation: [Aggregate] folds the rows of every sheet into one
//     [Product] per model, collecting firmware from the firmware sheet and a
//     driver entry per OS from the others.
//   - OS labels: [CleanOSLabel] is applied while aggregating; [Classify] is
//     applied at display time to derive badge family and version tag.
//   - Catalog: [Catalog] is an immutable snapshot with read-only queries.
//   - Groups: [GroupSet] is client-held state; the server only transforms it.
//
// # Loading
//
// [Service.Refresh] fetches all configured sheets concurrently from a
// [RowSource]. A sheet that fails contributes no rows; aggregation runs once
// every fetch has settled and the new [Snapshot] replaces the old one whole.
//
//	svc, _ := core.NewService(src, core.ServiceConfig{
//	    Sheets: []core.Sheet{{Name: "Windows"}, {Name: "RHEL"}, {Name: "FW", Firmware: true}},
//	})
//	snap, err := svc.Refresh(ctx)
//
// # Error Handling
//
// Row data never produces errors: malformed rows are dropped and missing
// fields take documented defaults. Errors come only from fetching and from
// group operations, and map to user messages through [MapError].
package core
