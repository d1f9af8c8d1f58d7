// Package model defines the core data structures used throughout trialtab.
//
// This package contains the following main types:
//   - Event: One raw step of a subject's experiment timeline
//   - Subject: A decoded input line holding a full timeline
//   - CountRow / NoticeRow: Typed rows of the two output datasets
//   - NoticeBuilder: Per-subject builder that assembles the single notice row
//   - Parent: The derived Grouped/Alone category used by the analysis
//   - ParseRun: The state carried through the parse pipeline
//
// The CSV schemas of both datasets are exposed as functions returning fresh
// table.Schema values so that readers and writers receive them explicitly.
package model
