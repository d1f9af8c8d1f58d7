// Package pipeline runs a parse as a sequence of named steps.
//
// A parse decodes the newline-delimited dataset, tabulates the subjects
// into the counts and noticed tables, and writes both tables as CSV. Each
// stage is a Step that receives the shared *model.ParseRun and fills in its
// part. The pipeline checks for cancellation between steps, logs each one
// and records the names of the steps that ran.
package pipeline
