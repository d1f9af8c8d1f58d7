// Package parser converts experiment exports into the counts and noticed
// datasets.
//
// An export holds one JSON array per line, each the full timeline of one
// subject. Decode reads the lines, skipping (and reporting) any that are
// not valid JSON. For every decoded subject, Trim cuts the instructions
// and practice trials before the passed comprehension quiz and the exit
// page at the end, and ParseSubject maps the remaining steps onto rows:
//
//   - slider responses become count rows
//   - the button response opens the subject's single notice row
//   - the survey-text response fills in the notice description
//
// Any other step is ignored. Subjects are numbered by their position among
// the decoded lines, and both datasets share that uid.
package parser
