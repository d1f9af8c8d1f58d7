// Package analysis loads the parsed datasets back from CSV and computes
// the noticing-rate summaries of an experiment: the share of subjects who
// noticed the probe per parent category and per scene, and how many
// counting trials each subject and scene contributed.
package analysis
