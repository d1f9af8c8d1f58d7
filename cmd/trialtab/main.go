// Package main provides the entry point for the trialtab CLI.
//
// trialtab turns jsPsych result exports (one JSON timeline per line) into
// the counts and noticed CSV datasets of an inattentional blindness
// experiment, and summarizes the noticing rates they contain.
//
// Usage:
//
//	trialtab parse <dataset>
//	trialtab analyze <dataset>
//
// See --help for all available options.
package main

// main is the entry point for trialtab.
func main() {
	Execute()
}
