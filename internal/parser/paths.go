package parser

import (
	"path/filepath"
	"strings"
)

// Output file suffixes replacing the dataset extension.
const (
	CountsSuffix  = "_counts.csv"
	NoticedSuffix = "_noticed.csv"
)

// OutputPaths returns the counts and noticed CSV paths for a dataset: the
// same directory, with the extension replaced by the dataset suffixes.
// A dataset without an extension gets the suffixes appended.
func OutputPaths(dataset string) (counts, noticed string) {
	dir, base := filepath.Split(dataset)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(dir, stem+CountsSuffix), filepath.Join(dir, stem+NoticedSuffix)
}
