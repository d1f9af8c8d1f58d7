package analysis

import (
	"fmt"
	"os"

	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

// LoadNotices reads a noticed CSV written by the parser.
func LoadNotices(path string) (*table.Table, error) {
	return load(path, model.NoticeSchema())
}

// LoadCounts reads a counts CSV written by the parser.
func LoadCounts(path string) (*table.Table, error) {
	return load(path, model.CountSchema())
}

func load(path string, schema table.Schema) (*table.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := table.ReadCSV(f, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}
