package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/report"
)

const (
	noticedCSV = "uid,scene,grouped,noticed,description,rt,order\n" +
		"0,7,true,true,a grey dot,640.5,5\n" +
		"1,2,false,false,,1200.0,3\n" +
		"2,7,false,true,something,900.0,3\n"
	countsCSV = "uid,scene,count,rt,order\n" +
		"0,3,5,812.0,4\n" +
		"0,4,6,700.0,5\n" +
		"2,3,7,1000.0,4\n"
)

// writeParsed writes parser output for pilot.txt into dir and returns the
// dataset path.
func writeParsed(t *testing.T, dir string) string {
	t.Helper()
	writeFile(t, dir, "pilot_noticed.csv", noticedCSV)
	writeFile(t, dir, "pilot_counts.csv", countsCSV)
	return filepath.Join(dir, "pilot.txt")
}

// TestAnalyzeCmd runs the analyze command end to end.
func TestAnalyzeCmd(t *testing.T) {
	t.Run("plain text summary", func(t *testing.T) {
		dataset := writeParsed(t, t.TempDir())

		stdout, _, err := execute(t, "analyze", dataset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Subjects: 3",
			"Noticed:  2 (0.667)",
			"Grouped       1.000      1",
			"Alone         0.500      2",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output:\n%s", want, stdout)
			}
		}
	})

	t.Run("json report sorted by mean", func(t *testing.T) {
		dataset := writeParsed(t, t.TempDir())

		stdout, _, err := execute(t, "analyze", "-j", "-s", "mean", "--desc", dataset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		rows := got.Summary.BySceneParent
		if len(rows) != 3 {
			t.Fatalf("expected 3 scene rows, got %d", len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i-1].Mean < rows[i].Mean {
				t.Errorf("rows not in descending mean order: %+v", rows)
			}
		}
		if got.Summary.Trials != 3 || len(got.Summary.PerSubject) != 2 {
			t.Errorf("unexpected counts summary: %+v", got.Summary)
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		dir := t.TempDir()
		dataset := writeParsed(t, dir)
		output := filepath.Join(dir, "reports", "pilot.md")

		stdout, _, err := execute(t, "analyze", "-m", "-o", output, dataset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "# Noticing Summary") {
			t.Errorf("unexpected report:\n%s", content)
		}
	})

	t.Run("tee prints the summary while writing the file", func(t *testing.T) {
		dir := t.TempDir()
		dataset := writeParsed(t, dir)
		output := filepath.Join(dir, "pilot.json")

		stdout, _, err := execute(t, "analyze", "-j", "--tee", "-o", output, dataset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Subjects: 3") {
			t.Errorf("expected plain-text summary on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		var got report.JSONReport
		if err := json.Unmarshal(content, &got); err != nil {
			t.Fatalf("invalid JSON file: %v\n%s", err, content)
		}
		if got.Summary.Subjects != 3 {
			t.Errorf("expected 3 subjects, got %d", got.Summary.Subjects)
		}
	})

	t.Run("explicit csv paths", func(t *testing.T) {
		dir := t.TempDir()
		writeParsed(t, dir)

		stdout, _, err := execute(t, "analyze",
			"--noticed", filepath.Join(dir, "pilot_noticed.csv"),
			"--counts", filepath.Join(dir, "pilot_counts.csv"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "pilot_noticed.csv") {
			t.Errorf("expected the noticed path as dataset name:\n%s", stdout)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		dataset := writeParsed(t, t.TempDir())

		tests := []struct {
			name    string
			args    []string
			wantErr error
		}{
			{name: "no inputs", args: []string{"analyze"}, wantErr: config.ErrNoDataset},
			{name: "both formats", args: []string{"analyze", "-j", "-m", dataset}, wantErr: config.ErrConflictingReportFormats},
			{name: "unknown sort column", args: []string{"analyze", "-s", "rt", dataset}, wantErr: config.ErrInvalidSortColumn},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := execute(t, tt.args...)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("missing csv files", func(t *testing.T) {
		_, _, err := execute(t, "analyze", filepath.Join(t.TempDir(), "pilot.txt"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}
