package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

func noticeTable(t *testing.T, rows ...model.NoticeRow) *table.Table {
	t.Helper()
	tbl := table.New(model.NoticeSchema())
	for _, r := range rows {
		if err := tbl.Append(r.Values()...); err != nil {
			t.Fatalf("failed to append notice row: %v", err)
		}
	}
	return tbl
}

func countTable(t *testing.T, rows ...model.CountRow) *table.Table {
	t.Helper()
	tbl := table.New(model.CountSchema())
	for _, r := range rows {
		if err := tbl.Append(r.Values()...); err != nil {
			t.Fatalf("failed to append count row: %v", err)
		}
	}
	return tbl
}

func derive(t *testing.T, notices *table.Table) *table.Table {
	t.Helper()
	derived, err := DeriveParent(notices)
	if err != nil {
		t.Fatalf("DeriveParent failed: %v", err)
	}
	return derived
}

// TestDeriveParent tests the grouped to parent conversion.
func TestDeriveParent(t *testing.T) {
	t.Parallel()

	derived := derive(t, noticeTable(t,
		model.NoticeRow{UID: 0, Scene: 1, Grouped: true, Noticed: true, Description: "dot"},
		model.NoticeRow{UID: 1, Scene: 1, Grouped: false},
	))

	want := []string{"uid", "scene", "noticed", "description", "rt", "order", "parent"}
	if diff := cmp.Diff(want, derived.Schema().Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	parents, err := derived.Strings(model.ColumnParent)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Grouped", "Alone"}, parents); diff != "" {
		t.Errorf("parent mismatch (-want +got):\n%s", diff)
	}

	if _, err := DeriveParent(derived); !errors.Is(err, table.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn deriving twice, got %v", err)
	}
}

// TestNoticedByParent tests the per-category noticing rate.
func TestNoticedByParent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows []model.NoticeRow
		want []ParentMean
	}{
		{
			name: "one subject per category",
			rows: []model.NoticeRow{
				{UID: 0, Grouped: true, Noticed: true, Description: "dot"},
				{UID: 1, Grouped: false, Noticed: false},
			},
			want: []ParentMean{
				{Parent: model.ParentGrouped, Mean: 1.0, N: 1},
				{Parent: model.ParentAlone, Mean: 0.0, N: 1},
			},
		},
		{
			name: "category order does not follow input order",
			rows: []model.NoticeRow{
				{UID: 0, Grouped: false, Noticed: true, Description: "dot"},
				{UID: 1, Grouped: false, Noticed: false},
				{UID: 2, Grouped: true, Noticed: false},
				{UID: 3, Grouped: false, Noticed: true, Description: "dot"},
			},
			want: []ParentMean{
				{Parent: model.ParentGrouped, Mean: 0, N: 1},
				{Parent: model.ParentAlone, Mean: 2.0 / 3.0, N: 3},
			},
		},
		{
			name: "absent category is omitted",
			rows: []model.NoticeRow{
				{UID: 0, Grouped: true, Noticed: true, Description: "dot"},
			},
			want: []ParentMean{
				{Parent: model.ParentGrouped, Mean: 1, N: 1},
			},
		},
		{
			name: "empty dataset",
			want: []ParentMean{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NoticedByParent(derive(t, noticeTable(t, tt.rows...)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("requires the parent column", func(t *testing.T) {
		t.Parallel()

		_, err := NoticedByParent(noticeTable(t))
		if !errors.Is(err, ErrMissingParent) {
			t.Errorf("expected ErrMissingParent, got %v", err)
		}
	})
}

// TestNoticedBySceneParent tests the per-scene noticing rate.
func TestNoticedBySceneParent(t *testing.T) {
	t.Parallel()

	derived := derive(t, noticeTable(t,
		model.NoticeRow{UID: 0, Scene: 4, Grouped: false, Noticed: true, Description: "a"},
		model.NoticeRow{UID: 1, Scene: 2, Grouped: false, Noticed: false},
		model.NoticeRow{UID: 2, Scene: 4, Grouped: true, Noticed: true, Description: "b"},
		model.NoticeRow{UID: 3, Scene: 2, Grouped: true, Noticed: true, Description: "c"},
		model.NoticeRow{UID: 4, Scene: 4, Grouped: true, Noticed: false},
	))

	got, err := NoticedBySceneParent(derived)
	if err != nil {
		t.Fatal(err)
	}
	want := []GroupMean{
		{Scene: 2, Parent: model.ParentGrouped, Mean: 1, N: 1},
		{Scene: 2, Parent: model.ParentAlone, Mean: 0, N: 1},
		{Scene: 4, Parent: model.ParentGrouped, Mean: 0.5, N: 2},
		{Scene: 4, Parent: model.ParentAlone, Mean: 1, N: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestCounts tests the counting trial summaries.
func TestCounts(t *testing.T) {
	t.Parallel()

	counts := countTable(t,
		model.CountRow{UID: 2, Scene: 1, Count: 4, RT: 1000, Order: 3},
		model.CountRow{UID: 0, Scene: 1, Count: 6, RT: 2000, Order: 3},
		model.CountRow{UID: 0, Scene: 3, Count: 5, RT: 500, Order: 4},
		model.CountRow{UID: 2, Scene: 1, Count: 9, RT: 600, Order: 5},
		model.CountRow{UID: 2, Scene: 3, Count: 7, RT: 700, Order: 6},
	)

	t.Run("per subject", func(t *testing.T) {
		t.Parallel()

		got, err := CountsPerSubject(counts)
		if err != nil {
			t.Fatal(err)
		}
		want := []SubjectCount{{UID: 0, N: 2}, {UID: 2, N: 3}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("per scene", func(t *testing.T) {
		t.Parallel()

		got, err := CountsByScene(counts)
		if err != nil {
			t.Fatal(err)
		}
		want := []SceneCount{
			{Scene: 1, Trials: 3, MeanCount: 19.0 / 3.0, MedianCount: 6, MeanRT: 1200},
			{Scene: 3, Trials: 2, MeanCount: 6, MedianCount: 6, MeanRT: 600},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestSortRows tests scene table ordering.
func TestSortRows(t *testing.T) {
	t.Parallel()

	base := []GroupMean{
		{Scene: 1, Parent: model.ParentGrouped, Mean: 0.5, N: 4},
		{Scene: 1, Parent: model.ParentAlone, Mean: 0.25, N: 4},
		{Scene: 2, Parent: model.ParentGrouped, Mean: 1, N: 1},
		{Scene: 2, Parent: model.ParentAlone, Mean: 0.25, N: 2},
	}

	tests := []struct {
		column string
		desc   bool
		want   []uint8
		wantP  []model.Parent
	}{
		{column: "scene", want: []uint8{1, 1, 2, 2}, wantP: []model.Parent{"Grouped", "Alone", "Grouped", "Alone"}},
		{column: "scene", desc: true, want: []uint8{2, 2, 1, 1}, wantP: []model.Parent{"Grouped", "Alone", "Grouped", "Alone"}},
		{column: "parent", want: []uint8{1, 2, 1, 2}, wantP: []model.Parent{"Grouped", "Grouped", "Alone", "Alone"}},
		{column: "mean", want: []uint8{1, 2, 1, 2}, wantP: []model.Parent{"Alone", "Alone", "Grouped", "Grouped"}},
		{column: "mean", desc: true, want: []uint8{2, 1, 1, 2}, wantP: []model.Parent{"Grouped", "Grouped", "Alone", "Alone"}},
		{column: "n", want: []uint8{2, 2, 1, 1}, wantP: []model.Parent{"Grouped", "Alone", "Grouped", "Alone"}},
	}

	for _, tt := range tests {
		name := tt.column
		if tt.desc {
			name += " desc"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rows := append([]GroupMean(nil), base...)
			if err := SortRows(rows, tt.column, tt.desc); err != nil {
				t.Fatal(err)
			}
			scenes := make([]uint8, len(rows))
			parents := make([]model.Parent, len(rows))
			for i, r := range rows {
				scenes[i] = r.Scene
				parents[i] = r.Parent
			}
			if diff := cmp.Diff(tt.want, scenes); diff != "" {
				t.Errorf("scene order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantP, parents); diff != "" {
				t.Errorf("parent order mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("unknown column", func(t *testing.T) {
		t.Parallel()

		if err := SortRows(nil, "rt", false); !errors.Is(err, ErrUnknownSortColumn) {
			t.Errorf("expected ErrUnknownSortColumn, got %v", err)
		}
	})
}

// TestSummarizeFromCSV loads parser output from disk and summarizes it.
func TestSummarizeFromCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	noticedPath := filepath.Join(dir, "pilot_noticed.csv")
	countsPath := filepath.Join(dir, "pilot_counts.csv")

	noticed := "uid,scene,grouped,noticed,description,rt,order\n" +
		"0,7,true,true,a grey dot,640.5,5\n" +
		"1,2,false,false,,1200.0,3\n"
	counts := "uid,scene,count,rt,order\n0,3,5,812.0,4\n"
	if err := os.WriteFile(noticedPath, []byte(noticed), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(countsPath, []byte(counts), 0o600); err != nil {
		t.Fatal(err)
	}

	notices, err := LoadNotices(noticedPath)
	if err != nil {
		t.Fatalf("LoadNotices failed: %v", err)
	}
	countRows, err := LoadCounts(countsPath)
	if err != nil {
		t.Fatalf("LoadCounts failed: %v", err)
	}

	got, err := Summarize("pilot.txt", notices, countRows)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	want := &Summary{
		Dataset:  "pilot.txt",
		Subjects: 2,
		Noticed:  1,
		Trials:   1,
		ByParent: []ParentMean{
			{Parent: model.ParentGrouped, Mean: 1, N: 1},
			{Parent: model.ParentAlone, Mean: 0, N: 1},
		},
		BySceneParent: []GroupMean{
			{Scene: 2, Parent: model.ParentAlone, Mean: 0, N: 1},
			{Scene: 7, Parent: model.ParentGrouped, Mean: 1, N: 1},
		},
		PerSubject: []SubjectCount{{UID: 0, N: 1}},
		ByScene:    []SceneCount{{Scene: 3, Trials: 1, MeanCount: 5, MedianCount: 5, MeanRT: 812}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadErrors tests that malformed CSV files are rejected.
func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadCounts(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("wrong dataset", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "counts.csv")
		if err := os.WriteFile(path, []byte("uid,scene,count,rt,order\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadNotices(path); !errors.Is(err, table.ErrHeader) {
			t.Errorf("expected ErrHeader, got %v", err)
		}
	})
}
