package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSchema() Schema {
	return MustSchema(
		Column{Name: "uid", Kind: Uint16},
		Column{Name: "scene", Kind: Uint8},
		Column{Name: "grouped", Kind: Bool},
		Column{Name: "description", Kind: String},
		Column{Name: "rt", Kind: Float32},
	)
}

// TestNewSchema tests schema construction rules.
func TestNewSchema(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		_, err := NewSchema(Column{Name: "", Kind: Uint8})
		if !errors.Is(err, ErrEmptyColumnName) {
			t.Errorf("expected ErrEmptyColumnName, got %v", err)
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()
		_, err := NewSchema(Column{Name: "a", Kind: Uint8}, Column{Name: "a", Kind: Bool})
		if !errors.Is(err, ErrDuplicateColumn) {
			t.Errorf("expected ErrDuplicateColumn, got %v", err)
		}
	})

	t.Run("columns are copied", func(t *testing.T) {
		t.Parallel()
		s := MustSchema(Column{Name: "parent", Kind: Enum, Levels: []string{"Grouped", "Alone"}})
		cols := s.Columns()
		cols[0].Name = "changed"
		cols[0].Levels[0] = "changed"
		if s.Column(0).Name != "parent" || s.Column(0).Levels[0] != "Grouped" {
			t.Error("schema was mutated through Columns()")
		}
	})

	t.Run("index of unknown column", func(t *testing.T) {
		t.Parallel()
		if _, err := testSchema().Index("nope"); !errors.Is(err, ErrUnknownColumn) {
			t.Errorf("expected ErrUnknownColumn, got %v", err)
		}
	})
}

// TestTableAppend tests insert-time validation.
func TestTableAppend(t *testing.T) {
	t.Parallel()

	var nilFloat *float64
	rt := 812.0

	tests := []struct {
		name    string
		values  []any
		wantErr error
		wantCol string
	}{
		{
			name:   "canonical types",
			values: []any{uint16(1), uint8(3), true, "a dot", float32(812)},
		},
		{
			name:   "convertible numbers and pointers",
			values: []any{0, 3.0, false, "", &rt},
		},
		{
			name:    "arity mismatch",
			values:  []any{uint16(1)},
			wantErr: ErrArity,
		},
		{
			name:    "nil interface",
			values:  []any{uint16(1), nil, true, "", float32(1)},
			wantErr: ErrNull,
			wantCol: "scene",
		},
		{
			name:    "nil pointer",
			values:  []any{uint16(1), uint8(3), true, "", nilFloat},
			wantErr: ErrNull,
			wantCol: "rt",
		},
		{
			name:    "u8 overflow",
			values:  []any{uint16(1), 256, true, "", float32(1)},
			wantErr: ErrOutOfRange,
			wantCol: "scene",
		},
		{
			name:    "negative uid",
			values:  []any{-1, uint8(0), true, "", float32(1)},
			wantErr: ErrOutOfRange,
			wantCol: "uid",
		},
		{
			name:    "fractional integer",
			values:  []any{uint16(0), 2.5, true, "", float32(1)},
			wantErr: ErrType,
			wantCol: "scene",
		},
		{
			name:    "string in bool column",
			values:  []any{uint16(0), uint8(2), "true", "", float32(1)},
			wantErr: ErrType,
			wantCol: "grouped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := New(testSchema())
			err := tbl.Append(tt.values...)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tbl.Len() != 1 {
					t.Errorf("expected 1 row, got %d", tbl.Len())
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tbl.Len() != 0 {
				t.Errorf("expected table unchanged, got %d rows", tbl.Len())
			}
			if tt.wantCol != "" {
				var re *RowError
				if !errors.As(err, &re) {
					t.Fatalf("expected *RowError, got %T", err)
				}
				if re.Column != tt.wantCol {
					t.Errorf("expected column %q, got %q", tt.wantCol, re.Column)
				}
				if !strings.Contains(err.Error(), "row 0") {
					t.Errorf("expected error to name the row, got %q", err.Error())
				}
			}
		})
	}
}

// TestTableEnum tests enum validation and derived columns.
func TestTableEnum(t *testing.T) {
	t.Parallel()

	tbl := New(testSchema())
	if err := tbl.Append(uint16(0), uint8(1), true, "", float32(1)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Append(uint16(1), uint8(1), false, "", float32(2)); err != nil {
		t.Fatal(err)
	}

	parent := Column{Name: "parent", Kind: Enum, Levels: []string{"Grouped", "Alone"}}
	derived, err := tbl.WithColumn(parent, func(row []any) any {
		if row[2].(bool) {
			return "Grouped"
		}
		return "Alone"
	})
	if err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}

	derived, err = derived.Drop("grouped")
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}

	got, err := derived.Strings("parent")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Grouped", "Alone"}, got); diff != "" {
		t.Errorf("parent mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"uid", "scene", "description", "rt", "parent"}, derived.Schema().Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	t.Run("undeclared level is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := tbl.WithColumn(parent, func([]any) any { return "Both" })
		if !errors.Is(err, ErrEnumLevel) {
			t.Errorf("expected ErrEnumLevel, got %v", err)
		}
	})

	t.Run("typed accessor checks kind", func(t *testing.T) {
		t.Parallel()
		if _, err := tbl.Uint8s("uid"); !errors.Is(err, ErrType) {
			t.Errorf("expected ErrType, got %v", err)
		}
	})
}

// TestCSVRoundTrip tests that a written table reloads with identical values.
func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := New(testSchema())
	rows := [][]any{
		{uint16(0), uint8(3), true, "a, quoted \"dot\"", float32(812)},
		{uint16(1), uint8(255), false, "", float32(0.1)},
		{uint16(65535), uint8(0), true, "line\nbreak", float32(1234.5678)},
	}
	for _, r := range rows {
		if err := tbl.Append(r...); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "uid,scene,grouped,description,rt\n0,3,true,") {
		t.Errorf("unexpected csv prefix: %q", buf.String())
	}
	if !strings.Contains(buf.String(), ",812.0\n") {
		t.Errorf("expected integral float rendered as 812.0, got %q", buf.String())
	}

	loaded, err := ReadCSV(bytes.NewReader(buf.Bytes()), testSchema())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if loaded.Len() != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), loaded.Len())
	}
	for i, want := range rows {
		if diff := cmp.Diff(want, loaded.Row(i)); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	var again bytes.Buffer
	if err := loaded.WriteCSV(&again); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), again.Bytes()) {
		t.Errorf("rewritten csv differs:\n%s\n---\n%s", buf.String(), again.String())
	}
}

// TestReadCSVErrors tests strict schema loading.
func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantLine int
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrHeader,
		},
		{
			name:    "wrong header",
			input:   "uid,scene,grouped,desc,rt\n",
			wantErr: ErrHeader,
		},
		{
			name:    "header with too few columns",
			input:   "uid,scene,grouped,description\n",
			wantErr: ErrHeader,
		},
		{
			name:     "null in typed column",
			input:    "uid,scene,grouped,description,rt\n0,1,true,x,1.0\n1,,true,x,1.0\n",
			wantErr:  ErrNull,
			wantLine: 3,
		},
		{
			name:     "bad bool",
			input:    "uid,scene,grouped,description,rt\n0,1,maybe,x,1.0\n",
			wantErr:  ErrType,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadCSV(strings.NewReader(tt.input), testSchema())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantLine > 0 {
				var re *RowError
				if !errors.As(err, &re) {
					t.Fatalf("expected *RowError, got %T", err)
				}
				if re.Line != tt.wantLine {
					t.Errorf("expected line %d, got %d", tt.wantLine, re.Line)
				}
			}
		})
	}
}

// TestFormatFloat32 tests float rendering.
func TestFormatFloat32(t *testing.T) {
	t.Parallel()

	tests := map[float32]string{
		812:   "812.0",
		0:     "0.0",
		0.1:   "0.1",
		-2.25: "-2.25",
	}
	for in, want := range tests {
		if got := FormatFloat32(in); got != want {
			t.Errorf("FormatFloat32(%v) = %q, want %q", in, got, want)
		}
	}
}
