package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes the header line followed by every row.
// Output depends only on the table contents, so writing the same table
// twice yields identical bytes.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.schema.Names()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, t.schema.Len())
	for i, row := range t.rows {
		for c, v := range row {
			record[c] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders one stored value.
func formatCell(v any) string {
	switch x := v.(type) {
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case float32:
		return FormatFloat32(x)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat32 renders f in its shortest round-trip decimal form,
// keeping a ".0" suffix on integral values so the column reads back as float.
func FormatFloat32(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return s
}

// ReadCSV loads a table from r under schema.
// The header must list exactly the schema's column names in order, and
// every cell must parse as its column kind. An empty cell in a non-string
// column is a null and fails with a *RowError naming the line and column.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrHeader)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	names := schema.Names()
	if len(header) != len(names) {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrHeader, len(header), len(names))
	}
	for i, name := range header {
		if name != names[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeader, i, name, names[i])
		}
	}

	cr.FieldsPerRecord = schema.Len()
	t := New(schema)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)
		row := make([]any, len(record))
		for c, cell := range record {
			col := schema.columns[c]
			v, err := parseCell(col, cell)
			if err != nil {
				return nil, &RowError{Row: t.Len(), Line: line, Column: col.Name, Err: err}
			}
			row[c] = v
		}
		if err := t.Append(row...); err != nil {
			var re *RowError
			if errors.As(err, &re) {
				re.Line = line
			}
			return nil, err
		}
	}

	return t, nil
}

// parseCell converts a CSV cell into the canonical type for col.
func parseCell(col Column, cell string) (any, error) {
	if cell == "" && col.Kind != String {
		return nil, ErrNull
	}

	switch col.Kind {
	case Uint8:
		n, err := strconv.ParseUint(cell, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrType, cell, err)
		}
		return uint8(n), nil
	case Uint16:
		n, err := strconv.ParseUint(cell, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrType, cell, err)
		}
		return uint16(n), nil
	case Float32:
		f, err := strconv.ParseFloat(cell, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrType, cell, err)
		}
		return float32(f), nil
	case Bool:
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrType, cell, err)
		}
		return b, nil
	default:
		return cell, nil
	}
}
