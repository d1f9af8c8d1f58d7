// Package table provides a fixed-schema, column-typed table.
//
// A Table is created from a Schema and grows one row at a time through
// Append, which validates every value against the column kinds before the
// row is stored. Tables are persisted and loaded as CSV; ReadCSV applies the
// schema strictly, so a missing or malformed cell fails with an error naming
// the line and column rather than producing a partially typed table.
//
// # Usage
//
//	schema := table.MustSchema(
//	    table.Column{Name: "uid", Kind: table.Uint16},
//	    table.Column{Name: "rt", Kind: table.Float32},
//	)
//	t := table.New(schema)
//	if err := t.Append(uint16(0), float32(812)); err != nil {
//	    return err
//	}
//	err := t.WriteCSV(w)
package table
