// Package arff reads and writes ARFF (Attribute-Relation File Format)
// text, the tabular format used by Weka and the OpenML data sets.
//
// An ARFF file is a header of named, typed columns followed by
// comma-separated data rows. The central entry points are [Marshal] and
// [Unmarshal] (with [Write] and [Read] as io.Writer/io.Reader variants),
// which map a data set bidirectionally onto a slice or array of rows.
//
// # Row Shapes
//
// A row is a struct with named columns, a fixed-size array, or any
// nesting of fixed-size arrays and primitives. Nested values are
// flattened depth-first into columns:
//
//	type Pixel struct {
//	    RGB  [3]uint8 `arff:"rgb"` // columns rgb0, rgb1, rgb2
//	    Name string               // column Name
//	}
//	text, err := arff.Marshal([]Pixel{{RGB: [3]uint8{255, 0, 0}, Name: "red"}})
//
// Rows without named fields get positional column names col0, col1, ...
// Column names come from the outermost struct only; deeper structs,
// reached through arrays, contribute values but no names. A struct
// directly inside another struct, and slices anywhere in a row, are
// rejected with [ErrUnsupportedShape]. Decoding matches struct fields to
// header names, so the field order of the target type does not matter.
//
// Implement [Relationer] on the data set type to control the @RELATION
// name; the default is "unnamed_data".
//
// # Nominal Columns
//
// An integer-kinded named type implementing [Nominal] is a closed
// enumeration. The value is the index into the label set; the wire
// carries the label:
//
//	type Answer int
//
//	func (Answer) Labels() []string { return []string{"no", "yes", "maybe"} }
//
// Booleans are a built-in nominal column with labels {f, t}.
//
// # Missing Values
//
// Pointer-typed columns are optional. A nil pointer encodes as the
// missing marker `?`; decoding `?` into a non-pointer column fails with
// [ErrMissingValue]. A quoted "?" is an ordinary string.
//
// # Dynamic Loading
//
// When no target row type exists, [LoadDataSet] builds a [DataSet] of
// typed columns from the file's own declarations. A DataSet can be
// re-emitted as ARFF or exported as YAML for downstream tooling.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
// [ErrFormat] for malformed text, the shape family ([ErrUnsupportedShape],
// [ErrTruncatedRow], [ErrExtraColumns], [ErrRowArity], [ErrRowCount]) for
// structural mismatches, and the value family ([ErrNumberFormat],
// [ErrUnknownVariant], [ErrMissingValue]) for coercion failures. Failures
// inside the text carry position context via [ParseError]:
//
//	var perr *arff.ParseError
//	if errors.As(err, &perr) {
//	    log.Printf("line %d, column %d: %v", perr.Line, perr.Column, perr.Err)
//	}
//
// All transcoding is synchronous and allocation-local: no state is shared
// between calls, so concurrent use needs no coordination.
package arff
