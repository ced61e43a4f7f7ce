package arff

import (
	"fmt"
	"io"
	"reflect"
)

// Unmarshal parses ARFF text into v, which must be a non-nil pointer to a
// slice or array of rows. A fixed-size array target requires the data to
// hold exactly that many rows. Header declarations fix the expected column
// count; value interpretation follows the target row type, with struct
// fields matched to header names so field order does not matter.
func Unmarshal(text []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrUnsupportedShape, v)
	}
	target := rv.Elem()
	switch target.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return fmt.Errorf("%w: target must point to a slice or array of rows, got %s", ErrUnsupportedShape, target.Type())
	}
	rowType := target.Type().Elem()
	s, err := shapeOf(rowType)
	if err != nil {
		return err
	}

	lx := newLexer(string(text))
	hdr, err := parseHeader(lx)
	if err != nil {
		return err
	}
	if len(hdr.Attrs) != s.leaves {
		return fmt.Errorf("%w: header declares %d columns, row shape needs %d", ErrRowArity, len(hdr.Attrs), s.leaves)
	}
	order := fieldOrder(hdr.Attrs, s)

	isArray := target.Kind() == reflect.Array
	var rows reflect.Value
	if !isArray {
		rows = reflect.MakeSlice(target.Type(), 0, 0)
	}
	count := 0
	for {
		ln, ok, err := lx.next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch ln.kind {
		case lineBlank, lineComment:
		case lineRow:
			row := reflect.New(rowType).Elem()
			if err := unflattenRow(ln.fields, ln.num, row, s, order); err != nil {
				return err
			}
			if isArray {
				if count >= target.Len() {
					return fmt.Errorf("%w: more than %d rows", ErrRowCount, target.Len())
				}
				target.Index(count).Set(row)
			} else {
				rows = reflect.Append(rows, row)
			}
			count++
		default:
			return &ParseError{Line: ln.num, Column: -1, Err: fmt.Errorf("%w: directive after @DATA", ErrFormat)}
		}
	}
	if isArray {
		if count != target.Len() {
			return fmt.Errorf("%w: parsed %d rows, want %d", ErrRowCount, count, target.Len())
		}
		return nil
	}
	target.Set(rows)
	return nil
}

// Read parses ARFF text from r into v. It is a thin wrapper around
// [Unmarshal]; the input is materialized first.
func Read(r io.Reader, v any) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(text, v)
}
