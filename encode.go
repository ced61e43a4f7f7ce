package arff

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Relationer names a data set. Implement it on the slice or array type
// passed to [Marshal] to control the @RELATION line; without it the data
// set is written as "unnamed_data".
type Relationer interface {
	RelationName() string
}

// Marshal renders a data set as ARFF text. data must be a slice or array
// of rows; a row is a struct with named columns, a fixed-size array, or
// any nesting of fixed-size arrays and primitives.
func Marshal(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders a data set as ARFF text into w.
func Write(w io.Writer, data any) error {
	name := defaultRelation
	if r, ok := data.(Relationer); ok && r.RelationName() != "" {
		name = r.RelationName()
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: nil data set", ErrUnsupportedShape)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("%w: data set must be a slice or array of rows, got %s", ErrUnsupportedShape, v.Type())
	}
	s, err := shapeOf(v.Type().Elem())
	if err != nil {
		return err
	}

	var b strings.Builder
	Header{Relation: name, Attrs: s.attributes()}.write(&b)

	cols := make([]colValue, 0, s.leaves)
	for i := 0; i < v.Len(); i++ {
		cols = cols[:0]
		if err := flattenRow(v.Index(i), s, &cols); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if len(cols) != s.leaves {
			return fmt.Errorf("%w: row %d flattened to %d columns, want %d", ErrRowArity, i, len(cols), s.leaves)
		}
		writeRow(&b, cols)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, cols []colValue) {
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		writeToken(b, c)
	}
	b.WriteByte('\n')
}

// writeToken emits one column value. Strings are always quoted so empty
// and whitespace-only values survive a round trip; nominal labels are
// quoted only when they would otherwise be misread.
func writeToken(b *strings.Builder, c colValue) {
	switch c.tag {
	case colMissing:
		b.WriteByte('?')
	case colNumber:
		b.WriteString(c.text)
	case colText:
		quoteInto(b, c.text)
	case colNominal:
		if needsQuoting(c.text) {
			quoteInto(b, c.text)
		} else {
			b.WriteString(c.text)
		}
	}
}

// writeName emits a declared name (relation or attribute), quoting it
// when a bare spelling would be misread on the way back in.
func writeName(b *strings.Builder, s string) {
	if needsQuoting(s) {
		quoteInto(b, s)
	} else {
		b.WriteString(s)
	}
}

func quoteInto(b *strings.Builder, s string) {
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
}

func needsQuoting(s string) bool {
	if s == "" || s == "?" {
		return true
	}
	return strings.ContainsAny(s, ", \t'\"%{}")
}
