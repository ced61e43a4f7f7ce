package arff

import (
	"fmt"
	"reflect"
)

// flattenRow walks the shape depth-first, left to right, appending one
// column value per leaf.
func flattenRow(v reflect.Value, s *shape, out *[]colValue) error {
	switch s.kind {
	case shapeLeaf:
		cv, err := encodeLeaf(v, s)
		if err != nil {
			return err
		}
		*out = append(*out, cv)
		return nil
	case shapeStruct:
		for _, f := range s.fields {
			if err := flattenRow(v.Field(f.index), f.s, out); err != nil {
				return fmt.Errorf("field %s: %w", f.name, err)
			}
		}
		return nil
	case shapeArray:
		for i := 0; i < s.length; i++ {
			if err := flattenRow(v.Index(i), s.elem, out); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: cannot flatten %s", ErrUnsupportedShape, s.typ)
}

// rowReader hands out the fields of one data row in order, tracking the
// column index for error reports.
type rowReader struct {
	fields []field
	num    int // line number
	pos    int
}

func (r *rowReader) take() (field, int, error) {
	if r.pos >= len(r.fields) {
		return field{}, 0, &ParseError{Line: r.num, Column: r.pos, Err: fmt.Errorf("%w: row ends after %d columns", ErrTruncatedRow, len(r.fields))}
	}
	f, col := r.fields[r.pos], r.pos
	r.pos++
	return f, col, nil
}

// unflattenRow reconstructs one structured row from its raw fields. The
// row must supply exactly the columns the shape consumes. order, when
// non-nil, gives the outer struct fields in header column order.
func unflattenRow(fields []field, num int, v reflect.Value, s *shape, order []int) error {
	r := &rowReader{fields: fields, num: num}
	if s.kind == shapeStruct && order != nil {
		for _, fi := range order {
			f := s.fields[fi]
			if err := unflatten(r, v.Field(f.index), f.s); err != nil {
				return err
			}
		}
	} else if err := unflatten(r, v, s); err != nil {
		return err
	}
	if r.pos < len(fields) {
		return &ParseError{Line: num, Column: r.pos, Token: fields[r.pos].text, Err: fmt.Errorf("%w: row has %d columns, shape takes %d", ErrExtraColumns, len(fields), s.leaves)}
	}
	return nil
}

func unflatten(r *rowReader, v reflect.Value, s *shape) error {
	switch s.kind {
	case shapeLeaf:
		f, col, err := r.take()
		if err != nil {
			return err
		}
		return decodeLeaf(f, v, s, r.num, col)
	case shapeStruct:
		for _, f := range s.fields {
			if err := unflatten(r, v.Field(f.index), f.s); err != nil {
				return err
			}
		}
		return nil
	case shapeArray:
		for i := 0; i < s.length; i++ {
			if err := unflatten(r, v.Index(i), s.elem); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: cannot decode into %s", ErrUnsupportedShape, s.typ)
}
