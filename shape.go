package arff

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
)

type shapeKind int

const (
	shapeLeaf shapeKind = iota
	shapeStruct
	shapeArray
)

type leafKind int

const (
	leafInt leafKind = iota
	leafUint
	leafFloat
	leafString
	leafBool
	leafNominal
)

// shape describes how one row type maps onto flat columns. It is derived
// from the Go type once and reused for every row.
type shape struct {
	kind shapeKind
	typ  reflect.Type

	// leaf
	leaf     leafKind
	optional bool         // pointer-typed leaf; nil encodes as `?`
	elemTyp  reflect.Type // pointee type for optional leaves
	labels   []string     // nominal label set
	labelIdx map[string]int

	// struct
	fields []shapeField
	names  []string // flattened column names, struct shapes only

	// fixed sequence
	elem   *shape
	length int

	leaves int // total flattened column count
}

type shapeField struct {
	name  string
	index int // struct field index
	s     *shape
}

// Nominal marks an integer-kinded named type as a closed enumeration.
// The value is the 0-based index into the label set; encoding writes the
// label, decoding matches a label back to its index.
type Nominal interface {
	Labels() []string
}

var nominalIface = reflect.TypeOf((*Nominal)(nil)).Elem()

var shapeCache sync.Map // reflect.Type -> *shape

// shapeOf derives (or returns the cached) shape for a row type. Column
// names come from the outermost struct alone, so only there can they
// collide.
func shapeOf(t reflect.Type) (*shape, error) {
	if s, ok := shapeCache.Load(t); ok {
		return s.(*shape), nil
	}
	s, err := buildShape(t, false)
	if err != nil {
		return nil, err
	}
	if s.kind == shapeStruct {
		seen := make(map[string]struct{}, len(s.names))
		for _, n := range s.names {
			if _, dup := seen[n]; dup {
				return nil, fmt.Errorf("%w: struct %s yields duplicate column name %q", ErrUnsupportedShape, t, n)
			}
			seen[n] = struct{}{}
		}
	}
	shapeCache.Store(t, s)
	return s, nil
}

// buildShape walks a row type. Structs may nest through arrays (their
// values flatten positionally) but not directly inside another struct:
// that would need a column naming convention the format does not define.
func buildShape(t reflect.Type, inStruct bool) (*shape, error) {
	// pointers first: a pointer to a nominal type would otherwise satisfy
	// the Nominal interface through method promotion
	if t.Kind() == reflect.Pointer {
		inner, err := buildShape(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		if inner.kind != shapeLeaf || inner.optional {
			return nil, fmt.Errorf("%w: optional values must point to a primitive, got %s", ErrUnsupportedShape, t)
		}
		s := *inner
		s.typ = t
		s.optional = true
		s.elemTyp = t.Elem()
		return &s, nil
	}

	if labels, ok := nominalLabels(t); ok {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, fmt.Errorf("%w: nominal type %s must have an integer kind", ErrUnsupportedShape, t)
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("%w: nominal type %s has an empty label set", ErrUnsupportedShape, t)
		}
		idx := make(map[string]int, len(labels))
		for i, l := range labels {
			if _, dup := idx[l]; dup {
				return nil, fmt.Errorf("%w: nominal type %s repeats label %q", ErrUnsupportedShape, t, l)
			}
			idx[l] = i
		}
		return &shape{kind: shapeLeaf, typ: t, leaf: leafNominal, labels: labels, labelIdx: idx, leaves: 1}, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &shape{kind: shapeLeaf, typ: t, leaf: leafInt, leaves: 1}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &shape{kind: shapeLeaf, typ: t, leaf: leafUint, leaves: 1}, nil
	case reflect.Float32, reflect.Float64:
		return &shape{kind: shapeLeaf, typ: t, leaf: leafFloat, leaves: 1}, nil
	case reflect.String:
		return &shape{kind: shapeLeaf, typ: t, leaf: leafString, leaves: 1}, nil
	case reflect.Bool:
		return &shape{kind: shapeLeaf, typ: t, leaf: leafBool, leaves: 1}, nil

	case reflect.Struct:
		if inStruct {
			return nil, fmt.Errorf("%w: struct %s nested directly inside another struct has no column naming", ErrUnsupportedShape, t)
		}
		s := &shape{kind: shapeStruct, typ: t}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("arff"); ok {
				if tag == "-" {
					continue
				}
				name = tag
			}
			child, err := buildShape(f.Type, true)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			s.fields = append(s.fields, shapeField{name: name, index: i, s: child})
			s.leaves += child.leaves
		}
		if s.leaves == 0 {
			return nil, fmt.Errorf("%w: struct %s flattens to zero columns", ErrUnsupportedShape, t)
		}
		s.names = structColumnNames(s.fields)
		return s, nil

	case reflect.Array:
		elem, err := buildShape(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		if t.Len() == 0 {
			return nil, fmt.Errorf("%w: zero-length array %s", ErrUnsupportedShape, t)
		}
		return &shape{kind: shapeArray, typ: t, elem: elem, length: t.Len(), leaves: t.Len() * elem.leaves}, nil

	case reflect.Slice:
		return nil, fmt.Errorf("%w: %s is variable-length; rows must have fixed arity", ErrUnsupportedShape, t)
	default:
		return nil, fmt.Errorf("%w: cannot map %s onto columns", ErrUnsupportedShape, t)
	}
}

// nominalLabels fetches the closed label set of a Nominal type, accepting
// methods declared on either the value or the pointer.
func nominalLabels(t reflect.Type) ([]string, bool) {
	if t.Implements(nominalIface) {
		return reflect.New(t).Elem().Interface().(Nominal).Labels(), true
	}
	if reflect.PointerTo(t).Implements(nominalIface) {
		return reflect.New(t).Interface().(Nominal).Labels(), true
	}
	return nil, false
}

// structColumnNames flattens field names: a field covering a single column
// keeps its name, a field covering K columns gets 0-based index suffixes.
func structColumnNames(fields []shapeField) []string {
	var names []string
	for _, f := range fields {
		if f.s.leaves == 1 {
			names = append(names, f.name)
			continue
		}
		for i := 0; i < f.s.leaves; i++ {
			names = append(names, f.name+strconv.Itoa(i))
		}
	}
	return names
}

// columnNames returns the declared name of every flattened column. Shapes
// without an outer struct get synthesized positional names.
func (s *shape) columnNames() []string {
	if s.kind == shapeStruct {
		return s.names
	}
	names := make([]string, s.leaves)
	for i := range names {
		names[i] = "col" + strconv.Itoa(i)
	}
	return names
}

// appendLeaves collects the leaf shapes in flattening order.
func (s *shape) appendLeaves(out *[]*shape) {
	switch s.kind {
	case shapeLeaf:
		*out = append(*out, s)
	case shapeStruct:
		for _, f := range s.fields {
			f.s.appendLeaves(out)
		}
	case shapeArray:
		for i := 0; i < s.length; i++ {
			s.elem.appendLeaves(out)
		}
	}
}

// attributes synthesizes the declarations for this row shape. The kind of
// each column follows the leaf type; nominal columns declare the type's
// full label set.
func (s *shape) attributes() []Attribute {
	names := s.columnNames()
	leaves := make([]*shape, 0, s.leaves)
	s.appendLeaves(&leaves)
	attrs := make([]Attribute, len(leaves))
	for i, l := range leaves {
		a := Attribute{Name: names[i]}
		switch l.leaf {
		case leafInt, leafUint, leafFloat:
			a.Kind = AttrNumeric
		case leafString:
			a.Kind = AttrString
		case leafBool:
			a.Kind = AttrNominal
			a.Labels = []string{"f", "t"}
		case leafNominal:
			a.Kind = AttrNominal
			a.Labels = l.labels
		}
		attrs[i] = a
	}
	return attrs
}

// fieldOrder maps header columns onto outer struct fields by name, so the
// target type may declare its fields in any order. A field flattening to K
// columns must appear as a contiguous `name0..name(K-1)` block. Returns the
// field indices in column order, or nil when the header names don't cover
// every field; decoding is positional then, since declared names are
// advisory only.
func fieldOrder(attrs []Attribute, s *shape) []int {
	if s.kind != shapeStruct || len(attrs) != s.leaves {
		return nil
	}
	pos := make(map[string]int, len(attrs))
	for i, a := range attrs {
		if _, dup := pos[a.Name]; dup {
			return nil
		}
		pos[a.Name] = i
	}
	starts := make([]int, len(s.fields))
	for i, f := range s.fields {
		first := f.name
		if f.s.leaves > 1 {
			first = f.name + "0"
		}
		start, ok := pos[first]
		if !ok {
			return nil
		}
		for k := 1; k < f.s.leaves; k++ {
			j, ok := pos[f.name+strconv.Itoa(k)]
			if !ok || j != start+k {
				return nil
			}
		}
		starts[i] = start
	}
	order := make([]int, len(s.fields))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return starts[order[a]] < starts[order[b]] })
	// the blocks must tile the row exactly
	next := 0
	for _, fi := range order {
		if starts[fi] != next {
			return nil
		}
		next += s.fields[fi].s.leaves
	}
	return order
}
