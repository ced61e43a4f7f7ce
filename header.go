package arff

import (
	"fmt"
	"strings"
)

// defaultRelation names data sets whose row type carries no explicit name.
const defaultRelation = "unnamed_data"

// AttrKind classifies a declared column type.
type AttrKind int

const (
	AttrNumeric AttrKind = iota
	AttrString
	AttrNominal
)

// String returns the ARFF spelling of the kind.
func (k AttrKind) String() string {
	switch k {
	case AttrNumeric:
		return "NUMERIC"
	case AttrString:
		return "STRING"
	case AttrNominal:
		return "NOMINAL"
	default:
		return fmt.Sprintf("AttrKind(%d)", int(k))
	}
}

// Attribute is one declared column: a name and a type. Labels is the
// ordered nominal label set and is empty for the other kinds.
type Attribute struct {
	Name   string
	Kind   AttrKind
	Labels []string
}

// typeString formats the attribute's type the way it appears on an
// @ATTRIBUTE line.
func (a Attribute) typeString() string {
	if a.Kind != AttrNominal {
		return a.Kind.String()
	}
	return "{" + strings.Join(a.Labels, ", ") + "}"
}

// Header holds the relation name and the declared columns in file order.
type Header struct {
	Relation string
	Attrs    []Attribute
}

// parseHeader consumes lines up to and including the @DATA marker. The
// relation name defaults to "unnamed_data" when no @RELATION line appears.
func parseHeader(lx *lexer) (Header, error) {
	h := Header{Relation: defaultRelation}
	for {
		ln, ok, err := lx.next()
		if err != nil {
			return Header{}, err
		}
		if !ok {
			return Header{}, fmt.Errorf("%w: missing @DATA marker", ErrFormat)
		}
		switch ln.kind {
		case lineBlank, lineComment:
		case lineRelation:
			h.Relation = ln.name
		case lineAttribute:
			h.Attrs = append(h.Attrs, ln.attr)
		case lineDataMarker:
			return h, nil
		case lineRow:
			return Header{}, &ParseError{Line: ln.num, Column: -1, Err: fmt.Errorf("%w: data row before @DATA", ErrFormat)}
		}
	}
}

// write formats the header: @RELATION, the attribute declarations, and the
// @DATA marker, each block separated by a blank line.
func (h Header) write(b *strings.Builder) {
	b.WriteString("@RELATION ")
	writeName(b, h.Relation)
	b.WriteString("\n\n")
	for _, a := range h.Attrs {
		b.WriteString("@ATTRIBUTE ")
		writeName(b, a.Name)
		b.WriteByte(' ')
		b.WriteString(a.typeString())
		b.WriteByte('\n')
	}
	b.WriteString("\n@DATA\n")
}
