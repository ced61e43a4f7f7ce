package arff

import (
	"fmt"
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineRelation
	lineAttribute
	lineDataMarker
	lineRow
)

// line is one classified logical line of input.
type line struct {
	kind   lineKind
	num    int // 1-based
	name   string
	attr   Attribute
	fields []field
}

// field is one raw value of a data row. Quoting matters downstream: a bare
// `?` is the missing marker, a quoted one is the literal string.
type field struct {
	text   string
	quoted bool
}

// lexer splits raw input into classified lines. It is a pure transformation
// over the materialized text; no I/O happens here.
type lexer struct {
	rest string
	num  int
	done bool
}

func newLexer(text string) *lexer { return &lexer{rest: text} }

// next classifies the next line. ok is false at end of input.
func (lx *lexer) next() (ln line, ok bool, err error) {
	if lx.done {
		return line{}, false, nil
	}
	raw := lx.rest
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw, lx.rest = raw[:i], raw[i+1:]
	} else {
		lx.rest = ""
		lx.done = true
	}
	lx.num++
	raw = strings.TrimRight(raw, "\r")

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return line{kind: lineBlank, num: lx.num}, true, nil
	case trimmed[0] == '%':
		return line{kind: lineComment, num: lx.num}, true, nil
	case trimmed[0] == '@':
		ln, err = lx.directive(trimmed)
		return ln, true, err
	default:
		fields, err := splitFields(trimmed, lx.num)
		return line{kind: lineRow, num: lx.num, fields: fields}, true, err
	}
}

// directive parses an @-line. Keywords match case-insensitively, as in
// Weka's own reader.
func (lx *lexer) directive(s string) (line, error) {
	kw, rest := s, ""
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		kw, rest = s[:i], strings.TrimSpace(s[i+1:])
	}
	switch strings.ToUpper(kw) {
	case "@RELATION":
		name, tail, err := takeName(rest, lx.num)
		if err != nil {
			return line{}, err
		}
		if name == "" {
			return line{}, &ParseError{Line: lx.num, Column: -1, Err: fmt.Errorf("%w: @RELATION needs a name", ErrFormat)}
		}
		if !emptyOrComment(tail) {
			return line{}, &ParseError{Line: lx.num, Column: -1, Token: tail, Err: fmt.Errorf("%w: unexpected text after relation name", ErrFormat)}
		}
		return line{kind: lineRelation, num: lx.num, name: name}, nil
	case "@ATTRIBUTE":
		attr, err := lx.attribute(rest)
		if err != nil {
			return line{}, err
		}
		return line{kind: lineAttribute, num: lx.num, attr: attr}, nil
	case "@DATA":
		if !emptyOrComment(rest) {
			return line{}, &ParseError{Line: lx.num, Column: -1, Token: rest, Err: fmt.Errorf("%w: unexpected text after @DATA", ErrFormat)}
		}
		return line{kind: lineDataMarker, num: lx.num}, nil
	default:
		return line{}, &ParseError{Line: lx.num, Column: -1, Token: kw, Err: fmt.Errorf("%w: expected @RELATION, @ATTRIBUTE, or @DATA", ErrFormat)}
	}
}

// attribute parses the remainder of an @ATTRIBUTE line: a name followed by
// NUMERIC, STRING, or a {brace,list} of nominal labels. REAL and INTEGER
// are accepted as aliases of NUMERIC.
func (lx *lexer) attribute(rest string) (Attribute, error) {
	name, tail, err := takeName(rest, lx.num)
	if err != nil {
		return Attribute{}, err
	}
	if name == "" {
		return Attribute{}, &ParseError{Line: lx.num, Column: -1, Err: fmt.Errorf("%w: @ATTRIBUTE needs a name", ErrFormat)}
	}
	typ := tail
	if i := strings.IndexByte(typ, '%'); i >= 0 {
		typ = typ[:i]
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Attribute{}, &ParseError{Line: lx.num, Column: -1, Token: name, Err: fmt.Errorf("%w: @ATTRIBUTE %s needs a type", ErrFormat, name)}
	}

	if strings.HasPrefix(typ, "{") {
		if !strings.HasSuffix(typ, "}") {
			return Attribute{}, &ParseError{Line: lx.num, Column: -1, Token: typ, Err: fmt.Errorf("%w: unterminated nominal label set", ErrFormat)}
		}
		parts := strings.Split(typ[1:len(typ)-1], ",")
		labels := make([]string, len(parts))
		for i, p := range parts {
			labels[i] = strings.TrimSpace(p)
		}
		return Attribute{Name: name, Kind: AttrNominal, Labels: labels}, nil
	}

	upper := strings.ToUpper(typ)
	switch {
	case strings.HasPrefix(upper, "NUME"), strings.HasPrefix(upper, "REAL"), strings.HasPrefix(upper, "INTE"):
		return Attribute{Name: name, Kind: AttrNumeric}, nil
	case strings.HasPrefix(upper, "STRI"):
		return Attribute{Name: name, Kind: AttrString}, nil
	case strings.HasPrefix(upper, "DATE"):
		return Attribute{}, &ParseError{Line: lx.num, Column: -1, Token: typ, Err: fmt.Errorf("%w: DATE attributes are not supported", ErrFormat)}
	default:
		return Attribute{}, &ParseError{Line: lx.num, Column: -1, Token: typ, Err: fmt.Errorf("%w: invalid attribute type", ErrFormat)}
	}
}

// takeName reads one quoted or bare token and returns the remainder with
// surrounding whitespace stripped.
func takeName(s string, num int) (name, rest string, err error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", nil
	}
	if s[0] == '\'' || s[0] == '"' {
		name, rest, err = scanQuoted(s, num)
		return name, strings.TrimLeft(rest, " \t"), err
	}
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", nil
	}
	return s[:i], strings.TrimLeft(s[i:], " \t"), nil
}

// scanQuoted consumes a quoted token starting at s[0] and returns the
// unescaped content plus the remainder after the closing quote. Backslash
// escapes the next character.
func scanQuoted(s string, num int) (content, rest string, err error) {
	q := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == q:
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", &ParseError{Line: num, Column: -1, Token: s, Err: fmt.Errorf("%w: unterminated quoted value", ErrFormat)}
}

// splitFields tokenizes one data row. Fields are separated by commas or
// tabs; surrounding spaces are trimmed; quoted fields may contain
// separators and escaped quotes. A `%` outside quotes starts a trailing
// comment.
func splitFields(s string, num int) ([]field, error) {
	var fields []field
	rest := s
	for {
		rest = strings.TrimLeft(rest, " ")
		var f field
		if rest != "" && (rest[0] == '\'' || rest[0] == '"') {
			content, tail, err := scanQuoted(rest, num)
			if err != nil {
				return nil, err
			}
			f = field{text: content, quoted: true}
			rest = strings.TrimLeft(tail, " ")
		} else {
			j := strings.IndexAny(rest, ",\t%")
			if j < 0 {
				j = len(rest)
			}
			f = field{text: strings.TrimRight(rest[:j], " ")}
			rest = rest[j:]
		}
		fields = append(fields, f)

		if rest == "" || rest[0] == '%' {
			return fields, nil
		}
		switch rest[0] {
		case ',', '\t':
			rest = rest[1:]
		default:
			return nil, &ParseError{Line: num, Column: len(fields) - 1, Token: string(rest[0]), Err: fmt.Errorf("%w: expected `,` or tab after quoted value", ErrFormat)}
		}
	}
}

func emptyOrComment(s string) bool {
	return s == "" || strings.HasPrefix(s, "%")
}
