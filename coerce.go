package arff

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type colTag int

const (
	colNumber colTag = iota
	colText
	colNominal
	colMissing
)

// colValue is one primitive column value, already formatted for the wire.
// It lives only for the duration of a single row's transcoding.
type colValue struct {
	tag  colTag
	text string
}

// encodeLeaf coerces one primitive value into a column value. Floats are
// formatted with the shortest representation that round-trips; float32
// values are promoted first, so narrow floats survive a round trip too.
func encodeLeaf(v reflect.Value, s *shape) (colValue, error) {
	if s.optional {
		if v.IsNil() {
			return colValue{tag: colMissing}, nil
		}
		v = v.Elem()
	}
	switch s.leaf {
	case leafInt:
		return colValue{tag: colNumber, text: strconv.FormatInt(v.Int(), 10)}, nil
	case leafUint:
		return colValue{tag: colNumber, text: strconv.FormatUint(v.Uint(), 10)}, nil
	case leafFloat:
		return colValue{tag: colNumber, text: strconv.FormatFloat(v.Float(), 'g', -1, 64)}, nil
	case leafString:
		return colValue{tag: colText, text: v.String()}, nil
	case leafBool:
		if v.Bool() {
			return colValue{tag: colNominal, text: "t"}, nil
		}
		return colValue{tag: colNominal, text: "f"}, nil
	case leafNominal:
		var idx int64
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			idx = int64(v.Uint())
		default:
			idx = v.Int()
		}
		if idx < 0 || idx >= int64(len(s.labels)) {
			return colValue{}, fmt.Errorf("%w: %s value %d is outside the label set", ErrUnknownVariant, v.Type(), idx)
		}
		return colValue{tag: colNominal, text: s.labels[idx]}, nil
	}
	return colValue{}, fmt.Errorf("%w: cannot encode %s", ErrUnsupportedShape, v.Type())
}

// decodeLeaf parses one raw field into the target leaf. The bare token `?`
// is the missing marker; quoted it is an ordinary string.
func decodeLeaf(f field, v reflect.Value, s *shape, num, col int) error {
	if f.text == "?" && !f.quoted {
		if s.optional {
			v.Set(reflect.Zero(s.typ))
			return nil
		}
		return &ParseError{Line: num, Column: col, Token: "?", Err: ErrMissingValue}
	}
	if s.optional {
		p := reflect.New(s.elemTyp)
		if err := decodePrimitive(f, p.Elem(), s, num, col); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}
	return decodePrimitive(f, v, s, num, col)
}

func decodePrimitive(f field, v reflect.Value, s *shape, num, col int) error {
	switch s.leaf {
	case leafInt:
		n, err := strconv.ParseInt(f.text, 10, v.Type().Bits())
		if err != nil {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: %s wants %s", ErrNumberFormat, f.text, v.Type())}
		}
		v.SetInt(n)
	case leafUint:
		n, err := strconv.ParseUint(f.text, 10, v.Type().Bits())
		if err != nil {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: %s wants %s", ErrNumberFormat, f.text, v.Type())}
		}
		v.SetUint(n)
	case leafFloat:
		x, err := strconv.ParseFloat(f.text, v.Type().Bits())
		if err != nil {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: %s wants %s", ErrNumberFormat, f.text, v.Type())}
		}
		v.SetFloat(x)
	case leafString:
		v.SetString(f.text)
	case leafBool:
		b, ok := parseBool(f.text)
		if !ok {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: not a boolean", ErrUnknownVariant)}
		}
		v.SetBool(b)
	case leafNominal:
		idx, ok := s.labelIdx[f.text]
		if !ok {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: %s has labels %v", ErrUnknownVariant, v.Type(), s.labels)}
		}
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v.SetUint(uint64(idx))
		default:
			v.SetInt(int64(idx))
		}
	}
	return nil
}

// parseBool accepts the liberal boolean spellings Weka files use.
func parseBool(s string) (val, ok bool) {
	switch strings.ToUpper(s) {
	case "0", "F", "FALSE", "N", "NO":
		return false, true
	case "1", "T", "TRUE", "Y", "YES":
		return true, true
	default:
		return false, false
	}
}
