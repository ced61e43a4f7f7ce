package arff

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrFormat reports malformed input text: a bad directive, an
	// unterminated quote, or a misplaced line.
	ErrFormat = errors.New("malformed input")

	// ErrUnsupportedShape reports a row type that cannot be mapped to a
	// fixed set of columns. Raised at shape derivation, never per row.
	ErrUnsupportedShape = errors.New("unsupported row shape")

	// ErrTruncatedRow reports a data row with fewer columns than the row
	// shape requires.
	ErrTruncatedRow = errors.New("truncated row")

	// ErrExtraColumns reports a data row with more columns than the row
	// shape consumes. Trailing values are never silently dropped.
	ErrExtraColumns = errors.New("extra columns")

	// ErrRowArity reports a column-count mismatch between a row and the
	// declared attributes.
	ErrRowArity = errors.New("inconsistent row arity")

	// ErrRowCount reports a data set whose row count does not match a
	// fixed-size target container.
	ErrRowCount = errors.New("row count mismatch")

	// ErrNumberFormat reports a value that does not parse as the
	// requested numeric type.
	ErrNumberFormat = errors.New("invalid numeric value")

	// ErrUnknownVariant reports a nominal value outside the target's
	// label set.
	ErrUnknownVariant = errors.New("unknown nominal value")

	// ErrMissingValue reports a missing marker decoded into a
	// non-optional column.
	ErrMissingValue = errors.New("missing value for required column")
)

// ParseError pins a failure to a position in the input text. It wraps one
// of the sentinel errors above, so errors.Is works through it.
type ParseError struct {
	Line   int    // 1-based line number
	Column int    // 0-based column index within the row, -1 when not applicable
	Token  string // offending raw text, may be empty
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d", e.Line)
	if e.Column >= 0 {
		fmt.Fprintf(&b, ", column %d", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Token != "" {
		fmt.Fprintf(&b, ": %q", e.Token)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
