package arff

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFieldsBasic(t *testing.T) {
	t.Parallel()
	fields, err := splitFields("1, 2,3", 1)
	require.NoError(t, err)
	assert.Equal(t, []field{{text: "1"}, {text: "2"}, {text: "3"}}, fields)
}

func TestSplitFieldsTabs(t *testing.T) {
	t.Parallel()
	fields, err := splitFields("1\t2\t 3", 1)
	require.NoError(t, err)
	assert.Equal(t, []field{{text: "1"}, {text: "2"}, {text: "3"}}, fields)
}

func TestSplitFieldsQuoted(t *testing.T) {
	t.Parallel()
	fields, err := splitFields(`'a, b', "c", 'it\'s'`, 1)
	require.NoError(t, err)
	assert.Equal(t, []field{
		{text: "a, b", quoted: true},
		{text: "c", quoted: true},
		{text: "it's", quoted: true},
	}, fields)
}

func TestSplitFieldsTrailingComment(t *testing.T) {
	t.Parallel()
	fields, err := splitFields("1, 2 % a comment", 1)
	require.NoError(t, err)
	assert.Equal(t, []field{{text: "1"}, {text: "2"}}, fields)

	// `%` inside quotes is data
	fields, err = splitFields("'50%', 1", 1)
	require.NoError(t, err)
	assert.Equal(t, []field{{text: "50%", quoted: true}, {text: "1"}}, fields)
}

func TestSplitFieldsUnterminatedQuote(t *testing.T) {
	t.Parallel()
	_, err := splitFields("'abc", 3)
	assert.ErrorIs(t, err, ErrFormat)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestLexerDirectives(t *testing.T) {
	t.Parallel()
	lx := newLexer("% hi\n@relation 'My Data'\n@attribute size {small, big}\n@data\n")

	ln, ok, err := lx.next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lineComment, ln.kind)

	ln, _, err = lx.next()
	require.NoError(t, err)
	assert.Equal(t, lineRelation, ln.kind)
	assert.Equal(t, "My Data", ln.name)

	ln, _, err = lx.next()
	require.NoError(t, err)
	assert.Equal(t, lineAttribute, ln.kind)
	assert.Equal(t, Attribute{Name: "size", Kind: AttrNominal, Labels: []string{"small", "big"}}, ln.attr)

	ln, _, err = lx.next()
	require.NoError(t, err)
	assert.Equal(t, lineDataMarker, ln.kind)
}

func TestAttributeTypeAliases(t *testing.T) {
	t.Parallel()
	for _, typ := range []string{"NUMERIC", "numeric", "REAL", "INTEGER", "integer"} {
		lx := newLexer("@ATTRIBUTE x " + typ)
		ln, _, err := lx.next()
		require.NoError(t, err, typ)
		assert.Equal(t, AttrNumeric, ln.attr.Kind, typ)
	}
	lx := newLexer("@ATTRIBUTE x String")
	ln, _, err := lx.next()
	require.NoError(t, err)
	assert.Equal(t, AttrString, ln.attr.Kind)
}

func TestShapeOfStruct(t *testing.T) {
	t.Parallel()
	type row struct {
		X int    `arff:"x"`
		P [2]int `arff:"p"`
		Y int    `arff:"y"`
	}
	s, err := shapeOf(reflect.TypeOf(row{}))
	require.NoError(t, err)
	assert.Equal(t, 4, s.leaves)
	assert.Equal(t, []string{"x", "p0", "p1", "y"}, s.columnNames())
}

func TestShapeOfPositionalNames(t *testing.T) {
	t.Parallel()
	s, err := shapeOf(reflect.TypeOf([2][2]int{}))
	require.NoError(t, err)
	assert.Equal(t, 4, s.leaves)
	assert.Equal(t, []string{"col0", "col1", "col2", "col3"}, s.columnNames())
}

func TestShapeOfStructUnderArray(t *testing.T) {
	t.Parallel()
	type point struct {
		X int `arff:"x"`
		Y int `arff:"y"`
	}
	// structs below the outermost level flatten without contributing names
	s, err := shapeOf(reflect.TypeOf([2]point{}))
	require.NoError(t, err)
	assert.Equal(t, 4, s.leaves)
	assert.Equal(t, []string{"col0", "col1", "col2", "col3"}, s.columnNames())

	type segment struct {
		Ends [2]point `arff:"end"`
		W    float64  `arff:"w"`
	}
	s, err = shapeOf(reflect.TypeOf(segment{}))
	require.NoError(t, err)
	assert.Equal(t, 5, s.leaves)
	assert.Equal(t, []string{"end0", "end1", "end2", "end3", "w"}, s.columnNames())
}

func TestShapeRejectsAmbiguousNaming(t *testing.T) {
	t.Parallel()
	// field p flattens to p0, p1 and collides with the explicit p0
	type row struct {
		P  [2]int `arff:"p"`
		P0 int    `arff:"p0"`
	}
	_, err := shapeOf(reflect.TypeOf(row{}))
	assert.ErrorIs(t, err, ErrUnsupportedShape)

	type dup struct {
		A int `arff:"x"`
		B int `arff:"x"`
	}
	_, err = shapeOf(reflect.TypeOf(dup{}))
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestShapeSkipsIgnoredAndUnexportedFields(t *testing.T) {
	t.Parallel()
	type row struct {
		A      int `arff:"a"`
		Hidden int `arff:"-"`
		note   string
	}
	_ = row{note: ""}
	s, err := shapeOf(reflect.TypeOf(row{}))
	require.NoError(t, err)
	assert.Equal(t, 1, s.leaves)
	assert.Equal(t, []string{"a"}, s.columnNames())
}

func TestFieldOrderPermutation(t *testing.T) {
	t.Parallel()
	type row struct {
		B int    `arff:"b"`
		P [2]int `arff:"p"`
		A int    `arff:"a"`
	}
	s, err := shapeOf(reflect.TypeOf(row{}))
	require.NoError(t, err)

	attrs := []Attribute{{Name: "a"}, {Name: "p0"}, {Name: "p1"}, {Name: "b"}}
	order := fieldOrder(attrs, s)
	require.NotNil(t, order)
	// column order: a (field 2), p (field 1), b (field 0)
	assert.Equal(t, []int{2, 1, 0}, order)

	// unknown names fall back to positional decoding
	assert.Nil(t, fieldOrder([]Attribute{{Name: "x"}, {Name: "y"}, {Name: "z"}, {Name: "w"}}, s))

	// a split multi-column block cannot be mapped
	assert.Nil(t, fieldOrder([]Attribute{{Name: "p0"}, {Name: "a"}, {Name: "p1"}, {Name: "b"}}, s))
}

func TestAttributesFromShape(t *testing.T) {
	t.Parallel()
	type row struct {
		N float64 `arff:"n"`
		S string  `arff:"s"`
		B bool    `arff:"b"`
	}
	s, err := shapeOf(reflect.TypeOf(row{}))
	require.NoError(t, err)
	assert.Equal(t, []Attribute{
		{Name: "n", Kind: AttrNumeric},
		{Name: "s", Kind: AttrString},
		{Name: "b", Kind: AttrNominal, Labels: []string{"f", "t"}},
	}, s.attributes())
}

func TestHeaderWrite(t *testing.T) {
	t.Parallel()
	h := Header{
		Relation: "Data",
		Attrs: []Attribute{
			{Name: "a", Kind: AttrNumeric},
			{Name: "c", Kind: AttrNominal, Labels: []string{"f", "t"}},
		},
	}
	var b strings.Builder
	h.write(&b)
	assert.Equal(t, "@RELATION Data\n\n@ATTRIBUTE a NUMERIC\n@ATTRIBUTE c {f, t}\n\n@DATA\n", b.String())

	// names a bare token would misread get quoted
	spaced := Header{
		Relation: "My Data",
		Attrs:    []Attribute{{Name: "the count", Kind: AttrNumeric}},
	}
	b.Reset()
	spaced.write(&b)
	assert.Equal(t, "@RELATION 'My Data'\n\n@ATTRIBUTE 'the count' NUMERIC\n\n@DATA\n", b.String())
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	assert.False(t, needsQuoting("red"))
	assert.True(t, needsQuoting(""))
	assert.True(t, needsQuoting("?"))
	assert.True(t, needsQuoting("a b"))
	assert.True(t, needsQuoting("a,b"))
	assert.True(t, needsQuoting("50%"))
}

func TestParseBool(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"1", "t", "T", "true", "YES", "y"} {
		v, ok := parseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"0", "f", "FALSE", "no", "N"} {
		v, ok := parseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	_, ok := parseBool("maybe")
	assert.False(t, ok)
}
