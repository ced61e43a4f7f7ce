package arff

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column is one typed column of a dynamically loaded data set. Storage
// follows the declared attribute type: numeric cells as float64, string
// cells as text, nominal cells as label indices. Every cell may be missing.
type Column struct {
	attr    Attribute
	nums    []float64
	strs    []string
	idxs    []int
	missing []bool
}

// Name returns the declared column name.
func (c *Column) Name() string { return c.attr.Name }

// Kind returns the declared column type.
func (c *Column) Kind() AttrKind { return c.attr.Kind }

// Labels returns the nominal label set, nil for other kinds.
func (c *Column) Labels() []string { return c.attr.Labels }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.missing) }

// Missing reports whether cell i holds no value.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// Value returns cell i as a dynamically typed value: float64 for numeric
// columns, string for string and nominal columns, nil when missing.
func (c *Column) Value(i int) any {
	if c.missing[i] {
		return nil
	}
	switch c.attr.Kind {
	case AttrNumeric:
		return c.nums[i]
	case AttrNominal:
		return c.attr.Labels[c.idxs[i]]
	default:
		return c.strs[i]
	}
}

// Float returns cell i of a numeric column. ok is false for missing cells
// and non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.attr.Kind != AttrNumeric || c.missing[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Str returns cell i of a string or nominal column as text. ok is false
// for missing cells and numeric columns.
func (c *Column) Str(i int) (string, bool) {
	if c.attr.Kind == AttrNumeric || c.missing[i] {
		return "", false
	}
	if c.attr.Kind == AttrNominal {
		return c.attr.Labels[c.idxs[i]], true
	}
	return c.strs[i], true
}

func (c *Column) appendCell(f field, num, col int, labelIdx map[string]int) error {
	if f.text == "?" && !f.quoted {
		c.missing = append(c.missing, true)
		switch c.attr.Kind {
		case AttrNumeric:
			c.nums = append(c.nums, 0)
		case AttrNominal:
			c.idxs = append(c.idxs, 0)
		default:
			c.strs = append(c.strs, "")
		}
		return nil
	}
	switch c.attr.Kind {
	case AttrNumeric:
		x, err := strconv.ParseFloat(f.text, 64)
		if err != nil {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: column %s is numeric", ErrNumberFormat, c.attr.Name)}
		}
		c.nums = append(c.nums, x)
	case AttrNominal:
		idx, ok := labelIdx[f.text]
		if !ok {
			return &ParseError{Line: num, Column: col, Token: f.text, Err: fmt.Errorf("%w: column %s has labels %v", ErrUnknownVariant, c.attr.Name, c.attr.Labels)}
		}
		c.idxs = append(c.idxs, idx)
	default:
		c.strs = append(c.strs, f.text)
	}
	c.missing = append(c.missing, false)
	return nil
}

// DataSet is a dynamically typed data set, for inputs whose row structure
// is only known from the file's own header. Unlike [Unmarshal], the
// declared attribute types drive interpretation here.
type DataSet struct {
	relation string
	columns  []*Column
	rows     int
}

// LoadDataSet parses ARFF text into typed columns according to the
// declared attributes.
func LoadDataSet(text []byte) (*DataSet, error) {
	lx := newLexer(string(text))
	hdr, err := parseHeader(lx)
	if err != nil {
		return nil, err
	}
	cols := make([]*Column, len(hdr.Attrs))
	lookups := make([]map[string]int, len(hdr.Attrs))
	for i, a := range hdr.Attrs {
		cols[i] = &Column{attr: a}
		if a.Kind == AttrNominal {
			m := make(map[string]int, len(a.Labels))
			for j, l := range a.Labels {
				m[l] = j
			}
			lookups[i] = m
		}
	}

	ds := &DataSet{relation: hdr.Relation, columns: cols}
	for {
		ln, ok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return ds, nil
		}
		switch ln.kind {
		case lineBlank, lineComment:
		case lineRow:
			if len(ln.fields) < len(cols) {
				return nil, &ParseError{Line: ln.num, Column: len(ln.fields), Err: fmt.Errorf("%w: row has %d columns, header declares %d", ErrTruncatedRow, len(ln.fields), len(cols))}
			}
			if len(ln.fields) > len(cols) {
				return nil, &ParseError{Line: ln.num, Column: len(cols), Token: ln.fields[len(cols)].text, Err: fmt.Errorf("%w: row has %d columns, header declares %d", ErrExtraColumns, len(ln.fields), len(cols))}
			}
			for i, f := range ln.fields {
				if err := cols[i].appendCell(f, ln.num, i, lookups[i]); err != nil {
					return nil, err
				}
			}
			ds.rows++
		default:
			return nil, &ParseError{Line: ln.num, Column: -1, Err: fmt.Errorf("%w: directive after @DATA", ErrFormat)}
		}
	}
}

// Name returns the relation name.
func (ds *DataSet) Name() string { return ds.relation }

// NumRows returns the number of data rows.
func (ds *DataSet) NumRows() int { return ds.rows }

// NumCols returns the number of columns.
func (ds *DataSet) NumCols() int { return len(ds.columns) }

// ColNames returns the column names in declaration order.
func (ds *DataSet) ColNames() []string {
	names := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		names[i] = c.attr.Name
	}
	return names
}

// Col returns the column at index i.
func (ds *DataSet) Col(i int) *Column { return ds.columns[i] }

// ColByName returns the named column.
func (ds *DataSet) ColByName(name string) (*Column, bool) {
	for _, c := range ds.columns {
		if c.attr.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Row returns row i as dynamically typed cells, one per column.
func (ds *DataSet) Row(i int) []any {
	row := make([]any, len(ds.columns))
	for j, c := range ds.columns {
		row[j] = c.Value(i)
	}
	return row
}

// Item returns the cell at row i, column j.
func (ds *DataSet) Item(i, j int) any { return ds.columns[j].Value(i) }

// Marshal re-emits the data set as ARFF text.
func (ds *DataSet) Marshal() ([]byte, error) {
	attrs := make([]Attribute, len(ds.columns))
	for i, c := range ds.columns {
		attrs[i] = c.attr
	}
	var b strings.Builder
	Header{Relation: ds.relation, Attrs: attrs}.write(&b)
	cols := make([]colValue, len(ds.columns))
	for i := 0; i < ds.rows; i++ {
		for j, c := range ds.columns {
			cols[j] = c.cell(i)
		}
		writeRow(&b, cols)
	}
	return []byte(b.String()), nil
}

func (c *Column) cell(i int) colValue {
	if c.missing[i] {
		return colValue{tag: colMissing}
	}
	switch c.attr.Kind {
	case AttrNumeric:
		return colValue{tag: colNumber, text: strconv.FormatFloat(c.nums[i], 'g', -1, 64)}
	case AttrNominal:
		return colValue{tag: colNominal, text: c.attr.Labels[c.idxs[i]]}
	default:
		return colValue{tag: colText, text: c.strs[i]}
	}
}

// MarshalYAML renders the data set as a YAML document with the relation
// name, the attribute declarations, and the rows as nested sequences.
// Missing cells become YAML nulls.
func (ds *DataSet) MarshalYAML() (any, error) {
	type attrDoc struct {
		Name   string   `yaml:"name"`
		Type   string   `yaml:"type"`
		Labels []string `yaml:"labels,omitempty"`
	}
	doc := struct {
		Relation   string    `yaml:"relation"`
		Attributes []attrDoc `yaml:"attributes"`
		Rows       [][]any   `yaml:"rows"`
	}{Relation: ds.relation}
	for _, c := range ds.columns {
		doc.Attributes = append(doc.Attributes, attrDoc{
			Name:   c.attr.Name,
			Type:   strings.ToLower(c.attr.Kind.String()),
			Labels: c.attr.Labels,
		})
	}
	doc.Rows = make([][]any, ds.rows)
	for i := 0; i < ds.rows; i++ {
		doc.Rows[i] = ds.Row(i)
	}
	return doc, nil
}

// WriteYAML writes the data set as a YAML document to w.
func (ds *DataSet) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return err
	}
	return enc.Close()
}
