// Package table provides a small column-major tabular structure for
// feature display values.
//
// A [Table] holds one column per feature and one row per observation. It is
// used strictly for display and coloring of explanation plots: attribution
// math never reads from it. Columns are either numeric or string-valued and
// are addressed by name, never by position, since upstream explainers do not
// guarantee a stable column order.
//
// Tables are immutable after construction. Accessors return copies, so a
// Table can be shared freely between renderers.
package table

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

var (
	// ErrEmptyColumnName is returned by [New] when a column has no name.
	// Column names define feature identity and must not be empty.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned by [New] when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrRaggedColumns is returned by [New] when columns have different lengths.
	ErrRaggedColumns = errors.New("columns must have equal length")

	// ErrUnknownColumn is returned by [Table.Select] when a requested column
	// does not exist in the table.
	ErrUnknownColumn = errors.New("unknown column")
)

// Kind distinguishes numeric columns from string columns.
type Kind int

const (
	// KindNumber marks a column of float64 values.
	KindNumber Kind = iota
	// KindString marks a column of string values (e.g., categorical levels).
	KindString
)

// Column is a single named column of display values.
// Construct columns with [NumberColumn] or [StringColumn]; the zero value
// is not usable.
type Column struct {
	name string
	kind Kind
	nums []float64
	strs []string
}

// NumberColumn creates a numeric column. The values slice is copied.
// NaN entries are permitted: missing display values are a rendering concern,
// not a validation failure.
func NumberColumn(name string, values []float64) Column {
	return Column{name: name, kind: KindNumber, nums: slices.Clone(values)}
}

// StringColumn creates a string-valued column. The values slice is copied.
func StringColumn(name string, values []string) Column {
	return Column{name: name, kind: KindString, strs: slices.Clone(values)}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Kind returns whether the column holds numbers or strings.
func (c Column) Kind() Kind { return c.kind }

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.kind == KindNumber {
		return len(c.nums)
	}
	return len(c.strs)
}

// Number returns the numeric value at row i. The second return is false for
// string columns and for NaN entries, so callers can fall back to a neutral
// color or label.
func (c Column) Number(i int) (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Cell returns the display string for row i. Numeric cells are formatted
// with the shortest representation that round-trips; NaN renders as "NA".
func (c Column) Cell(i int) string {
	if c.kind == KindString {
		return c.strs[i]
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Numbers returns a copy of the numeric values, or nil for string columns.
func (c Column) Numbers() []float64 {
	if c.kind != KindNumber {
		return nil
	}
	return slices.Clone(c.nums)
}

// Levels returns the distinct string values in first-appearance order.
// For numeric columns it returns nil. Renderers use levels to assign
// categorical colors deterministically.
func (c Column) Levels() []string {
	if c.kind != KindString {
		return nil
	}
	seen := make(map[string]bool, len(c.strs))
	var levels []string
	for _, s := range c.strs {
		if !seen[s] {
			seen[s] = true
			levels = append(levels, s)
		}
	}
	return levels
}

// take returns a new column containing the given rows, in order.
func (c Column) take(rows []int) Column {
	out := Column{name: c.name, kind: c.kind}
	if c.kind == KindNumber {
		out.nums = make([]float64, len(rows))
		for j, i := range rows {
			out.nums[j] = c.nums[i]
		}
		return out
	}
	out.strs = make([]string, len(rows))
	for j, i := range rows {
		out.strs[j] = c.strs[i]
	}
	return out
}

// Table is an immutable set of equally-sized named columns.
// The zero value is an empty table with no rows; use [New] to build one.
type Table struct {
	rows int
	cols []Column
	idx  map[string]int
}

// New builds a table from the given columns.
//
// Returns [ErrEmptyColumnName] or [ErrDuplicateColumn] for invalid names,
// and [ErrRaggedColumns] when the columns disagree on length. Name
// comparisons are case-sensitive.
func New(cols ...Column) (*Table, error) {
	t := &Table{idx: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c.name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, ok := t.idx[c.name]; ok {
			return nil, fmt.Errorf("column %q: %w", c.name, ErrDuplicateColumn)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.name, c.Len(), t.rows, ErrRaggedColumns)
		}
		t.idx[c.name] = i
	}
	t.cols = slices.Clone(cols)
	return t, nil
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int { return t.rows }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Has reports whether the table contains a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.idx[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Select returns a new table containing the named columns, in the given
// order. Returns [ErrUnknownColumn] if any name is missing.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Align returns a new table whose leading columns are the given names, in
// order, followed by any remaining columns in their original order. Extra
// columns are retained: they are ignored for validation but stay available
// for display. Returns [ErrUnknownColumn] if a requested name is missing.
func (t *Table) Align(names ...string) (*Table, error) {
	requested := make(map[string]bool, len(names))
	cols := make([]Column, 0, len(t.cols))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
		}
		requested[name] = true
		cols = append(cols, c)
	}
	for _, c := range t.cols {
		if !requested[c.name] {
			cols = append(cols, c)
		}
	}
	return New(cols...)
}

// Take returns a new table containing the given rows, in order.
// Row indices must be in range; out-of-range indices panic, matching the
// behavior of slice indexing.
func (t *Table) Take(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	out, _ := New(cols...)
	return out
}
