package shapio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/table"
)

// Document is the wire representation of an explanation.
// Most callers should use [Marshal]/[Read] instead of touching Document
// directly; it is exported for API handlers that need to inspect fields
// before constructing the container.
type Document struct {
	Baseline     float64       `json:"baseline,omitempty"`
	Columns      []string      `json:"columns"`
	Values       [][]float64   `json:"values"`
	Features     []Column      `json:"features"`
	Interactions [][][]float64 `json:"interactions,omitempty"`
}

// Column is one feature-table column on the wire. Exactly one of Numbers
// and Strings is set. Numeric entries may be null (missing display value).
type Column struct {
	Name    string     `json:"name"`
	Numbers []*float64 `json:"numbers,omitempty"`
	Strings []string   `json:"strings,omitempty"`
}

// FromExplanation converts an explanation to its wire representation.
func FromExplanation(exp *explain.Explanation) Document {
	n := exp.Rows()
	columns := exp.Columns()

	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		row, _ := exp.Row(i)
		values[i] = row
	}

	features := exp.Features()
	cols := make([]Column, 0, len(features.Names()))
	for _, name := range features.Names() {
		c, _ := features.Column(name)
		out := Column{Name: name}
		if c.Kind() == table.KindNumber {
			nums := c.Numbers()
			out.Numbers = make([]*float64, len(nums))
			for i, v := range nums {
				if math.IsNaN(v) {
					continue // encode missing values as null
				}
				v := v
				out.Numbers[i] = &v
			}
		} else {
			out.Strings = make([]string, n)
			for i := 0; i < n; i++ {
				out.Strings[i] = c.Cell(i)
			}
		}
		cols = append(cols, out)
	}

	doc := Document{
		Baseline: exp.Baseline(),
		Columns:  columns,
		Values:   values,
		Features: cols,
	}

	if x := exp.Interactions(); x != nil {
		doc.Interactions = make([][][]float64, x.Rows())
		for i := 0; i < x.Rows(); i++ {
			m, _ := x.Matrix(i)
			rows := make([][]float64, x.Size())
			for a := 0; a < x.Size(); a++ {
				row := make([]float64, x.Size())
				mat.Row(row, a, m)
				rows[a] = row
			}
			doc.Interactions[i] = rows
		}
	}

	return doc
}

// ToExplanation validates a wire document and builds the container.
// All structural validation is delegated to [explain.New], so malformed
// documents fail with the same errors as malformed in-process input.
// Extra options are applied after the document's own baseline and
// interactions, so callers can override the baseline or request a collapse.
func ToExplanation(doc Document, extra ...explain.Option) (*explain.Explanation, error) {
	p := len(doc.Columns)
	n := len(doc.Values)
	if n == 0 || p == 0 {
		return nil, explain.ErrNilValues
	}

	values := mat.NewDense(n, p, nil)
	for i, row := range doc.Values {
		if len(row) != p {
			return nil, fmt.Errorf("values row %d has %d entries, want %d: %w",
				i, len(row), p, explain.ErrColumnCountMismatch)
		}
		values.SetRow(i, row)
	}

	cols := make([]table.Column, 0, len(doc.Features))
	for _, c := range doc.Features {
		if c.Strings != nil {
			cols = append(cols, table.StringColumn(c.Name, c.Strings))
			continue
		}
		nums := make([]float64, len(c.Numbers))
		for i, v := range c.Numbers {
			if v == nil {
				nums[i] = math.NaN()
			} else {
				nums[i] = *v
			}
		}
		cols = append(cols, table.NumberColumn(c.Name, nums))
	}
	features, err := table.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	opts := []explain.Option{explain.WithBaseline(doc.Baseline)}
	if doc.Interactions != nil {
		inter, err := explain.NewInteractions(doc.Interactions, doc.Columns)
		if err != nil {
			return nil, fmt.Errorf("interactions: %w", err)
		}
		opts = append(opts, explain.WithInteractions(inter))
	}
	opts = append(opts, extra...)

	return explain.New(values, doc.Columns, features, opts...)
}

// Marshal converts an explanation to JSON bytes.
func Marshal(exp *explain.Explanation) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(exp, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes an explanation as JSON to an io.Writer.
// Use [Marshal] for in-memory serialization or [Export] for files.
func Write(exp *explain.Explanation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromExplanation(exp)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes an explanation to a JSON file at path.
// The file is created with 0644 permissions.
func Export(exp *explain.Explanation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(exp, f)
}

// ReadDocument decodes the wire document without constructing the
// container. Adapters use this to re-run construction with extra options
// (collapse groups, baseline overrides) before validation.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// Read decodes a JSON explanation from an io.Reader.
//
// Read returns an error if the JSON is malformed, or if the decoded
// document fails container validation (duplicate columns, row count
// mismatches, a malformed interaction tensor). Errors carry the explain
// package's sentinel errors, so callers can use errors.Is to distinguish
// failure taxa. Read does not close r.
func Read(r io.Reader) (*explain.Explanation, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToExplanation(doc)
}

// Import reads a JSON file at path and returns the decoded explanation.
func Import(path string) (*explain.Explanation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
