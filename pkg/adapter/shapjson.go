package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/table"
)

// baselineTol is the spread allowed in a per-observation base_values array.
// Regression explainers emit one identical base value per row; anything
// beyond rounding noise means the caller passed multi-output attributions,
// which this container does not model.
const baselineTol = 1e-9

// SHAPJSON reads the JSON export of a Python shap.Explanation: "values",
// "base_values", "data", and "feature_names" arrays, plus an optional
// "interaction_values" tensor.
type SHAPJSON struct{}

func (a *SHAPJSON) Type() string { return "shap" }

func (a *SHAPJSON) Supports(format string) bool { return format == "shap" }

type shapDocument struct {
	Values            [][]float64     `json:"values"`
	BaseValues        json.RawMessage `json:"base_values"`
	Data              [][]float64     `json:"data"`
	FeatureNames      []string        `json:"feature_names"`
	InteractionValues [][][]float64   `json:"interaction_values"`
}

func (a *SHAPJSON) Parse(path string, opts Options) (*explain.Explanation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc shapDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}

	n := len(doc.Values)
	p := len(doc.FeatureNames)
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

	if len(doc.Data) != n {
		return nil, fmt.Errorf("data has %d rows, values has %d: %w",
			len(doc.Data), n, explain.ErrRowCountMismatch)
	}
	cols := make([]table.Column, p)
	for j, name := range doc.FeatureNames {
		col := make([]float64, n)
		for i, row := range doc.Data {
			if len(row) != p {
				return nil, fmt.Errorf("data row %d has %d entries, want %d: %w",
					i, len(row), p, explain.ErrColumnCountMismatch)
			}
			col[i] = row[j]
		}
		cols[j] = table.NumberColumn(name, col)
	}
	features, err := table.New(cols...)
	if err != nil {
		return nil, err
	}

	eopts := opts.options()
	if opts.Baseline == nil && len(doc.BaseValues) > 0 {
		baseline, err := parseBaseValues(doc.BaseValues)
		if err != nil {
			return nil, err
		}
		eopts = append([]explain.Option{explain.WithBaseline(baseline)}, eopts...)
	}
	if doc.InteractionValues != nil {
		inter, err := explain.NewInteractions(doc.InteractionValues, doc.FeatureNames)
		if err != nil {
			return nil, fmt.Errorf("interaction_values: %w", err)
		}
		eopts = append(eopts, explain.WithInteractions(inter))
	}

	return explain.New(values, doc.FeatureNames, features, eopts...)
}

// parseBaseValues accepts either a scalar base value or a per-observation
// array of identical base values, matching what numpy serialization emits
// for single-output models.
func parseBaseValues(raw json.RawMessage) (float64, error) {
	if v, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return v, nil
	}

	var arr []float64
	if err := json.Unmarshal(raw, &arr); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "base_values must be a number or an array")
	}
	if len(arr) == 0 {
		return 0, nil
	}
	for _, v := range arr[1:] {
		if math.Abs(v-arr[0]) > baselineTol {
			return 0, errors.New(errors.ErrCodeInvalidInput,
				"base_values vary per observation (multi-output explanations are not supported)")
		}
	}
	return arr[0], nil
}
