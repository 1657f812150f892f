package adapter

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/table"
)

// CSV reads paired CSV files: the attribution grid at the primary path and
// the feature table at Options.FeaturesPath. Both files carry a header row
// of column names; alignment between them is by name.
type CSV struct{}

func (a *CSV) Type() string { return "csv" }

func (a *CSV) Supports(format string) bool { return format == "csv" }

func (a *CSV) Parse(path string, opts Options) (*explain.Explanation, error) {
	if opts.FeaturesPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"csv input requires a feature table file (--features)")
	}

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(header) == 0 {
		return nil, explain.ErrNilValues
	}

	values := mat.NewDense(len(rows), len(header), nil)
	for i, row := range rows {
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d, column %q: %q: %w",
					path, i+1, header[j], cell, explain.ErrNonFiniteValue)
			}
			values.Set(i, j, v)
		}
	}

	features, err := readFeatureTable(opts.FeaturesPath)
	if err != nil {
		return nil, err
	}

	return explain.New(values, header, features, opts.options()...)
}

// readCSV returns the header row and the remaining records, requiring a
// rectangular file (enforced by encoding/csv's FieldsPerRecord default).
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// readFeatureTable builds a display table from a CSV file. A column is
// numeric when every cell parses as a float (empty cells count as missing
// numeric values); otherwise it is kept as strings.
func readFeatureTable(path string) (*table.Table, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cols := make([]table.Column, len(header))
	for j, name := range header {
		nums := make([]float64, len(rows))
		numeric := true
		for i, row := range rows {
			if row[j] == "" {
				nums[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				numeric = false
				break
			}
			nums[i] = v
		}
		if numeric {
			cols[j] = table.NumberColumn(name, nums)
			continue
		}
		strs := make([]string, len(rows))
		for i, row := range rows {
			strs[i] = row[j]
		}
		cols[j] = table.StringColumn(name, strs)
	}
	return table.New(cols...)
}
