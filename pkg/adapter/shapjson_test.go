package adapter

import (
	stderrors "errors"
	"testing"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
)

func TestSHAPJSONParse(t *testing.T) {
	path := writeFile(t, "shap.json", `{
		"values": [[1, -1], [-1, 1]],
		"base_values": 4,
		"data": [[0.7, 61.5], [1.2, 59.0]],
		"feature_names": ["carat", "depth"]
	}`)

	exp, err := (&SHAPJSON{}).Parse(path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if exp.Baseline() != 4 {
		t.Errorf("Baseline() = %v, want 4", exp.Baseline())
	}
	if got := exp.Columns(); got[0] != "carat" || got[1] != "depth" {
		t.Errorf("Columns() = %v", got)
	}
	c, _ := exp.Features().Column("depth")
	if v, _ := c.Number(1); v != 59 {
		t.Errorf("depth[1] = %v, want 59", v)
	}
}

func TestSHAPJSONBaseValuesArray(t *testing.T) {
	t.Run("Uniform", func(t *testing.T) {
		path := writeFile(t, "shap.json", `{
			"values": [[1], [2]],
			"base_values": [4, 4],
			"data": [[1], [2]],
			"feature_names": ["x"]
		}`)
		exp, err := (&SHAPJSON{}).Parse(path, Options{})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if exp.Baseline() != 4 {
			t.Errorf("Baseline() = %v, want 4", exp.Baseline())
		}
	})

	t.Run("Varying", func(t *testing.T) {
		path := writeFile(t, "shap.json", `{
			"values": [[1], [2]],
			"base_values": [4, 5],
			"data": [[1], [2]],
			"feature_names": ["x"]
		}`)
		_, err := (&SHAPJSON{}).Parse(path, Options{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Parse error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestSHAPJSONInteractions(t *testing.T) {
	path := writeFile(t, "shap.json", `{
		"values": [[1, -1]],
		"base_values": 0,
		"data": [[0.7, 61.5]],
		"feature_names": ["carat", "depth"],
		"interaction_values": [[[0.8, 0.2], [0.2, -1.2]]]
	}`)

	exp, err := (&SHAPJSON{}).Parse(path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !exp.HasInteractions() {
		t.Fatal("interactions missing")
	}
	if v, _ := exp.Interactions().Value(0, "carat", "depth"); v != 0.2 {
		t.Errorf("interaction = %v, want 0.2", v)
	}
}

func TestSHAPJSONShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "RaggedValues",
			content: `{"values": [[1, 2], [1]], "data": [[1, 2], [1, 2]], "feature_names": ["x", "y"]}`,
			wantErr: explain.ErrColumnCountMismatch,
		},
		{
			name:    "DataRowMismatch",
			content: `{"values": [[1, 2]], "data": [[1, 2], [3, 4]], "feature_names": ["x", "y"]}`,
			wantErr: explain.ErrRowCountMismatch,
		},
		{
			name:    "Empty",
			content: `{"values": [], "data": [], "feature_names": []}`,
			wantErr: explain.ErrNilValues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "shap.json", tt.content)
			_, err := (&SHAPJSON{}).Parse(path, Options{})
			if !stderrors.Is(err, tt.wantErr) {
				t.Errorf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
