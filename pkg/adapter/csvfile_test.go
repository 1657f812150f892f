package adapter

import (
	"testing"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/table"
)

func TestCSVParse(t *testing.T) {
	values := writeFile(t, "values.csv", "carat,color\n0.5,0.25\n-1,0.5\n")
	features := writeFile(t, "features.csv", "carat,color\n0.7,D\n1.2,E\n")

	exp, err := (&CSV{}).Parse(values, Options{FeaturesPath: features})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if exp.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", exp.Rows())
	}
	if v, _ := exp.Value(1, "color"); v != 0.5 {
		t.Errorf("Value(1, color) = %v, want 0.5", v)
	}

	// Mixed cells make the column categorical; numeric-only stays numeric.
	c, _ := exp.Features().Column("color")
	if c.Kind() != table.KindString {
		t.Error("color column kind = number, want string")
	}
	n, _ := exp.Features().Column("carat")
	if n.Kind() != table.KindNumber {
		t.Error("carat column kind = string, want number")
	}
}

func TestCSVParseErrors(t *testing.T) {
	values := writeFile(t, "values.csv", "x\n1\n")

	t.Run("MissingFeaturesPath", func(t *testing.T) {
		_, err := (&CSV{}).Parse(values, Options{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Parse error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("NonNumericAttribution", func(t *testing.T) {
		bad := writeFile(t, "values.csv", "x\noops\n")
		features := writeFile(t, "features.csv", "x\n1\n")
		if _, err := (&CSV{}).Parse(bad, Options{FeaturesPath: features}); err == nil {
			t.Error("Parse succeeded with non-numeric attribution cell")
		}
	})

	t.Run("RowCountMismatch", func(t *testing.T) {
		features := writeFile(t, "features.csv", "x\n1\n2\n")
		if _, err := (&CSV{}).Parse(values, Options{FeaturesPath: features}); err == nil {
			t.Error("Parse succeeded with mismatched row counts")
		}
	})
}
