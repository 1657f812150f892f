package render

import (
	"testing"

	"github.com/jmaspons/shapviz/pkg/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"waterfall", KindWaterfall, false},
		{" Force ", KindForce, false},
		{"BEESWARM", KindBeeswarm, false},
		{"network", KindNetwork, false},
		{"pie", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPlot) {
					t.Errorf("ParseKind(%q): got %v, want ErrCodeInvalidPlot", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	// Empty string picks the kind's default format.
	f, err := ParseFormat(KindWaterfall, "")
	if err != nil || f != FormatSVG {
		t.Errorf("default waterfall format = %q, %v; want svg", f, err)
	}
	f, err = ParseFormat(KindDependence, "")
	if err != nil || f != FormatHTML {
		t.Errorf("default dependence format = %q, %v; want html", f, err)
	}

	if _, err := ParseFormat(KindWaterfall, "png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("waterfall/png: got %v, want ErrCodeInvalidFormat", err)
	}
	if _, err := ParseFormat(KindNetwork, "png"); err != nil {
		t.Errorf("network/png should be supported: %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-1, "-1"},
		{0.5, "0.5"},
		{1.2345, "1.234"},
		{0.0001, "0.0001"},
		{1234567890, "1.23e+09"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTicksCoverRange(t *testing.T) {
	ticks := Ticks(0, 10, 5)
	if len(ticks) < 2 {
		t.Fatalf("Ticks(0,10,5) = %v, want at least 2 ticks", ticks)
	}
	for _, v := range ticks {
		if v < 0 || v > 10+1e-9 {
			t.Errorf("tick %v out of range", v)
		}
	}

	// Degenerate range collapses to a single tick.
	if got := Ticks(2, 2, 5); len(got) != 1 || got[0] != 2 {
		t.Errorf("Ticks(2,2,5) = %v, want [2]", got)
	}
}

func TestScale(t *testing.T) {
	if got := Scale(5, 0, 10, 0, 100); got != 50 {
		t.Errorf("Scale midpoint = %v, want 50", got)
	}
	// Degenerate data range maps to pixel midpoint.
	if got := Scale(3, 3, 3, 0, 100); got != 50 {
		t.Errorf("Scale degenerate = %v, want 50", got)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&quot;c&quot;" {
		t.Errorf("EscapeXML = %q", got)
	}
}

func TestFormatsEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		if len(Formats(k)) == 0 {
			t.Errorf("kind %q has no formats", k)
		}
	}
	if len(Kinds()) != 6 {
		t.Errorf("expected 6 plot kinds, got %d", len(Kinds()))
	}
}
