package adapter

import (
	"fmt"
	"os"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// Native reads the shapviz wire format produced by pkg/shapio.
type Native struct{}

func (a *Native) Type() string { return "shapviz" }

func (a *Native) Supports(format string) bool {
	return format == "shapviz" || format == "json"
}

func (a *Native) Parse(path string, opts Options) (*explain.Explanation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := shapio.ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shapio.ToExplanation(doc, opts.options()...)
}
