package cli

import (
	"io"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/store"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"inspect", "plot", "collapse", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")
	defer SetVersion("", "", "")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2026-01-01" {
		t.Errorf("date = %q, want %q", date, "2026-01-01")
	}
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty defaults to waterfall", input: "", want: []string{"waterfall"}},
		{name: "single", input: "force", want: []string{"force"}},
		{name: "multiple", input: "waterfall,beeswarm,network", want: []string{"waterfall", "beeswarm", "network"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseKinds(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseKinds(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
	if got := splitList("svg,png"); !reflect.DeepEqual(got, []string{"svg", "png"}) {
		t.Errorf("splitList(\"svg,png\") = %v", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{name: "derived from input", output: "", input: "run.json", want: "run"},
		{name: "output without extension", output: "plots/run", input: "run.json", want: "plots/run"},
		{name: "output with artifact extension", output: "plots/run.svg", input: "run.json", want: "plots/run"},
		{name: "output with foreign extension", output: "run.data", input: "run.json", want: "run.data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseGroups(t *testing.T) {
	groups, err := parseGroups([]string{"color=color_red,color_blue", "size=size_s,size_m"})
	if err != nil {
		t.Fatalf("parseGroups() error: %v", err)
	}
	want := map[string][]string{
		"color": {"color_red", "color_blue"},
		"size":  {"size_s", "size_m"},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("parseGroups() = %v, want %v", groups, want)
	}
}

func TestParseGroupsEmpty(t *testing.T) {
	groups, err := parseGroups(nil)
	if err != nil {
		t.Fatalf("parseGroups(nil) error: %v", err)
	}
	if groups != nil {
		t.Errorf("parseGroups(nil) = %v, want nil", groups)
	}
}

func TestParseGroupsInvalid(t *testing.T) {
	for _, spec := range []string{"noequals", "=children", "parent="} {
		if _, err := parseGroups([]string{spec}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseGroups(%q) error = %v, want code %s", spec, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestExplanationListNavigation(t *testing.T) {
	entries := []store.Info{
		{ID: "a", Name: "first", Rows: 2, Columns: 3},
		{ID: "b", Name: "second", Rows: 4, Columns: 5},
	}
	m := NewExplanationListModel(entries)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ExplanationListModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ExplanationListModel)
	if m.Selected == nil || m.Selected.ID != "b" {
		t.Fatalf("Selected = %+v, want entry b", m.Selected)
	}
}

func TestExplanationListQuit(t *testing.T) {
	m := NewExplanationListModel([]store.Info{{ID: "a"}})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ExplanationListModel)
	if m.Selected != nil {
		t.Error("quitting should not select an entry")
	}
	if cmd == nil {
		t.Error("quit should return a tea.Quit command")
	}
}
