package explain

import (
	"errors"
	"testing"
)

func TestSubset(t *testing.T) {
	values, columns, features := threeFeatureFixture(t)
	inter, err := NewInteractions(symmetricGrid(2), columns)
	if err != nil {
		t.Fatalf("NewInteractions: %v", err)
	}
	exp, err := New(values, columns, features,
		WithBaseline(1.5), WithInteractions(inter))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sub, err := exp.Subset([]int{1})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if got := sub.Rows(); got != 1 {
		t.Fatalf("Rows() = %d, want 1", got)
	}
	if v, _ := sub.Value(0, "x"); v != -1 {
		t.Errorf("Value(0, x) = %v, want -1", v)
	}
	if got := sub.Baseline(); got != 1.5 {
		t.Errorf("Baseline() = %v, want 1.5", got)
	}
	if got := sub.Features().Rows(); got != 1 {
		t.Errorf("Features().Rows() = %d, want 1", got)
	}
	if !sub.HasInteractions() {
		t.Error("interactions dropped by Subset")
	}

	if _, err := exp.Subset([]int{0, 7}); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("Subset([0 7]) error = %v, want ErrRowOutOfRange", err)
	}
	if _, err := exp.Subset(nil); !errors.Is(err, ErrNilValues) {
		t.Errorf("Subset(nil) error = %v, want ErrNilValues", err)
	}
	if _, err := exp.Subset([]int{}); !errors.Is(err, ErrNilValues) {
		t.Errorf("Subset([]) error = %v, want ErrNilValues", err)
	}
}

func TestSelect(t *testing.T) {
	values, columns, features := threeFeatureFixture(t)
	inter, err := NewInteractions(symmetricGrid(2), columns)
	if err != nil {
		t.Fatalf("NewInteractions: %v", err)
	}
	exp, err := New(values, columns, features, WithInteractions(inter))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sel, err := exp.Select([]string{"z", "x"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := sel.Columns(); len(got) != 2 || got[0] != "z" || got[1] != "x" {
		t.Fatalf("Columns() = %v, want [z x]", got)
	}
	if v, _ := sel.Value(0, "z"); v != 0.5 {
		t.Errorf("Value(0, z) = %v, want 0.5", v)
	}
	if v, _ := sel.Interactions().Value(0, "z", "x"); v != 0.2 {
		t.Errorf("interaction (z, x) = %v, want 0.2", v)
	}

	if _, err := exp.Select([]string{"x", "nope"}); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Select(nope) error = %v, want ErrUnknownColumn", err)
	}
	if _, err := exp.Select([]string{"x", "x"}); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("Select(x, x) error = %v, want ErrDuplicateColumn", err)
	}
	if _, err := exp.Select(nil); !errors.Is(err, ErrNilValues) {
		t.Errorf("Select(nil) error = %v, want ErrNilValues", err)
	}
}

func TestMeanAbsAndOrder(t *testing.T) {
	values, columns, features := threeFeatureFixture(t)
	exp, err := New(values, columns, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	imp := exp.MeanAbs()
	want := []float64{1, 1, 0.5}
	for i := range want {
		if imp[i] != want[i] {
			t.Errorf("MeanAbs()[%d] = %v, want %v", i, imp[i], want[i])
		}
	}

	// x and y tie at 1.0; ties break alphabetically.
	order := exp.Order()
	wantOrder := []string{"x", "y", "z"}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, order[i], wantOrder[i])
		}
	}
}
