package engine

import (
	"math"
	"testing"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"empty", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"equal", []int{4, 4, 4, 4}, 0},
		{"single person", []int{10}, 0},
		{"one holds everything", []int{0, 0, 0, 12}, 0.75},
		{"staircase", []int{1, 2, 3, 4}, 0.25},
	}
	for _, tt := range tests {
		if got := Gini(tt.values); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: Gini(%v) = %v, want %v", tt.name, tt.values, got, tt.want)
		}
	}
}

func TestGiniInputUntouched(t *testing.T) {
	values := []int{5, 1, 3}
	Gini(values)
	if values[0] != 5 || values[1] != 1 || values[2] != 3 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestGiniOrderInvariant(t *testing.T) {
	a := Gini([]int{1, 2, 3, 4})
	b := Gini([]int{4, 2, 1, 3})
	if a != b {
		t.Errorf("Gini depends on input order: %v vs %v", a, b)
	}
}
