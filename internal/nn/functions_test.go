package nn

import (
	"math"
	"testing"
)

func TestSigmoidClampedTails(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{name: "zero", x: 0, want: 0.5},
		{name: "large-positive", x: 1e9, want: 1},
		{name: "large-negative", x: -1e9, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sigmoid(tc.x)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("not finite: got=%f", got)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("unexpected value: got=%f want=%f", got, tc.want)
			}
		})
	}
}

func TestSaturationWithSpread(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		spread float64
		want   float64
	}{
		{name: "inside", value: 0.5, spread: 6, want: 0.5},
		{name: "above", value: 10, spread: 6, want: 6},
		{name: "below", value: -10, spread: 6, want: -6},
		{name: "negative-spread", value: 10, spread: -6, want: 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SaturationWithSpread(tc.value, tc.spread); got != tc.want {
				t.Fatalf("unexpected value: got=%f want=%f", got, tc.want)
			}
		})
	}
}

func TestSat(t *testing.T) {
	if got := Sat(250, 200, 0); got != 200 {
		t.Fatalf("unexpected value: got=%f want=200", got)
	}
	if got := Sat(-3, 200, 0); got != 0 {
		t.Fatalf("unexpected value: got=%f want=0", got)
	}
	if got := Sat(42, 200, 0); got != 42 {
		t.Fatalf("unexpected value: got=%f want=42", got)
	}
}

func TestAvg(t *testing.T) {
	got, err := Avg([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("unexpected mean: got=%f want=2.5", got)
	}

	if _, err := Avg(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
