package storyboard

import (
	"math"
	"testing"
)

const floatEpsilon = 1e-9

// TestEasingEndpoints verifies that every easing curve maps 0 to 0 and
// 1 to 1.
func TestEasingEndpoints(t *testing.T) {
	easings := []EasingType{EasingLinear, EasingOut, EasingIn, EasingInOut}
	for _, e := range easings {
		if got := e.Ease(0); math.Abs(got) > floatEpsilon {
			t.Errorf("easing %d: Ease(0) = %v, expected 0", e, got)
		}
		if got := e.Ease(1); math.Abs(got-1) > floatEpsilon {
			t.Errorf("easing %d: Ease(1) = %v, expected 1", e, got)
		}
	}
}

// TestEasingCurves verifies the curve formulas at interior points.
func TestEasingCurves(t *testing.T) {
	tests := []struct {
		name     string
		easing   EasingType
		input    float64
		expected float64
	}{
		{"linear quarter", EasingLinear, 0.25, 0.25},
		{"linear half", EasingLinear, 0.5, 0.5},
		{"out half", EasingOut, 0.5, 0.75},     // 1 - (1-0.5)^2
		{"out quarter", EasingOut, 0.25, 0.4375}, // 1 - 0.75^2
		{"in half", EasingIn, 0.5, 0.25},       // 0.5^2
		{"in quarter", EasingIn, 0.25, 0.0625},
		{"inout quarter", EasingInOut, 0.25, 0.125}, // 2*0.25^2
		{"inout half", EasingInOut, 0.5, 0.5},
		{"inout three quarters", EasingInOut, 0.75, 0.875}, // 1 - (-1.5+2)^2/2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.easing.Ease(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Ease(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestEasingUnknownFallsBackToLinear verifies that easing ids outside the
// known set behave as linear.
func TestEasingUnknownFallsBackToLinear(t *testing.T) {
	for _, id := range []EasingType{-1, 4, 17, 100} {
		for _, v := range []float64{0, 0.3, 0.7, 1} {
			if got := id.Ease(v); math.Abs(got-v) > floatEpsilon {
				t.Errorf("easing %d: Ease(%v) = %v, expected linear %v", id, v, got, v)
			}
		}
	}
}

// TestEasingMonotonic verifies that each curve is monotonic non-decreasing
// over [0, 1] (EaseInOut on each half).
func TestEasingMonotonic(t *testing.T) {
	easings := []EasingType{EasingLinear, EasingOut, EasingIn, EasingInOut}
	const steps = 1000
	for _, e := range easings {
		prev := e.Ease(0)
		for i := 1; i <= steps; i++ {
			v := e.Ease(float64(i) / steps)
			if v < prev-floatEpsilon {
				t.Errorf("easing %d not monotonic at t=%v: %v < %v", e, float64(i)/steps, v, prev)
				break
			}
			prev = v
		}
	}
}

// TestLerp verifies the shared interpolation helper.
func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t  float64
		expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.5, 5},
		{10, 0, 0.25, 7.5},
		{-5, 5, 0.5, 0},
	}
	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > floatEpsilon {
			t.Errorf("Lerp(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.t, got, tt.expected)
		}
	}
}
