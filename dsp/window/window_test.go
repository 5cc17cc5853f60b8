package window

import (
	"math"
	"testing"
)

func TestGenerateBlackmanPeriodic(t *testing.T) {
	const n = 64

	coeffs := Generate(TypeBlackman, n, WithPeriodic())
	if len(coeffs) != n {
		t.Fatalf("length: got %d, want %d", len(coeffs), n)
	}

	for i, got := range coeffs {
		want := 0.42 -
			0.5*math.Cos(2*math.Pi*float64(i)/float64(n)) +
			0.08*math.Cos(4*math.Pi*float64(i)/float64(n))
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, got, want)
		}
	}

	// Periodic Blackman starts near zero (0.42 - 0.5 + 0.08).
	if math.Abs(coeffs[0]) > 1e-12 {
		t.Fatalf("first coefficient should be ~0, got %v", coeffs[0])
	}
}

func TestGenerateSymmetricEndpoints(t *testing.T) {
	coeffs := Generate(TypeHann, 33)

	if math.Abs(coeffs[0]) > 1e-12 || math.Abs(coeffs[32]) > 1e-12 {
		t.Fatalf("symmetric Hann endpoints should be 0: %v, %v", coeffs[0], coeffs[32])
	}

	if math.Abs(coeffs[16]-1) > 1e-12 {
		t.Fatalf("symmetric Hann midpoint should be 1: %v", coeffs[16])
	}
}

func TestGenerateRejectsBadLength(t *testing.T) {
	if Generate(TypeBlackman, 0) != nil {
		t.Fatal("expected nil for zero length")
	}

	if Generate(TypeBlackman, -3) != nil {
		t.Fatal("expected nil for negative length")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3}
	coeffs := []float64{2, 0.5, 1}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatalf("ApplyCoefficients failed: %v", err)
	}

	want := []float64{2, 1, 3}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
