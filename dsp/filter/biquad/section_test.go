package biquad

import (
	"math"
	"testing"
)

// reference applies the recurrence sample-by-sample over the whole
// signal with simple shift registers.
func reference(c Coefficients, signal []float64) []float64 {
	out := make([]float64, len(signal))

	var x1, x2, y1, y2 float64

	for n, x := range signal {
		y := c.B0*x + c.B1*x1 + c.B2*x2 + c.A1*y1 + c.A2*y2
		if math.Abs(y) < denormalThreshold {
			y = 0
		}

		out[n] = y
		x2, x1 = x1, x
		y2, y1 = y1, y
	}

	return out
}

func testCoefficients() Coefficients {
	// Arbitrary stable lowpass-like section.
	return Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: 0.5, A2: -0.3}
}

func TestProcessBlockMatchesReference(t *testing.T) {
	c := testCoefficients()
	s := NewSection(c)

	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(0.1*float64(i)) + 0.3*math.Cos(0.37*float64(i))
	}

	want := reference(c, signal)

	got := make([]float64, len(signal))
	s.ProcessBlockTo(got, signal)
	s.PushHistory(signal, got)

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBlockSplitEqualsWholeSignal(t *testing.T) {
	c := testCoefficients()

	signal := make([]float64, 512)
	for i := range signal {
		signal[i] = math.Sin(0.05 * float64(i))
	}

	want := reference(c, signal)

	s := NewSection(c)
	got := make([]float64, len(signal))

	const blockSize = 64
	for start := 0; start < len(signal); start += blockSize {
		src := signal[start : start+blockSize]
		dst := got[start : start+blockSize]
		s.ProcessBlockTo(dst, src)
		s.PushHistory(src, dst)
	}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: split processing diverged: got %v, want %v",
				i, got[i], want[i])
		}
	}
}

func TestDenormalFlush(t *testing.T) {
	s := NewSection(Coefficients{B0: 1})

	src := []float64{1e-21, -1e-25, 1e-19}
	dst := make([]float64, len(src))
	s.ProcessBlockTo(dst, src)

	if dst[0] != 0 || dst[1] != 0 {
		t.Fatalf("sub-threshold outputs not flushed: %v", dst)
	}

	if dst[2] == 0 {
		t.Fatal("above-threshold output wrongly flushed")
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := NewSection(testCoefficients())

	src := []float64{1, 2, 3, 4}
	dst := make([]float64, 4)
	s.ProcessBlockTo(dst, src)
	s.PushHistory(src, dst)

	s.Reset()

	if s.State() != [4]float64{} {
		t.Fatalf("Reset left state: %v", s.State())
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := NewSection(testCoefficients())
	s.SetState([4]float64{1, 2, 3, 4})

	if s.State() != [4]float64{1, 2, 3, 4} {
		t.Fatalf("state round trip failed: %v", s.State())
	}
}
