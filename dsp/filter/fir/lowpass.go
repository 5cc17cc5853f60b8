package fir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-kmeter/dsp/window"
)

// cutoffHz is the band limit of the average-level low-pass. Readings
// stay comparable across sample rates because everything above the
// audio band is removed before the RMS reduction.
const cutoffHz = 21000.0

// LowpassKernel is a windowed-sinc low-pass filter kernel of length
// bufferSize+1, zero-padded to twice the buffer size, with its
// frequency-domain form precomputed for overlap-add convolution.
type LowpassKernel struct {
	taps     []float64
	padded   []complex128
	spectrum []complex128
	fftSize  int

	plan *algofft.Plan[complex128]
}

// DesignLowpass builds the kernel for the given block geometry and
// sample rate. The FFT size is fixed at 2*bufferSize for the life of
// the kernel; use Rebuild for sample-rate changes.
func DesignLowpass(bufferSize int, sampleRate float64) (*LowpassKernel, error) {
	if bufferSize < 1 {
		return nil, fmt.Errorf("fir: buffer size must be >= 1: %d", bufferSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("fir: sample rate must be > 0: %f", sampleRate)
	}

	fftSize := 2 * bufferSize

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fir: failed to create FFT plan: %w", err)
	}

	k := &LowpassKernel{
		taps:     make([]float64, bufferSize+1),
		padded:   make([]complex128, fftSize),
		spectrum: make([]complex128, fftSize),
		fftSize:  fftSize,
		plan:     plan,
	}

	if err := k.Rebuild(sampleRate); err != nil {
		return nil, err
	}

	return k, nil
}

// Rebuild recomputes the taps and the frequency-domain form for a new
// sample rate, reusing the existing FFT plan and buffers.
func (k *LowpassKernel) Rebuild(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("fir: sample rate must be > 0: %f", sampleRate)
	}

	fc := cutoffHz / sampleRate
	if fc > 0.5 {
		fc = 0.5
	}

	n := len(k.taps)
	half := float64(n) / 2
	taper := window.Generate(window.TypeBlackman, n, window.WithPeriodic())

	for i := range k.taps {
		x := float64(i) - half
		if x == 0 {
			k.taps[i] = 2 * math.Pi * fc
		} else {
			k.taps[i] = math.Sin(2*math.Pi*fc*x) / x * taper[i]
		}
	}

	// Normalize for unity gain at DC.
	sum := 0.0
	for _, tap := range k.taps {
		sum += tap
	}

	vecmath.ScaleBlock(k.taps, k.taps, 1/sum)

	for i := range k.padded {
		k.padded[i] = 0
	}
	for i, tap := range k.taps {
		k.padded[i] = complex(tap, 0)
	}

	if err := k.plan.Forward(k.spectrum, k.padded); err != nil {
		return fmt.Errorf("fir: kernel transform failed: %w", err)
	}

	return nil
}

// Len returns the kernel length in taps.
func (k *LowpassKernel) Len() int {
	return len(k.taps)
}

// FFTSize returns the transform size of the precomputed spectrum.
func (k *LowpassKernel) FFTSize() int {
	return k.fftSize
}

// Taps returns the time-domain taps. The slice is owned by the kernel;
// callers must not mutate it.
func (k *LowpassKernel) Taps() []float64 {
	return k.taps
}

// Spectrum returns the frequency-domain form. The slice is owned by
// the kernel; callers must not mutate it.
func (k *LowpassKernel) Spectrum() []complex128 {
	return k.spectrum
}
