package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PinkNoise generates deterministic pink noise scaled to the target
// RMS, using Paul Kellet's economy filter over seeded white noise.
func PinkNoise(seed int64, targetRMS float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	var b0, b1, b2 float64

	for i := range out {
		white := rng.Float64()*2 - 1
		b0 = 0.99765*b0 + white*0.0990460
		b1 = 0.96300*b1 + white*0.2965164
		b2 = 0.57000*b2 + white*1.0526913
		out[i] = b0 + b1 + b2 + white*0.1848
	}

	return ScaleToRMS(out, targetRMS)
}

// ScaleToRMS scales the signal in place so its RMS equals target, and
// returns it. A silent signal is returned unchanged.
func ScaleToRMS(signal []float64, target float64) []float64 {
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(len(signal)))
	if rms == 0 {
		return signal
	}

	scale := target / rms
	for i := range signal {
		signal[i] *= scale
	}

	return signal
}

// RMS returns the root mean square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(signal)))
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
