package biquad

import "math"

// denormalThreshold corresponds to roughly -400 dBFS; outputs below it
// are flushed to exactly zero to keep denormals out of the feedback
// path.
const denormalThreshold = 1e-20

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The feedback coefficients are stored negated, so the recurrence is
// a plain sum:
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] + A1*y[n-1] + A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // negated feedback (denominator)
}

// Section is a single biquad in Direct Form I with explicit two-sample
// input and output history, so filter state survives block boundaries
// exactly.
type Section struct {
	Coefficients

	x1, x2 float64 // input history: x[n-1], x[n-2]
	y1, y2 float64 // output history: y[n-1], y[n-2]
}

// NewSection returns a Section initialized with the given coefficients
// and zero history.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessBlockTo filters src into dst, reaching into the stored history
// for the first two samples. Both slices must have the same length; dst
// and src may not alias. History is not advanced; call PushHistory with
// the same block afterwards.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	_ = dst[len(src)-1] // bounds check hint

	for n := range src {
		var y float64

		switch n {
		case 0:
			y = s.B0*src[0] + s.B1*s.x1 + s.B2*s.x2 +
				s.A1*s.y1 + s.A2*s.y2
		case 1:
			y = s.B0*src[1] + s.B1*src[0] + s.B2*s.x1 +
				s.A1*dst[0] + s.A2*s.y1
		default:
			y = s.B0*src[n] + s.B1*src[n-1] + s.B2*src[n-2] +
				s.A1*dst[n-1] + s.A2*dst[n-2]
		}

		if math.Abs(y) < denormalThreshold {
			y = 0
		}

		dst[n] = y
	}
}

// PushHistory stores the trailing two samples of the processed block as
// the new input and output history.
func (s *Section) PushHistory(src, dst []float64) {
	n := len(src)

	switch {
	case n >= 2:
		s.x1, s.x2 = src[n-1], src[n-2]
		s.y1, s.y2 = dst[n-1], dst[n-2]
	case n == 1:
		s.x1, s.x2 = src[0], s.x1
		s.y1, s.y2 = dst[0], s.y1
	}
}

// Reset clears the input and output history to zero.
func (s *Section) Reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

// State returns the current history [x1, x2, y1, y2].
func (s *Section) State() [4]float64 {
	return [4]float64{s.x1, s.x2, s.y1, s.y2}
}

// SetState restores a previously saved history.
func (s *Section) SetState(state [4]float64) {
	s.x1, s.x2 = state[0], state[1]
	s.y1, s.y2 = state[2], state[3]
}
