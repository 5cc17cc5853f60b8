package kweight

import (
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/filter/biquad"
)

// Filter parameters from "ITU-R BS.1770-1 filter specifications
// (unofficial)" by Raiden. The pre-filter models the acoustic effect of
// the head as a high shelf; the RLB curve is a gentle high-pass.
const (
	preShelfGain = 1.584864701130855 // Vh
	preQ         = 0.7071752369554196
	preCutoffHz  = 1681.974450955533

	rlbQ        = 0.5003270373238773
	rlbCutoffHz = 38.13547087602444
)

// PreFilter returns the BS.1770 pre-filter (stage 1) coefficients for
// the given sample rate.
func PreFilter(sampleRate float64) biquad.Coefficients {
	vh := preShelfGain
	vb := math.Sqrt(vh)
	vl := 1.0

	omega := math.Tan(math.Pi * preCutoffHz / sampleRate)
	omega2 := omega * omega
	omegaQ := omega / preQ
	div := omega2 + omegaQ + 1

	return biquad.Coefficients{
		B0: (vl*omega2 + vb*omegaQ + vh) / div,
		B1: 2 * (vl*omega2 - vh) / div,
		B2: (vl*omega2 - vb*omegaQ + vh) / div,
		A1: -2 * (omega2 - 1) / div,
		A2: -(omega2 - omegaQ + 1) / div,
	}
}

// RlbFilter returns the BS.1770 RLB weighting (stage 2) coefficients
// for the given sample rate.
//
// The feed-forward row is normalized by its own divisor (Vl*w^2 +
// Vb*w/Q + Vh rather than the feedback divisor), which encodes the
// pre-gain that cancels the shelf's DC gain. With Vh=1, Vb=Vl=0 this
// leaves the numerator at exactly {1, -2, 1}.
func RlbFilter(sampleRate float64) biquad.Coefficients {
	vh := 1.0
	vb := 0.0
	vl := 0.0

	omega := math.Tan(math.Pi * rlbCutoffHz / sampleRate)
	omega2 := omega * omega
	omegaQ := omega / rlbQ
	div1 := vl*omega2 + vb*omegaQ + vh
	div2 := omega2 + omegaQ + 1

	return biquad.Coefficients{
		B0: 1,
		B1: 2 * (vl*omega2 - vh) / div1,
		B2: (vl*omega2 - vb*omegaQ + vh) / div1,
		A1: -2 * (omega2 - 1) / div2,
		A2: -(omega2 - omegaQ + 1) / div2,
	}
}

// Cascade applies the two-stage K-weighting (pre-filter then RLB) to
// each channel of a block, preserving per-channel filter state across
// blocks.
type Cascade struct {
	pre     []*biquad.Section
	rlb     []*biquad.Section
	scratch []float64
}

// NewCascade returns a K-weighting cascade for the given channel count,
// block size, and sample rate. Panics on nonpositive arguments; the
// engine validates its configuration before construction.
func NewCascade(channels, blockSize int, sampleRate float64) *Cascade {
	if channels < 1 || blockSize < 1 || sampleRate <= 0 {
		panic("kweight: invalid cascade geometry")
	}

	c := &Cascade{
		pre:     make([]*biquad.Section, channels),
		rlb:     make([]*biquad.Section, channels),
		scratch: make([]float64, blockSize),
	}

	for i := range c.pre {
		c.pre[i] = biquad.NewSection(PreFilter(sampleRate))
		c.rlb[i] = biquad.NewSection(RlbFilter(sampleRate))
	}

	return c
}

// Channels returns the channel count.
func (c *Cascade) Channels() int {
	return len(c.pre)
}

// ProcessChannel K-weights one channel in place: pre-filter into
// scratch, then RLB back into samples, pushing history after each
// stage. len(samples) must equal the cascade block size.
func (c *Cascade) ProcessChannel(channel int, samples []float64) {
	pre := c.pre[channel]
	rlb := c.rlb[channel]

	pre.ProcessBlockTo(c.scratch, samples)
	pre.PushHistory(samples, c.scratch)

	rlb.ProcessBlockTo(samples, c.scratch)
	rlb.PushHistory(c.scratch, samples)
}

// SetSampleRate rebuilds both stages' coefficients for a new sample
// rate and clears all filter state.
func (c *Cascade) SetSampleRate(sampleRate float64) {
	preCoeffs := PreFilter(sampleRate)
	rlbCoeffs := RlbFilter(sampleRate)

	for i := range c.pre {
		c.pre[i].Coefficients = preCoeffs
		c.rlb[i].Coefficients = rlbCoeffs
	}

	c.Reset()
}

// Reset clears the filter history of every channel and stage.
func (c *Cascade) Reset() {
	for i := range c.pre {
		c.pre[i].Reset()
		c.rlb[i].Reset()
	}
}
