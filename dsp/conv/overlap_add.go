package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-kmeter/dsp/block"
	"github.com/cwbudde/algo-kmeter/dsp/filter/fir"
)

// Errors returned by convolver construction.
var (
	ErrNilKernel         = errors.New("conv: nil kernel")
	ErrKernelMismatch    = errors.New("conv: kernel geometry does not match block size")
	ErrChannelOutOfRange = errors.New("conv: channel out of range")
)

// OverlapAdd convolves fixed-size blocks with a precomputed FIR kernel
// via forward/inverse FFT, stitching block boundaries through
// per-channel overlap tails. The FFT scratch is shared across channels;
// tails are per channel.
//
// All buffers are allocated at construction; the per-block path does
// not allocate.
type OverlapAdd struct {
	kernel *fir.LowpassKernel

	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]

	inputPadded  []complex128
	outputPadded []complex128
	frame        []float64

	tails [][]float64
}

// NewOverlapAdd creates a convolver for the given kernel, channel
// count, and block size. The kernel must have been designed for the
// same block size (length blockSize+1, FFT size 2*blockSize).
func NewOverlapAdd(kernel *fir.LowpassKernel, channels, blockSize int) (*OverlapAdd, error) {
	if kernel == nil {
		return nil, ErrNilKernel
	}
	if channels < 1 {
		return nil, fmt.Errorf("conv: channels must be >= 1: %d", channels)
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("conv: block size must be >= 1: %d", blockSize)
	}
	if kernel.Len() != blockSize+1 || kernel.FFTSize() != 2*blockSize {
		return nil, ErrKernelMismatch
	}

	fftSize := kernel.FFTSize()

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	tails := make([][]float64, channels)
	for c := range tails {
		tails[c] = make([]float64, blockSize)
	}

	return &OverlapAdd{
		kernel:       kernel,
		blockSize:    blockSize,
		fftSize:      fftSize,
		plan:         plan,
		inputPadded:  make([]complex128, fftSize),
		outputPadded: make([]complex128, fftSize),
		frame:        make([]float64, fftSize),
		tails:        tails,
	}, nil
}

// FilterChannel convolves one channel of b with the kernel in place:
// the channel's samples are replaced by the filtered block, the head
// stitched with the previous block's tail, and the new tail stored for
// the next call.
func (oa *OverlapAdd) FilterChannel(b *block.Block, channel int) error {
	if channel < 0 || channel >= len(oa.tails) {
		return ErrChannelOutOfRange
	}

	samples := b.Channel(channel)

	for i := range oa.inputPadded {
		oa.inputPadded[i] = 0
	}
	for i := 0; i < oa.blockSize; i++ {
		oa.inputPadded[i] = complex(samples[i], 0)
	}

	if err := oa.plan.Forward(oa.inputPadded, oa.inputPadded); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	spectrum := oa.kernel.Spectrum()
	for i := range oa.outputPadded {
		oa.outputPadded[i] = oa.inputPadded[i] * spectrum[i]
	}

	if err := oa.plan.Inverse(oa.outputPadded, oa.outputPadded); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range oa.frame {
		oa.frame[i] = real(oa.outputPadded[i])
	}

	// Head plus previous tail, then carry the trailing half forward.
	tail := oa.tails[channel]
	for i := 0; i < oa.blockSize; i++ {
		samples[i] = oa.frame[i] + tail[i]
	}

	copy(tail, oa.frame[oa.blockSize:])

	return nil
}

// ResetTails zeroes all overlap state. Call after any kernel rebuild
// so stale carry from the previous kernel does not leak into the next
// block.
func (oa *OverlapAdd) ResetTails() {
	for c := range oa.tails {
		for i := range oa.tails[c] {
			oa.tails[c][i] = 0
		}
	}
}

// BlockSize returns the block size.
func (oa *OverlapAdd) BlockSize() int {
	return oa.blockSize
}

// FFTSize returns the transform size.
func (oa *OverlapAdd) FFTSize() int {
	return oa.fftSize
}
