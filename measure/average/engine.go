package average

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/block"
	"github.com/cwbudde/algo-kmeter/dsp/conv"
	"github.com/cwbudde/algo-kmeter/dsp/filter/fir"
	"github.com/cwbudde/algo-kmeter/dsp/filter/kweight"
	"github.com/cwbudde/algo-kmeter/dsp/ringbuf"
	"github.com/cwbudde/algo-kmeter/measure/ballistics"
)

// ErrInvalidArgument reports an engine configuration outside the
// supported range.
var ErrInvalidArgument = errors.New("average: invalid argument")

const (
	// RmsPeakToAverageCorrectionDB is added to band-limited RMS
	// readings so sine waves read the same on peak and average
	// meters. The value comes from validation against Bob Katz'
	// reference file of uncorrelated pink noise at -20 dB FS RMS.
	RmsPeakToAverageCorrectionDB = 2.9881

	// lkfsOffset is the BS.1770 constant compensating the K filter's
	// response at 1 kHz.
	lkfsOffset = -0.691
)

// Engine measures filtered average levels block by block. All kernels,
// coefficient tables, and scratch buffers are built at construction
// and rebuilt in place on algorithm or sample-rate changes; the
// per-block path does not allocate.
//
// The internal sample block is scratch owned by the engine: PullFrom
// overwrites it with ring data and ComputeBlock overwrites it again
// with the filtered signal that PublishTo and CopyTo expose.
type Engine struct {
	channels   int
	bufferSize int
	sampleRate int
	algorithm  Algorithm
	listener   func(Algorithm)

	sampleBlock *block.Block
	kernel      *fir.LowpassKernel
	convolver   *conv.OverlapAdd
	weighting   *kweight.Cascade

	peakToAverageCorrection float64

	computed bool
	levels   []float64
}

// New builds an engine from the given options. All filter state is
// constructed eagerly so the audio path never allocates.
func New(opts ...Option) (*Engine, error) {
	cfg := ApplyOptions(opts...)

	if cfg.Channels < 1 || cfg.Channels > maxChannels {
		return nil, fmt.Errorf("%w: channels must be in [1, %d]: %d",
			ErrInvalidArgument, maxChannels, cfg.Channels)
	}
	if cfg.BufferSize < 1 {
		return nil, fmt.Errorf("%w: buffer size must be >= 1: %d",
			ErrInvalidArgument, cfg.BufferSize)
	}
	if cfg.SampleRate < 1 {
		return nil, fmt.Errorf("%w: sample rate must be >= 1: %d",
			ErrInvalidArgument, cfg.SampleRate)
	}

	sampleBlock, err := block.New(cfg.Channels, cfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	kernel, err := fir.DesignLowpass(cfg.BufferSize, float64(cfg.SampleRate))
	if err != nil {
		return nil, err
	}

	convolver, err := conv.NewOverlapAdd(kernel, cfg.Channels, cfg.BufferSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		channels:    cfg.Channels,
		bufferSize:  cfg.BufferSize,
		sampleRate:  cfg.SampleRate,
		algorithm:   AlgorithmFromInt(cfg.Algorithm.Int()),
		listener:    cfg.AlgorithmListener,
		sampleBlock: sampleBlock,
		kernel:      kernel,
		convolver:   convolver,
		weighting:   kweight.NewCascade(cfg.Channels, cfg.BufferSize, float64(cfg.SampleRate)),
		levels:      make([]float64, cfg.Channels),
	}

	e.applyCorrection()
	e.resetBlockState()
	e.notifyListener()

	return e, nil
}

// Channels returns the channel count.
func (e *Engine) Channels() int {
	return e.channels
}

// BufferSize returns the block size in samples.
func (e *Engine) BufferSize() int {
	return e.bufferSize
}

// SampleRate returns the current sample rate in Hz.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Algorithm returns the current measurement algorithm.
func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

// PeakToAverageCorrection returns the calibration offset in dB applied
// by the current algorithm.
func (e *Engine) PeakToAverageCorrection() float64 {
	return e.peakToAverageCorrection
}

// SetAlgorithm switches the measurement algorithm. Unknown values
// normalize to AlgorithmItuBs1770. A no-op when unchanged; otherwise
// every kernel, coefficient table, and piece of filter state is
// rebuilt, and the registered listener is told the selection is final.
func (e *Engine) SetAlgorithm(a Algorithm) {
	a = AlgorithmFromInt(a.Int())
	if a == e.algorithm {
		return
	}

	e.algorithm = a
	e.rebuild()
	e.notifyListener()
}

// PullFrom reads one block from the ring buffer at the given pre-delay
// into the engine's sample block. If the sample rate changed, all
// coefficients and kernels are rebuilt before any samples are
// consumed.
func (e *Engine) PullFrom(ring *ringbuf.Buffer, preDelay, sampleRate int) error {
	if sampleRate != e.sampleRate {
		if sampleRate < 1 {
			return fmt.Errorf("%w: sample rate must be >= 1: %d",
				ErrInvalidArgument, sampleRate)
		}

		e.sampleRate = sampleRate
		e.rebuild()
	}

	ring.ReadInto(e.sampleBlock, preDelay)
	e.computed = false

	return nil
}

// ComputeBlock filters the pulled block and reduces it to per-channel
// levels (and, for BS.1770, the integrated loudness). It runs at most
// once per pulled block; Level calls it lazily.
func (e *Engine) ComputeBlock() error {
	if e.computed {
		return nil
	}

	switch e.algorithm {
	case AlgorithmItuBs1770:
		if err := e.computeItuBs1770(); err != nil {
			return err
		}
	default:
		if err := e.computeRms(); err != nil {
			return err
		}
	}

	e.computed = true

	return nil
}

// Level returns the average level of the given channel in dB, or, for
// BS.1770, the integrated loudness in LKFS on channel 0 (other
// channels read the meter floor). Values never fall below
// ballistics.MeterMinimumDecibel.
//
// Panics on an out-of-range channel: that is a host wiring bug, not a
// runtime condition.
func (e *Engine) Level(channel int) float64 {
	if channel < 0 || channel >= e.channels {
		panic(fmt.Sprintf("average: channel %d out of range [0, %d)", channel, e.channels))
	}

	if !e.computed {
		if err := e.ComputeBlock(); err != nil {
			// All transforms run on fixed preallocated geometry;
			// a failure here means engine state was corrupted.
			panic(fmt.Sprintf("average: block computation failed: %v", err))
		}
	}

	return e.levels[channel]
}

// PublishTo appends the filtered sample block to the destination ring
// buffer for visualization use.
func (e *Engine) PublishTo(ring *ringbuf.Buffer) error {
	return ring.Write(e.sampleBlock)
}

// CopyTo copies count filtered samples of the given channel into dst
// starting at destStart.
func (e *Engine) CopyTo(dst *block.Block, channel, destStart, count int) {
	dst.CopyFrom(channel, destStart, e.sampleBlock.Channel(channel), count)
}

func (e *Engine) computeRms() error {
	for c := 0; c < e.channels; c++ {
		if err := e.convolver.FilterChannel(e.sampleBlock, c); err != nil {
			return err
		}

		rms := e.sampleBlock.RMS(c, 0, e.bufferSize)
		e.levels[c] = e.correctedLevel(rms)
	}

	return nil
}

func (e *Engine) computeItuBs1770() error {
	sum := 0.0

	for c := 0; c < e.channels; c++ {
		e.weighting.ProcessChannel(c, e.sampleBlock.Channel(c))

		if err := e.convolver.FilterChannel(e.sampleBlock, c); err != nil {
			return err
		}

		weight := ChannelWeight(c)
		if weight == 0 {
			continue
		}

		meanSquare := 0.0
		for _, v := range e.sampleBlock.Channel(c) {
			meanSquare += v * v
		}
		meanSquare /= float64(e.bufferSize)

		sum += weight * meanSquare
	}

	loudness := ballistics.MeterMinimumDecibel
	if sum > 0 {
		loudness = lkfsOffset + 10*math.Log10(sum)
		if loudness < ballistics.MeterMinimumDecibel {
			loudness = ballistics.MeterMinimumDecibel
		}
	}

	// Only channel 0 carries the integrated value; the per-channel
	// readings are not defined for BS.1770.
	e.levels[0] = loudness
	for c := 1; c < e.channels; c++ {
		e.levels[c] = ballistics.MeterMinimumDecibel
	}

	return nil
}

// correctedLevel converts a linear RMS to dB, applies the
// peak-to-average correction, and clamps to the meter floor.
func (e *Engine) correctedLevel(rms float64) float64 {
	if rms <= 0 {
		return ballistics.MeterMinimumDecibel
	}

	db := 20*math.Log10(rms) + e.peakToAverageCorrection
	if db < ballistics.MeterMinimumDecibel {
		db = ballistics.MeterMinimumDecibel
	}

	return db
}

// rebuild recomputes all filter kernels and coefficients for the
// current algorithm and sample rate and clears every piece of filter
// state. Deliberately glitchy; never called mid-block.
func (e *Engine) rebuild() {
	if err := e.kernel.Rebuild(float64(e.sampleRate)); err != nil {
		panic(fmt.Sprintf("average: kernel rebuild failed: %v", err))
	}

	e.weighting.SetSampleRate(float64(e.sampleRate))
	e.applyCorrection()
	e.resetBlockState()
}

func (e *Engine) applyCorrection() {
	if e.algorithm == AlgorithmItuBs1770 {
		// BS.1770 provides its own peak-to-average gain correction.
		e.peakToAverageCorrection = 0
	} else {
		e.peakToAverageCorrection = RmsPeakToAverageCorrectionDB
	}
}

func (e *Engine) resetBlockState() {
	e.convolver.ResetTails()
	e.sampleBlock.Clear()

	for c := range e.levels {
		e.levels[c] = ballistics.MeterMinimumDecibel
	}

	e.computed = false
}

func (e *Engine) notifyListener() {
	if e.listener != nil {
		e.listener(e.algorithm)
	}
}
