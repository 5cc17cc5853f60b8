package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-kmeter/dsp/block"
)

// wavReader decodes a WAV file into fixed-size multichannel blocks
// normalized to +/-1.0 full scale.
type wavReader struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *audio.IntBuffer
	scale   float64

	channels   int
	sampleRate int
	bufferSize int
}

func openWAV(path string, bufferSize int) (*wavReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	d := wav.NewDecoder(f)
	d.ReadInfo()

	if !d.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	channels := int(d.NumChans)
	if channels < 1 || channels > 6 {
		f.Close()
		return nil, fmt.Errorf("%s: unsupported channel count %d", path, channels)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		f.Close()
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}

	return &wavReader{
		file:    f,
		decoder: d,
		buf: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		},
		scale:      float64(int64(1) << (bitDepth - 1)),
		channels:   channels,
		sampleRate: int(d.SampleRate),
		bufferSize: bufferSize,
	}, nil
}

// ReadBlock decodes the next block into dst, zero-filling past the end
// of the file. It returns the number of valid frames; 0 together with
// io.EOF once the file is exhausted.
func (r *wavReader) ReadBlock(dst *block.Block) (int, error) {
	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil {
		return 0, err
	}

	frames := n / r.channels
	if frames == 0 {
		return 0, io.EOF
	}

	deinterleave(dst, r.buf.Data[:n], r.channels, r.scale)

	for c := 0; c < r.channels; c++ {
		samples := dst.Channel(c)
		for i := frames; i < r.bufferSize; i++ {
			samples[i] = 0
		}
	}

	return frames, nil
}

// Frames returns the total frame count declared by the file, or 0 when
// unknown.
func (r *wavReader) Frames() int {
	d, err := r.decoder.Duration()
	if err != nil {
		return 0
	}

	return int(float64(r.sampleRate) * d.Seconds())
}

func (r *wavReader) Close() error {
	return r.file.Close()
}

// deinterleave spreads interleaved integer PCM into per-channel float
// slices at +/-1.0 full scale.
func deinterleave(dst *block.Block, data []int, channels int, scale float64) {
	frames := len(data) / channels

	for c := 0; c < channels; c++ {
		samples := dst.Channel(c)
		for i := 0; i < frames; i++ {
			samples[i] = float64(data[i*channels+c]) / scale
		}
	}
}
