package average

import (
	"testing"

	"github.com/cwbudde/algo-kmeter/dsp/block"
	"github.com/cwbudde/algo-kmeter/dsp/ringbuf"
	"github.com/cwbudde/algo-kmeter/internal/testutil"
)

func benchmarkEngine(b *testing.B, alg Algorithm) {
	e, err := New(
		WithChannels(2),
		WithBufferSize(1024),
		WithSampleRate(48000),
		WithAlgorithm(alg),
	)
	if err != nil {
		b.Fatal(err)
	}

	ring, err := ringbuf.New(2, 4096)
	if err != nil {
		b.Fatal(err)
	}

	in, _ := block.New(2, 1024)
	sig := testutil.DeterministicSine(1000, 48000, 0.5, 1024)
	in.CopyFrom(0, 0, sig, 1024)
	in.CopyFrom(1, 0, sig, 1024)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = ring.Write(in)
		_ = e.PullFrom(ring, 0, 48000)
		_ = e.Level(0)
		_ = e.Level(1)
	}
}

func BenchmarkEngineRms(b *testing.B) {
	benchmarkEngine(b, AlgorithmRmsBandLimited)
}

func BenchmarkEngineItuBs1770(b *testing.B) {
	benchmarkEngine(b, AlgorithmItuBs1770)
}
