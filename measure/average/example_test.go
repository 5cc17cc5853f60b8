package average_test

import (
	"fmt"

	"github.com/cwbudde/algo-kmeter/dsp/block"
	"github.com/cwbudde/algo-kmeter/dsp/ringbuf"
	"github.com/cwbudde/algo-kmeter/measure/average"
)

func Example() {
	engine, err := average.New(
		average.WithChannels(2),
		average.WithBufferSize(1024),
		average.WithSampleRate(48000),
		average.WithAlgorithm(average.AlgorithmItuBs1770),
	)
	if err != nil {
		panic(err)
	}

	ring, err := ringbuf.New(2, 4096)
	if err != nil {
		panic(err)
	}

	// Host callback: write the raw block, pull it, read the level.
	raw, _ := block.New(2, 1024)
	_ = ring.Write(raw)
	_ = engine.PullFrom(ring, 0, 48000)

	fmt.Printf("%s: %.2f\n", engine.Algorithm(), engine.Level(0))
	// Output: ITU-R BS.1770: -70.01
}
