// Command kmeter measures the filtered average level of a WAV file the
// way a K-System meter would: band-limited RMS or ITU-R BS.1770
// loudness, block by block, with an optional live terminal meter.
//
// Usage:
//
//	kmeter track.wav
//	kmeter --algorithm rms --pre-delay 512 track.wav
//	kmeter --watch track.wav
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-kmeter/dsp/block"
	"github.com/cwbudde/algo-kmeter/dsp/ringbuf"
	"github.com/cwbudde/algo-kmeter/internal/ui"
	"github.com/cwbudde/algo-kmeter/measure/average"
	"github.com/cwbudde/algo-kmeter/measure/ballistics"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version    bool   `short:"v" help:"Show version information"`
	Algorithm  string `short:"a" enum:"rms,itu" default:"itu" help:"Average algorithm: rms (band-limited RMS) or itu (BS.1770)"`
	BufferSize int    `default:"1024" help:"Meter block size in samples"`
	PreDelay   int    `default:"0" help:"Average path pre-delay in samples"`
	Watch      bool   `short:"w" help:"Render a live terminal meter instead of a summary"`
	File       string `arg:"" optional:"" type:"existingfile" help:"WAV file to measure"`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("kmeter"),
		kong.Description("K-System average level meter for WAV files"),
		kong.UsageOnError(),
	)

	if cli.Version {
		fmt.Printf("kmeter %s\n", version)
		os.Exit(0)
	}

	if cli.File == "" {
		fmt.Fprintln(os.Stderr, "error: no input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	algorithm := average.AlgorithmItuBs1770
	if cli.Algorithm == "rms" {
		algorithm = average.AlgorithmRmsBandLimited
	}

	reader, err := openWAV(cli.File, cli.BufferSize)
	if err != nil {
		return err
	}
	defer reader.Close()

	engine, err := average.New(
		average.WithChannels(reader.channels),
		average.WithBufferSize(cli.BufferSize),
		average.WithSampleRate(reader.sampleRate),
		average.WithAlgorithm(algorithm),
	)
	if err != nil {
		return err
	}

	ring, err := ringbuf.New(reader.channels, 2*cli.BufferSize+cli.PreDelay)
	if err != nil {
		return err
	}

	if cli.Watch {
		return runWatch(cli, reader, engine, ring)
	}

	return runSummary(cli, reader, engine, ring)
}

// meterBlock pushes one decoded block through the host callback order
// and reports the average and raw peak levels per channel.
func meterBlock(cli *CLI, engine *average.Engine, ring *ringbuf.Buffer, in *block.Block) (levels, peaks []float64, err error) {
	if err := ring.Write(in); err != nil {
		return nil, nil, err
	}

	if err := engine.PullFrom(ring, cli.PreDelay, engine.SampleRate()); err != nil {
		return nil, nil, err
	}

	levels = make([]float64, in.Channels())
	peaks = make([]float64, in.Channels())

	for c := 0; c < in.Channels(); c++ {
		levels[c] = engine.Level(c)
		peaks[c] = ballistics.Level2Decibel(in.Magnitude(c, 0, in.Frames()))
	}

	return levels, peaks, nil
}

func runSummary(cli *CLI, reader *wavReader, engine *average.Engine, ring *ringbuf.Buffer) error {
	in, err := block.New(reader.channels, cli.BufferSize)
	if err != nil {
		return err
	}

	maxLevels := make([]float64, reader.channels)
	maxPeaks := make([]float64, reader.channels)
	for c := range maxLevels {
		maxLevels[c] = ballistics.MeterMinimumDecibel
		maxPeaks[c] = ballistics.MeterMinimumDecibel
	}

	blocks := 0

	for {
		if _, err := reader.ReadBlock(in); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return err
		}

		levels, peaks, err := meterBlock(cli, engine, ring, in)
		if err != nil {
			return err
		}

		for c := range levels {
			maxLevels[c] = math.Max(maxLevels[c], levels[c])
			maxPeaks[c] = math.Max(maxPeaks[c], peaks[c])
		}

		blocks++
	}

	fmt.Printf("%s\n", cli.File)
	fmt.Printf("  algorithm:   %s\n", engine.Algorithm())
	fmt.Printf("  sample rate: %d Hz\n", engine.SampleRate())
	fmt.Printf("  blocks:      %d (%d samples each)\n", blocks, cli.BufferSize)

	if engine.Algorithm() == average.AlgorithmItuBs1770 {
		fmt.Printf("  max loudness: %7.2f LKFS\n", maxLevels[0])
	} else {
		for c := range maxLevels {
			fmt.Printf("  ch%d max average: %7.2f dB\n", c, maxLevels[c])
		}
	}

	for c := range maxPeaks {
		fmt.Printf("  ch%d max peak:    %7.2f dB\n", c, maxPeaks[c])
	}

	return nil
}

func runWatch(cli *CLI, reader *wavReader, engine *average.Engine, ring *ringbuf.Buffer) error {
	model := ui.NewModel(cli.File, engine.Algorithm(), reader.channels)
	program := tea.NewProgram(model, tea.WithAltScreen())

	totalBlocks := 0
	if frames := reader.Frames(); frames > 0 {
		totalBlocks = (frames + cli.BufferSize - 1) / cli.BufferSize
	}

	blockDuration := time.Duration(float64(cli.BufferSize) / float64(reader.sampleRate) * float64(time.Second))

	go func() {
		in, err := block.New(reader.channels, cli.BufferSize)
		if err != nil {
			program.Send(ui.DoneMsg{})
			return
		}

		blockIndex := 0

		for {
			if _, err := reader.ReadBlock(in); err != nil {
				program.Send(ui.DoneMsg{})
				return
			}

			levels, peaks, err := meterBlock(cli, engine, ring, in)
			if err != nil {
				program.Send(ui.DoneMsg{})
				return
			}

			blockIndex++
			program.Send(ui.BlockMsg{
				Levels: levels,
				Peaks:  peaks,
				Block:  blockIndex,
				Total:  totalBlocks,
			})

			// Pace the meter at the file's realtime speed.
			time.Sleep(blockDuration)
		}
	}()

	_, err := program.Run()

	return err
}
