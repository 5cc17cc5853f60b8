package average

// Config defines the engine configuration. The geometry is fixed for
// the life of an engine; only algorithm and sample rate change later.
type Config struct {
	Channels   int
	BufferSize int
	SampleRate int
	Algorithm  Algorithm

	// AlgorithmListener, when set, is told whenever an algorithm
	// selection becomes final (at construction and on every change).
	AlgorithmListener func(Algorithm)
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults for a stereo meter.
func DefaultConfig() Config {
	return Config{
		Channels:   2,
		BufferSize: 1024,
		SampleRate: 48000,
		Algorithm:  AlgorithmItuBs1770,
	}
}

// WithChannels sets the channel count (1 to 6, positional roles
// L, R, C, LFE, Ls, Rs).
func WithChannels(channels int) Option {
	return func(cfg *Config) {
		cfg.Channels = channels
	}
}

// WithBufferSize sets the block size in samples. It also fixes the FFT
// size (twice the block size) for the life of the engine.
func WithBufferSize(bufferSize int) Option {
	return func(cfg *Config) {
		cfg.BufferSize = bufferSize
	}
}

// WithSampleRate sets the initial sample rate in Hz.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithAlgorithm sets the initial measurement algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(cfg *Config) {
		cfg.Algorithm = a
	}
}

// WithAlgorithmListener registers a callback notified when an
// algorithm selection becomes final.
func WithAlgorithmListener(listener func(Algorithm)) Option {
	return func(cfg *Config) {
		cfg.AlgorithmListener = listener
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
