package container

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/cbf/internal/options"
)

// DefaultBufferSize is the default size of the buffered writer placed in front of the sink.
const DefaultBufferSize = 64 * 1024

// Config holds the writer configuration assembled from options.
type Config struct {
	logger     zerolog.Logger
	bufferSize int
	closeSink  bool
}

// Option configures a Writer.
type Option = options.Option[*Config]

func newConfig() *Config {
	return &Config{
		logger:     zerolog.Nop(),
		bufferSize: DefaultBufferSize,
		closeSink:  true,
	}
}

// WithLogger sets the logger used for chunk and close events.
// Chunk events are logged at debug level, the close summary at info level.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}

// WithBufferSize sets the size of the buffered writer in front of the sink.
// A size of 0 writes every chunk straight to the sink.
func WithBufferSize(size int) Option {
	return options.New(func(c *Config) error {
		if size < 0 {
			return fmt.Errorf("invalid buffer size: %d", size)
		}
		c.bufferSize = size

		return nil
	})
}

// WithoutSinkClose keeps the sink open when the writer is closed or fails.
// Use it when the caller owns the sink beyond the lifetime of the writer.
func WithoutSinkClose() Option {
	return options.NoError(func(c *Config) {
		c.closeSink = false
	})
}
