package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"io"
	"log/slog"
)

// blockFactory builds the single-block primitive for a key.
type blockFactory func(key []byte) (cipher.Block, error)

type options struct {
	iv       []byte
	entropy  io.Reader
	logger   *slog.Logger
	workers  int
	newBlock blockFactory
}

// Option configures an Engine and the Seal and Open helpers.
type Option func(*options)

// WithIV supplies the IV instead of drawing one from the entropy source.
func WithIV(iv []byte) Option {
	return func(o *options) {
		o.iv = iv
	}
}

// WithEntropy sets the source for generated IVs and salts.
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		o.entropy = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkers sets how many goroutines may process independent blocks.
// Values below one are treated as one.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

func withBlockFactory(factory blockFactory) Option {
	return func(o *options) {
		o.newBlock = factory
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:  1,
		newBlock: aes.NewCipher,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
