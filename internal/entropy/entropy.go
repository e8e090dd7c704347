// Package entropy gathers low-quality randomness from environment jitter.
//
// A Source combines the amount of available system memory, a nanosecond
// timestamp and a running bit counter into a scalar, hashes it with SHA-1 and
// keeps the parity of the first eight digest bytes as one output byte.
// The two environment readings are refreshed every 1000 generated bits.
//
// The output is NOT a certified random source. It is used for salts and IVs
// so that files stay compatible with existing encrypted data.
package entropy

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tink-crypto/tink-go/v2/subtle"
)

const (
	// ResampleBits is the number of generated bits after which memory and clock are read again.
	ResampleBits = 1000

	// FallbackMemory replaces the memory reading when the environment cannot provide one.
	FallbackMemory uint64 = 1 << 30

	hashName = "SHA1"
	byteBits = 8
)

// ErrNoHash is returned when the digest function is unavailable.
var ErrNoHash = errors.New("hash function unavailable")

// MemoryProbe reports the currently available system memory in bytes.
type MemoryProbe func() (uint64, error)

// Clock returns a high-resolution timestamp.
type Clock func() int64

// Source is an io.Reader producing entropy-derived bytes.
// It is safe for concurrent use.
type Source struct {
	mu sync.Mutex

	memory MemoryProbe
	clock  Clock
	logger *slog.Logger

	// counter counts bits generated since the last resample.
	counter int
	sampled bool
	warned  bool

	mem   *big.Int
	stamp *big.Int

	newHash func() hash.Hash
}

// Option configures a Source.
type Option func(*Source)

// WithFs reads /proc/meminfo from the given filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Source) {
		s.memory = MemInfoProbe(fsys)
	}
}

// WithMemoryProbe replaces the memory reading.
func WithMemoryProbe(probe MemoryProbe) Option {
	return func(s *Source) {
		s.memory = probe
	}
}

// WithClock replaces the timestamp reading.
func WithClock(clock Clock) Option {
	return func(s *Source) {
		s.clock = clock
	}
}

// WithLogger sets the logger used to report degraded readings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New returns a Source reading the host's memory and wall clock.
func New(opts ...Option) *Source {
	src := &Source{
		memory:  MemInfoProbe(afero.NewOsFs()),
		clock:   func() int64 { return time.Now().UnixNano() },
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		mem:     new(big.Int),
		stamp:   new(big.Int),
		newHash: subtle.GetHashFunc(hashName),
	}

	for _, opt := range opts {
		opt(src)
	}

	return src
}

// Read fills p with generated bytes. It never returns a short read unless hashing fails.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.newHash == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoHash, hashName)
	}

	if !s.sampled {
		s.sample()
	}

	scalar := new(big.Int)

	for i := range p {
		if s.counter == ResampleBits {
			s.sample()
		}

		scalar.SetInt64(int64(s.counter))
		scalar.Mul(scalar, s.stamp)
		scalar.Xor(scalar, s.mem)

		digest, err := subtle.ComputeHash(s.newHash, []byte(scalar.String()))
		if err != nil {
			return i, fmt.Errorf("hashing entropy scalar: %w", err)
		}

		var out byte

		for k := range byteBits {
			out |= (digest[k] & 1) << (byteBits - 1 - k)
		}

		p[i] = out
		s.counter += byteBits
	}

	return len(p), nil
}

// Bytes returns n generated bytes.
func (s *Source) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.Read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// sample refreshes the environment readings and resets the counter.
func (s *Source) sample() {
	available, err := s.memory()
	if err != nil {
		if !s.warned {
			s.logger.Warn("memory reading unavailable, using fallback",
				"fallback", FallbackMemory, "error", err)

			s.warned = true
		}

		available = FallbackMemory
	}

	s.mem.SetUint64(available)
	s.stamp.SetInt64(s.clock())
	s.counter = 0
	s.sampled = true
}
