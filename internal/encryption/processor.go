package encryption

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/awnumar/memguard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/fileutil"
	"github.com/idelchi/cryptocore/internal/kdf"
)

// Processor handles the encryption or decryption of one file.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// fs is where input and output live
	fs afero.Fs

	logger *slog.Logger

	// entropy supplies salts and IVs
	entropy io.Reader

	mode    Mode
	deriver kdf.Deriver

	// key stores raw key bytes, nil for password-based operation
	key []byte

	// password stores the password bytes, nil for key-based operation
	password []byte

	// iv is the out-of-band IV for decryption
	iv []byte
}

// NewProcessor creates a Processor for a validated configuration.
// It decodes key material up front so malformed input fails before any file is touched.
func NewProcessor(cfg *config.Config, fsys afero.Fs, logger *slog.Logger, source io.Reader) (*Processor, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	deriver, err := kdf.New(cfg.KDF)
	if err != nil {
		return nil, &ValidationError{Field: "kdf", Value: cfg.KDF, Err: err}
	}

	processor := &Processor{
		cfg:     cfg,
		fs:      fsys,
		logger:  logger,
		entropy: source,
		mode:    mode,
		deriver: deriver,
	}

	switch cfg.KeySource() {
	case "key":
		processor.key, err = DecodeHex("key", cfg.Key)
		if err != nil {
			return nil, err
		}
	case "password", "ask-password":
		processor.password = []byte(cfg.Password)
	default:
		return nil, &ValidationError{Field: "key", Message: "no key or password configured", Err: ErrNoKey}
	}

	if cfg.IV == "" {
		return processor, nil
	}

	switch {
	case cfg.Encrypt:
		logger.Warn("IV provided for encryption will be ignored")
	case processor.password != nil:
		logger.Warn("IV provided for password-based decryption will be ignored, the file carries its own")
	case !mode.RequiresIV():
		logger.Warn("IV ignored", "mode", mode.String())
	default:
		processor.iv, err = DecodeHex("iv", cfg.IV)
		if err != nil {
			return nil, err
		}
	}

	return processor, nil
}

// DecodeHex decodes normalized hex text for the named field.
func DecodeHex(field, value string) ([]byte, error) {
	decoded, err := hex.DecodeString(config.NormalizeHex(value))
	if err != nil {
		return nil, &ValidationError{Field: field, Err: fmt.Errorf("%w: %w", ErrInvalidHex, err)}
	}

	return decoded, nil
}

// Destroy wipes the key and password held by the processor.
func (p *Processor) Destroy() {
	memguard.WipeBytes(p.key)
	memguard.WipeBytes(p.password)
}

// Process reads the input, encrypts or decrypts it and atomically replaces the output.
// Nothing is written unless the whole operation succeeds.
func (p *Processor) Process() (result Result, err error) {
	start := time.Now()

	direction := DirectionDecrypt
	if p.cfg.Encrypt {
		direction = DirectionEncrypt
	}

	logger := p.logger.With("op", uuid.NewString())

	outPath := p.OutputPath()

	if err := p.checkPaths(outPath); err != nil {
		return Result{}, err
	}

	logger.Info("starting",
		"direction", direction,
		"mode", p.mode.String(),
		"input", p.cfg.Input,
		"output", outPath,
		"key_source", p.cfg.KeySource(),
	)

	data, err := afero.ReadFile(p.fs, p.cfg.Input)
	if err != nil {
		return Result{}, fmt.Errorf("reading input: %w", err)
	}

	out, err := p.transform(direction, data, logger)
	if err != nil {
		logger.Error("operation failed", "direction", direction, "error", err)

		return Result{}, fmt.Errorf("%s: %w", direction, err)
	}

	size, err := p.write(out, outPath)
	if err != nil {
		return Result{}, err
	}

	result = Result{
		Input:      p.cfg.Input,
		Output:     outPath,
		Direction:  direction,
		Mode:       p.mode,
		InputSize:  int64(len(data)),
		OutputSize: size,
		Duration:   time.Since(start),
	}

	logger.Info("performance",
		"direction", direction,
		"size", humanize.IBytes(uint64(len(data))),
		"duration", result.Duration.Round(time.Microsecond),
		"mbps", fmt.Sprintf("%.2f", result.Throughput()),
	)

	return result, nil
}

func (p *Processor) transform(direction Direction, data []byte, logger *slog.Logger) ([]byte, error) {
	opts := []Option{
		WithEntropy(p.entropy),
		WithLogger(logger),
		WithWorkers(p.cfg.Parallel),
	}

	switch {
	case direction == DirectionEncrypt && p.password != nil:
		return SealWithPassword(p.deriver, p.password, p.mode, data, opts...)
	case direction == DirectionEncrypt:
		return SealWithKey(p.key, p.mode, data, opts...)
	case p.password != nil:
		return OpenWithPassword(p.deriver, p.password, p.mode, data, opts...)
	default:
		return OpenWithKey(p.key, p.mode, data, p.iv, opts...)
	}
}

// checkPaths verifies the input exists and differs from the output.
func (p *Processor) checkPaths(outPath string) error {
	if _, err := p.fs.Stat(p.cfg.Input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputMissing, p.cfg.Input)
		}

		return fmt.Errorf("checking input: %w", err)
	}

	in, err := filepath.Abs(p.cfg.Input)
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}

	out, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	if in == out {
		return fmt.Errorf("%w: %s", ErrSamePath, in)
	}

	return nil
}

// write stores data at outPath through a temporary file in the same directory.
func (p *Processor) write(data []byte, outPath string) (size int64, err error) {
	tc, err := fileutil.NewTempContext(p.fs, p.cfg.Input, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	size, err = tc.Write(data, outPath, p.cfg.PreserveTimestamps)
	if err != nil {
		return 0, fmt.Errorf("writing output: %w", err)
	}

	return size, nil
}

// OutputPath returns the configured output or derives one from the input:
// "<dir>/<stem>.<mode>.enc" when encrypting, "<dir>/<stem>.dec" when decrypting.
func (p *Processor) OutputPath() string {
	if p.cfg.Output != "" {
		return p.cfg.Output
	}

	dir, name := filepath.Split(p.cfg.Input)

	if p.cfg.Encrypt {
		return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+"."+p.mode.String()+".enc")
	}

	suffix := "." + p.mode.String() + ".enc"
	if strings.HasSuffix(name, suffix) {
		name = strings.TrimSuffix(name, suffix)
	} else {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return filepath.Join(dir, name+".dec")
}
