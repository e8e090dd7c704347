// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/encryption"
	"github.com/idelchi/cryptocore/internal/entropy"
	"github.com/idelchi/cryptocore/internal/logging"
)

// ErrPasswordMismatch is returned when the password confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Runner carries the process environment a run needs.
type Runner struct {
	Fs           afero.Fs
	Stdout       io.Writer
	Stderr       io.Writer
	ReadPassword PasswordReader
}

// Run is the main logic of the application.
func Run(cfg *config.Config) error {
	return Runner{
		Fs:           afero.NewOsFs(),
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		ReadPassword: TerminalPassword,
	}.Run(cfg)
}

// Run encrypts or decrypts cfg.Input according to cfg.
func (r Runner) Run(cfg *config.Config) (err error) {
	logger, err := logging.New(r.Fs, logging.Options{
		Stderr:  r.Stderr,
		File:    cfg.LogFile,
		Quiet:   cfg.Quiet,
		Verbose: cfg.Stats,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	defer func() {
		err = errors.Join(err, logger.Close())
	}()

	if cfg.AskPassword && cfg.Password == "" {
		password, err := r.askPassword(cfg.Encrypt)
		if err != nil {
			return err
		}

		cfg.Password = string(password)
		memguard.WipeBytes(password)
	}

	source := entropy.New(entropy.WithFs(r.Fs), entropy.WithLogger(logger.Logger))

	proc, err := encryption.NewProcessor(cfg, r.Fs, logger.Logger, source)
	if err != nil {
		logger.File.Error("invalid configuration", "error", err)

		return fmt.Errorf("creating processor: %w", err)
	}
	defer proc.Destroy()

	if cfg.Output == "" && !cfg.Quiet {
		fmt.Fprintf(r.Stdout, "Output file not specified. Using default: %s\n", proc.OutputPath())
	}

	result, err := proc.Process()
	if err != nil {
		logger.File.Error("operation failed", "input", cfg.Input, "error", err)

		return fmt.Errorf("processing %q: %w", cfg.Input, err)
	}

	if !cfg.Quiet {
		r.printResult(cfg, result)
	}

	if cfg.Stats {
		r.printStats(result)
	}

	return nil
}

func (r Runner) askPassword(confirm bool) ([]byte, error) {
	password, err := r.ReadPassword("Password: ")
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	if !confirm {
		return password, nil
	}

	again, err := r.ReadPassword("Confirm password: ")
	if err != nil {
		memguard.WipeBytes(password)

		return nil, fmt.Errorf("reading password confirmation: %w", err)
	}

	defer memguard.WipeBytes(again)

	if !bytes.Equal(password, again) {
		memguard.WipeBytes(password)

		return nil, ErrPasswordMismatch
	}

	return password, nil
}

func (r Runner) printResult(cfg *config.Config, result encryption.Result) {
	fmt.Fprintf(r.Stdout, "Operation successful: %s -> %s\n", result.Input, result.Output)
	fmt.Fprintf(r.Stdout, "Mode: %s, Key source: %s\n", result.Mode, cfg.KeySource())

	if cfg.Decrypt && cfg.IV != "" && cfg.KeySource() == "key" && result.Mode.RequiresIV() {
		fmt.Fprintf(r.Stdout, "IV used: %s\n", cfg.IV)
	}
}

func (r Runner) printStats(result encryption.Result) {
	fmt.Fprintf(r.Stderr, "\nStats\n")
	fmt.Fprintf(r.Stderr, "  Direction:  %s\n", result.Direction)
	//nolint:gosec // sizes are never negative
	fmt.Fprintf(r.Stderr, "  Input:      %s\n", humanize.IBytes(uint64(result.InputSize)))
	//nolint:gosec // sizes are never negative
	fmt.Fprintf(r.Stderr, "  Output:     %s\n", humanize.IBytes(uint64(result.OutputSize)))
	fmt.Fprintf(r.Stderr, "  Duration:   %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(r.Stderr, "  Throughput: %.2f Mbps\n", result.Throughput())
}
