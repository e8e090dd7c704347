package encryption

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/awnumar/memguard"
)

// Engine encrypts and decrypts whole buffers with one key, mode and IV.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	key      []byte
	iv       []byte
	mode     Mode
	workers  int
	logger   *slog.Logger
	newBlock blockFactory
}

// New validates key, mode and IV and returns an Engine.
//
// Modes other than ECB need an IV: either WithIV, or WithEntropy to generate one.
// The key is copied; call Destroy to wipe the copy.
func New(key []byte, mode Mode, opts ...Option) (*Engine, error) {
	o := newOptions(opts)

	if !mode.Valid() {
		return nil, &ValidationError{Field: "mode", Value: mode.String(), Err: ErrUnsupportedMode}
	}

	switch len(key) {
	case 16, 24, 32: //nolint:mnd // AES-128, AES-192, AES-256
	default:
		return nil, &ValidationError{
			Field:   "key",
			Value:   strconv.Itoa(len(key)) + " bytes",
			Message: "must be 16, 24 or 32 bytes",
			Err:     ErrInvalidKeySize,
		}
	}

	engine := &Engine{
		key:      bytes.Clone(key),
		mode:     mode,
		workers:  o.workers,
		logger:   o.logger,
		newBlock: o.newBlock,
	}

	iv, err := resolveIV(mode, o)
	if err != nil {
		engine.Destroy()

		return nil, err
	}

	engine.iv = iv

	engine.logger.Debug("engine ready",
		"mode", mode.String(),
		"key_bytes", len(key),
		"iv", hex.EncodeToString(iv),
		"workers", engine.workers,
	)

	return engine, nil
}

func resolveIV(mode Mode, o options) ([]byte, error) {
	if !mode.RequiresIV() {
		if o.iv != nil {
			o.logger.Debug("IV ignored", "mode", mode.String())
		}

		return nil, nil
	}

	if o.iv != nil {
		if len(o.iv) != BlockSize {
			return nil, &ValidationError{
				Field:   "iv",
				Value:   strconv.Itoa(len(o.iv)) + " bytes",
				Message: "must be 16 bytes",
				Err:     ErrInvalidIV,
			}
		}

		return bytes.Clone(o.iv), nil
	}

	if o.entropy == nil {
		return nil, &ValidationError{Field: "iv", Message: mode.String() + " requires an IV", Err: ErrMissingIV}
	}

	iv := make([]byte, BlockSize)
	if _, err := io.ReadFull(o.entropy, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return iv, nil
}

// Mode returns the chaining mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// IV returns a copy of the effective IV, or nil for ECB.
func (e *Engine) IV() []byte {
	return bytes.Clone(e.iv)
}

// Encrypt returns the ciphertext of plaintext. Padded modes always add 1..16 bytes.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	src := plaintext
	if e.mode.Padded() {
		src = pkcs7Pad(plaintext, BlockSize)
	}

	dst := make([]byte, len(src))

	if err := e.run(DirectionEncrypt, dst, src); err != nil {
		return nil, err
	}

	return dst, nil
}

// Decrypt returns the plaintext of ciphertext.
// Padded modes reject empty or unaligned input before decrypting and verify the padding after.
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.mode.Padded() && (len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0) {
		return nil, &ValidationError{
			Field: "ciphertext",
			Value: strconv.Itoa(len(ciphertext)) + " bytes",
			Err:   ErrNotBlockAligned,
		}
	}

	dst := make([]byte, len(ciphertext))

	if err := e.run(DirectionDecrypt, dst, ciphertext); err != nil {
		return nil, err
	}

	if !e.mode.Padded() {
		return dst, nil
	}

	plaintext, err := pkcs7Unpad(dst, BlockSize)
	if err != nil {
		memguard.WipeBytes(dst)

		return nil, err
	}

	return plaintext, nil
}

// Destroy wipes the engine's copy of the key.
func (e *Engine) Destroy() {
	memguard.WipeBytes(e.key)
}

func (e *Engine) run(direction Direction, dst, src []byte) error {
	block, err := e.cipher(direction)
	if err != nil {
		return err
	}

	chain, err := newChainMode(e.mode, block, e.iv, e.workers)
	if err != nil {
		return err
	}

	if direction == DirectionEncrypt {
		err = chain.encrypt(dst, src)
	} else {
		err = chain.decrypt(dst, src)
	}

	if err != nil {
		return &PrimitiveError{Operation: e.mode.String(), Direction: direction, Err: err}
	}

	return nil
}

func (e *Engine) cipher(direction Direction) (cipher.Block, error) {
	block, err := e.newBlock(e.key)
	if err != nil {
		return nil, &PrimitiveError{
			Operation: "block cipher setup",
			Direction: direction,
			Err:       fmt.Errorf("%w: %w", ErrPrimitive, err),
		}
	}

	return block, nil
}
