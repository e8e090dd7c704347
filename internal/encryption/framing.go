package encryption

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/awnumar/memguard"

	"github.com/idelchi/cryptocore/internal/kdf"
)

// Framing written around ciphertext:
//
//	direct key, ECB:      [ciphertext]
//	direct key, other:    [16-byte IV][ciphertext]
//	password, ECB:        [16-byte salt][ciphertext]
//	password, other:      [16-byte salt][16-byte IV][ciphertext]
//
// An IV supplied out of band at decryption replaces the IV prefix.

// SealWithKey encrypts plaintext and prefixes the IV for modes that use one.
func SealWithKey(key []byte, mode Mode, plaintext []byte, opts ...Option) ([]byte, error) {
	engine, err := New(key, mode, opts...)
	if err != nil {
		return nil, err
	}
	defer engine.Destroy()

	ciphertext, err := engine.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	if !mode.RequiresIV() {
		return ciphertext, nil
	}

	frame := make([]byte, 0, BlockSize+len(ciphertext))
	frame = append(frame, engine.iv...)
	frame = append(frame, ciphertext...)

	return frame, nil
}

// OpenWithKey decrypts a frame produced by SealWithKey.
// A non-nil iv means the frame carries no IV prefix.
func OpenWithKey(key []byte, mode Mode, frame, iv []byte, opts ...Option) ([]byte, error) {
	ciphertext := frame

	if mode.RequiresIV() && iv == nil {
		if len(frame) < BlockSize {
			return nil, &ValidationError{
				Field:   "frame",
				Value:   strconv.Itoa(len(frame)) + " bytes",
				Message: "too short to hold the IV",
				Err:     ErrTruncatedFrame,
			}
		}

		iv, ciphertext = frame[:BlockSize], frame[BlockSize:]
	}

	if iv != nil {
		opts = append(opts[:len(opts):len(opts)], WithIV(iv))
	}

	engine, err := New(key, mode, opts...)
	if err != nil {
		return nil, err
	}
	defer engine.Destroy()

	return engine.Decrypt(ciphertext)
}

// SealWithPassword derives a key from password and a fresh salt drawn from the
// WithEntropy source, then frames the salt ahead of SealWithKey's output.
func SealWithPassword(deriver kdf.Deriver, password []byte, mode Mode, plaintext []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	if o.entropy == nil {
		return nil, &ValidationError{Field: "salt", Message: "password encryption needs an entropy source", Err: ErrNoEntropy}
	}

	salt, err := kdf.GenerateSalt(o.entropy)
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped by kdf
	}

	key, err := deriveKey(deriver, password, salt, DirectionEncrypt)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key)

	o.logger.Debug("derived key from password", "kdf", deriver.Name(), "salt", fmt.Sprintf("%x", salt))

	sealed, err := SealWithKey(key, mode, plaintext, opts...)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, len(salt)+len(sealed))
	frame = append(frame, salt...)
	frame = append(frame, sealed...)

	return frame, nil
}

// OpenWithPassword decrypts a frame produced by SealWithPassword.
// The deriver must match the one used for sealing.
func OpenWithPassword(deriver kdf.Deriver, password []byte, mode Mode, frame []byte, opts ...Option) ([]byte, error) {
	if len(frame) < kdf.SaltSize {
		return nil, &ValidationError{
			Field:   "frame",
			Value:   strconv.Itoa(len(frame)) + " bytes",
			Message: "too short to hold the salt",
			Err:     ErrTruncatedFrame,
		}
	}

	salt, rest := frame[:kdf.SaltSize], frame[kdf.SaltSize:]

	key, err := deriveKey(deriver, password, salt, DirectionDecrypt)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key)

	return OpenWithKey(key, mode, rest, nil, opts...)
}

func deriveKey(deriver kdf.Deriver, password, salt []byte, direction Direction) ([]byte, error) {
	key, err := deriver.Derive(password, salt)

	switch {
	case err == nil:
		return key, nil
	case errors.Is(err, kdf.ErrInvalidSalt):
		return nil, &ValidationError{Field: "salt", Value: strconv.Itoa(len(salt)) + " bytes", Err: err}
	default:
		return nil, &PrimitiveError{
			Operation: "key derivation " + deriver.Name(),
			Direction: direction,
			Err:       fmt.Errorf("%w: %w", ErrPrimitive, err),
		}
	}
}
