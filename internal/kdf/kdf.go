// Package kdf derives 16-byte cipher keys from passwords and salts.
//
// The Legacy derivation is the default and must stay byte-for-byte stable:
// files sealed with a password can only be opened again with the same
// derivation. PBKDF2 and Argon2id are offered for new data.
package kdf

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// KeySize is the length of every derived key.
	KeySize = 16
	// SaltSize is the only accepted salt length.
	SaltSize = 16
	// Iterations is the round count for Legacy and PBKDF2.
	Iterations = 100_000
)

var (
	// ErrInvalidSalt is returned when a salt is not SaltSize bytes long.
	ErrInvalidSalt = errors.New("invalid salt")
	// ErrUnknownKDF is returned by New for unrecognized names.
	ErrUnknownKDF = errors.New("unknown key derivation function")
	// ErrHash is returned when a required hash primitive is unavailable.
	ErrHash = errors.New("hash primitive unavailable")
)

// Deriver turns a password and salt into a KeySize-byte key.
type Deriver interface {
	Derive(password, salt []byte) ([]byte, error)
	Name() string
}

// Names of the available derivations, as accepted by New.
const (
	NameLegacy   = "legacy"
	NamePBKDF2   = "pbkdf2"
	NameArgon2id = "argon2id"
)

// Names lists every derivation New understands.
func Names() []string {
	return []string{NameLegacy, NamePBKDF2, NameArgon2id}
}

// New returns the derivation registered under name. An empty name selects Legacy.
func New(name string) (Deriver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameLegacy:
		return Legacy{}, nil
	case NamePBKDF2:
		return PBKDF2{}, nil
	case NameArgon2id:
		return Argon2id{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, name)
	}
}

// GenerateSalt reads SaltSize bytes from r.
func GenerateSalt(r io.Reader) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	return salt, nil
}

func checkSalt(salt []byte) error {
	if len(salt) != SaltSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}

	return nil
}
