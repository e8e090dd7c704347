package kdf

import (
	"crypto/sha512"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 derives keys with PBKDF2-HMAC-SHA512.
type PBKDF2 struct{}

// Name implements Deriver.
func (PBKDF2) Name() string { return NamePBKDF2 }

// Derive implements Deriver.
func (PBKDF2) Derive(password, salt []byte) ([]byte, error) {
	if err := checkSalt(salt); err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, salt, Iterations, KeySize, sha512.New), nil
}

// Argon2id parameters.
const (
	Argon2Time    = 3
	Argon2Memory  = 64 * 1024
	Argon2Threads = 4
)

// Argon2id derives keys with the memory-hard Argon2id function.
type Argon2id struct{}

// Name implements Deriver.
func (Argon2id) Name() string { return NameArgon2id }

// Derive implements Deriver.
func (Argon2id) Derive(password, salt []byte) ([]byte, error) {
	if err := checkSalt(salt); err != nil {
		return nil, err
	}

	return argon2.IDKey(password, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
