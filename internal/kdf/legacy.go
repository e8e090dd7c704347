package kdf

import (
	"fmt"
	"math/bits"

	"github.com/awnumar/memguard"
	"github.com/tink-crypto/tink-go/v2/subtle"
)

const (
	legacyHash   = "SHA512"
	legacyRotate = 3
)

// Legacy is the iterated SHA-512 derivation used by existing password-sealed files.
//
// The state starts as SHA-512(password || salt). Each of the Iterations rounds
// rehashes the state, then rotates every byte left by three bits and mixes in
// the round number shifted by the byte position modulo eight.
// The key is the first KeySize bytes of the final state.
type Legacy struct{}

// Name implements Deriver.
func (Legacy) Name() string { return NameLegacy }

// Derive implements Deriver.
func (Legacy) Derive(password, salt []byte) ([]byte, error) {
	if err := checkSalt(salt); err != nil {
		return nil, err
	}

	newHash := subtle.GetHashFunc(legacyHash)
	if newHash == nil {
		return nil, fmt.Errorf("%w: %s", ErrHash, legacyHash)
	}

	h := newHash()

	seed := make([]byte, 0, len(password)+len(salt))
	seed = append(seed, password...)
	seed = append(seed, salt...)

	defer memguard.WipeBytes(seed)

	h.Write(seed)
	state := h.Sum(nil)

	defer memguard.WipeBytes(state)

	for i := range Iterations {
		h.Reset()
		h.Write(state)
		state = h.Sum(state[:0])

		for j := range state {
			state[j] = bits.RotateLeft8(state[j], legacyRotate) ^ byte(i>>(j%8)) //nolint:gosec // truncation intended
		}
	}

	key := make([]byte, KeySize)
	copy(key, state)

	return key, nil
}
