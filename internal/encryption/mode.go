package encryption

import (
	"fmt"
	"strings"
)

// Mode selects the chaining rule applied on top of the block cipher.
type Mode byte

const (
	// ModeECB encrypts every block independently.
	ModeECB Mode = iota + 1
	// ModeCBC XORs each plaintext block with the previous ciphertext block.
	ModeCBC
	// ModeCFB encrypts the previous ciphertext block to form the keystream.
	ModeCFB
	// ModeOFB repeatedly encrypts the IV to form the keystream.
	ModeOFB
	// ModeCTR encrypts an incrementing counter to form the keystream.
	ModeCTR
)

var modeNames = map[Mode]string{
	ModeECB: "ecb",
	ModeCBC: "cbc",
	ModeCFB: "cfb",
	ModeOFB: "ofb",
	ModeCTR: "ctr",
}

// Modes returns all supported modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeECB, ModeCBC, ModeCFB, ModeOFB, ModeCTR}
}

// ParseMode resolves a case-insensitive mode name.
func ParseMode(name string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for mode, modeName := range modeNames {
		if modeName == normalized {
			return mode, nil
		}
	}

	return 0, &ValidationError{Field: "mode", Value: name, Message: "must be one of ecb, cbc, cfb, ofb, ctr", Err: ErrUnsupportedMode}
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("mode(%d)", byte(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]

	return ok
}

// RequiresIV reports whether the mode needs an initialization vector.
func (m Mode) RequiresIV() bool {
	return m.Valid() && m != ModeECB
}

// Padded reports whether the mode applies PKCS#7 padding.
func (m Mode) Padded() bool {
	return m == ModeECB || m == ModeCBC
}
