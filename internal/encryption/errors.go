package encryption

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeySize is returned for keys that are not 16, 24 or 32 bytes long.
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrNoKey is returned when neither a key nor a password was configured.
	ErrNoKey = errors.New("no key source")
	// ErrInvalidIV is returned for IVs that are not exactly one block long.
	ErrInvalidIV = errors.New("invalid IV")
	// ErrMissingIV is returned when a mode needs an IV and neither an IV nor an entropy source was given.
	ErrMissingIV = errors.New("missing IV")
	// ErrNotBlockAligned is returned when padded-mode ciphertext is empty or not a multiple of the block size.
	ErrNotBlockAligned = errors.New("ciphertext is not a multiple of block size")
	// ErrInvalidPadding is returned when PKCS#7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrUnsupportedMode is returned for unknown mode names or values.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrInvalidHex is returned when key or IV text is not valid hex.
	ErrInvalidHex = errors.New("invalid hex encoding")
	// ErrTruncatedFrame is returned when framed data is too short to hold its salt or IV prefix.
	ErrTruncatedFrame = errors.New("truncated frame")
	// ErrNoEntropy is returned when a salt is needed but no entropy source was configured.
	ErrNoEntropy = errors.New("no entropy source")
	// ErrPrimitive marks a failure inside the block cipher or hash collaborator.
	ErrPrimitive = errors.New("primitive failure")

	// ErrInputMissing is returned when the input file does not exist.
	ErrInputMissing = errors.New("input file not found")
	// ErrSamePath is returned when input and output resolve to the same file.
	ErrSamePath = errors.New("input and output files cannot be the same")
)

// Direction tells whether a failing operation was encrypting or decrypting.
type Direction string

// Directions.
const (
	DirectionEncrypt Direction = "encrypt"
	DirectionDecrypt Direction = "decrypt"
)

// ValidationError reports malformed input detected before any output is produced.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Field

	if e.Value != "" {
		msg += " " + e.Value
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PrimitiveError wraps a failure of the block cipher or hash with the operation it interrupted.
type PrimitiveError struct {
	Operation string
	Direction Direction
	Err       error
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Direction, e.Operation, e.Err)
}

func (e *PrimitiveError) Unwrap() error { return e.Err }

// IsValidationError reports whether err contains a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError

	return errors.As(err, &target)
}

// IsPrimitiveError reports whether err contains a *PrimitiveError.
func IsPrimitiveError(err error) bool {
	var target *PrimitiveError

	return errors.As(err, &target)
}
