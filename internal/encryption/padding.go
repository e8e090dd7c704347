package encryption

import (
	"bytes"
	"strconv"
)

// pkcs7Pad returns a new slice holding data followed by 1..blockSize padding bytes.
// A block-aligned input gains a full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize

	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	copy(padded[len(data):], bytes.Repeat([]byte{byte(padding)}, padding))

	return padded
}

// pkcs7Unpad strips PKCS#7 padding. The returned slice aliases data.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	length := len(data)
	if length == 0 || length%blockSize != 0 {
		return nil, &ValidationError{Field: "ciphertext", Value: strconv.Itoa(length) + " bytes", Err: ErrNotBlockAligned}
	}

	padding := int(data[length-1])
	if padding == 0 || padding > blockSize {
		return nil, &ValidationError{Field: "padding", Value: strconv.Itoa(padding), Message: "length out of range", Err: ErrInvalidPadding}
	}

	for _, b := range data[length-padding:] {
		if int(b) != padding {
			return nil, &ValidationError{Field: "padding", Value: strconv.Itoa(padding), Message: "inconsistent padding bytes", Err: ErrInvalidPadding}
		}
	}

	return data[:length-padding], nil
}
