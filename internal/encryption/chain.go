package encryption

import (
	"crypto/aes"
	"crypto/cipher"
)

// BlockSize is the size of one cipher block, IV and counter.
const BlockSize = aes.BlockSize

// chainMode turns a single-block primitive into a buffer transform.
// dst and src have the same length; padded modes receive block-aligned buffers.
type chainMode interface {
	encrypt(dst, src []byte) error
	decrypt(dst, src []byte) error
}

// newChainMode returns the chaining implementation for mode.
// iv is ignored for ECB.
func newChainMode(mode Mode, block cipher.Block, iv []byte, workers int) (chainMode, error) {
	switch mode {
	case ModeECB:
		return &ecb{block: block, workers: workers}, nil
	case ModeCBC:
		return &cbc{block: block, iv: iv, workers: workers}, nil
	case ModeCFB:
		return &cfb{block: block, iv: iv, workers: workers}, nil
	case ModeOFB:
		return &ofb{block: block, iv: iv}, nil
	case ModeCTR:
		return &ctr{block: block, iv: iv, workers: workers}, nil
	default:
		return nil, &ValidationError{Field: "mode", Value: mode.String(), Err: ErrUnsupportedMode}
	}
}

// blocks returns the number of blocks needed to cover n bytes, counting a trailing partial block.
func blocks(n int) int {
	return (n + BlockSize - 1) / BlockSize
}

// span returns the byte range of block i within a buffer of length n.
func span(i, n int) (int, int) {
	start := i * BlockSize

	return start, min(start+BlockSize, n)
}
