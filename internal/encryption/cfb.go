package encryption

import (
	"crypto/cipher"
	"crypto/subtle"
)

// cfb uses E(C_{i-1}) as keystream for block i, with C_{-1} = IV.
// The final block may be partial and uses a truncated keystream.
type cfb struct {
	block   cipher.Block
	iv      []byte
	workers int
}

func (m *cfb) encrypt(dst, src []byte) error {
	return guarded(func(_, _ int) error {
		prev := m.iv
		keystream := make([]byte, BlockSize)

		for i := range blocks(len(src)) {
			start, end := span(i, len(src))

			m.block.Encrypt(keystream, prev)
			subtle.XORBytes(dst[start:end], src[start:end], keystream)

			prev = dst[start:end]
		}

		return nil
	}, 0, blocks(len(src)))
}

// decrypt feeds back the received ciphertext, so blocks are independent.
func (m *cfb) decrypt(dst, src []byte) error {
	return forEachSpan(blocks(len(src)), m.workers, func(first, last int) error {
		keystream := make([]byte, BlockSize)

		for i := first; i < last; i++ {
			start, end := span(i, len(src))

			prev := m.iv
			if i > 0 {
				prev = src[start-BlockSize : start]
			}

			m.block.Encrypt(keystream, prev)
			subtle.XORBytes(dst[start:end], src[start:end], keystream)
		}

		return nil
	})
}
