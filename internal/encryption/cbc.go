package encryption

import (
	"crypto/cipher"
	"crypto/subtle"
)

// cbc chains C_i = E(P_i XOR C_{i-1}) with C_{-1} = IV.
// Decryption only depends on ciphertext and runs in parallel.
type cbc struct {
	block   cipher.Block
	iv      []byte
	workers int
}

func (m *cbc) encrypt(dst, src []byte) error {
	return guarded(func(_, _ int) error {
		prev := m.iv
		buf := make([]byte, BlockSize)

		for start := 0; start < len(src); start += BlockSize {
			end := start + BlockSize

			subtle.XORBytes(buf, src[start:end], prev)
			m.block.Encrypt(dst[start:end], buf)

			prev = dst[start:end]
		}

		return nil
	}, 0, len(src)/BlockSize)
}

func (m *cbc) decrypt(dst, src []byte) error {
	return forEachSpan(len(src)/BlockSize, m.workers, func(first, last int) error {
		buf := make([]byte, BlockSize)

		for i := first; i < last; i++ {
			start, end := span(i, len(src))

			prev := m.iv
			if i > 0 {
				prev = src[start-BlockSize : start]
			}

			m.block.Decrypt(buf, src[start:end])
			subtle.XORBytes(dst[start:end], buf, prev)
		}

		return nil
	})
}
