package encryption

import "crypto/cipher"

// ecb encrypts each block independently. Both directions are parallel.
type ecb struct {
	block   cipher.Block
	workers int
}

func (m *ecb) encrypt(dst, src []byte) error {
	return forEachSpan(len(src)/BlockSize, m.workers, func(first, last int) error {
		for i := first; i < last; i++ {
			start, end := span(i, len(src))
			m.block.Encrypt(dst[start:end], src[start:end])
		}

		return nil
	})
}

func (m *ecb) decrypt(dst, src []byte) error {
	return forEachSpan(len(src)/BlockSize, m.workers, func(first, last int) error {
		for i := first; i < last; i++ {
			start, end := span(i, len(src))
			m.block.Decrypt(dst[start:end], src[start:end])
		}

		return nil
	})
}
