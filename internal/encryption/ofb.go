package encryption

import (
	"crypto/cipher"
	"crypto/subtle"
)

// ofb XORs data with the keystream K_i = E(K_{i-1}), K_{-1} = IV.
// The keystream is strictly sequential; decryption is the same transform.
type ofb struct {
	block cipher.Block
	iv    []byte
}

func (m *ofb) encrypt(dst, src []byte) error {
	return guarded(func(_, _ int) error {
		keystream := make([]byte, BlockSize)
		copy(keystream, m.iv)

		for i := range blocks(len(src)) {
			start, end := span(i, len(src))

			m.block.Encrypt(keystream, keystream)
			subtle.XORBytes(dst[start:end], src[start:end], keystream)
		}

		return nil
	}, 0, blocks(len(src)))
}

func (m *ofb) decrypt(dst, src []byte) error {
	return m.encrypt(dst, src)
}
