package encryption

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"math/bits"
)

// ctr XORs data with E(IV + i), treating the IV as a big-endian 128-bit
// integer that wraps modulo 2^128. Every block is independent.
type ctr struct {
	block   cipher.Block
	iv      []byte
	workers int
}

func (m *ctr) encrypt(dst, src []byte) error {
	hi := binary.BigEndian.Uint64(m.iv[:8])
	lo := binary.BigEndian.Uint64(m.iv[8:])

	return forEachSpan(blocks(len(src)), m.workers, func(first, last int) error {
		counter := make([]byte, BlockSize)
		keystream := make([]byte, BlockSize)

		for i := first; i < last; i++ {
			start, end := span(i, len(src))

			sum, carry := bits.Add64(lo, uint64(i), 0) //nolint:gosec // i is non-negative
			binary.BigEndian.PutUint64(counter[:8], hi+carry)
			binary.BigEndian.PutUint64(counter[8:], sum)

			m.block.Encrypt(keystream, counter)
			subtle.XORBytes(dst[start:end], src[start:end], keystream)
		}

		return nil
	})
}

func (m *ctr) decrypt(dst, src []byte) error {
	return m.encrypt(dst, src)
}
