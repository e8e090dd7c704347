package encryption_test

import (
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptocore/internal/encryption"
	"github.com/idelchi/cryptocore/internal/kdf"
)

func TestSealWithKeyFraming(t *testing.T) {
	t.Parallel()

	plaintext := message(33)

	for _, mode := range encryption.Modes() {
		frame, err := encryption.SealWithKey(keys[16], mode, plaintext, encryption.WithEntropy(&counting{}))
		require.NoError(t, err)

		engine, err := encryption.New(keys[16], mode, encryption.WithEntropy(&counting{}))
		require.NoError(t, err)

		ciphertext, err := engine.Encrypt(plaintext)
		require.NoError(t, err)

		if mode.RequiresIV() {
			assert.Equal(t, engine.IV(), frame[:aes.BlockSize], mode.String())
			assert.Equal(t, ciphertext, frame[aes.BlockSize:], mode.String())
		} else {
			assert.Equal(t, ciphertext, frame, mode.String())
		}

		opened, err := encryption.OpenWithKey(keys[16], mode, frame, nil)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened, mode.String())
	}
}

func TestOpenWithKeyOutOfBandIV(t *testing.T) {
	t.Parallel()

	plaintext := message(40)

	engine, err := encryption.New(keys[24], encryption.ModeCBC, encryption.WithIV(iv))
	require.NoError(t, err)

	ciphertext, err := engine.Encrypt(plaintext)
	require.NoError(t, err)

	opened, err := encryption.OpenWithKey(keys[24], encryption.ModeCBC, ciphertext, iv)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestOpenWithKeyTruncated(t *testing.T) {
	t.Parallel()

	for _, mode := range []encryption.Mode{encryption.ModeCBC, encryption.ModeCTR} {
		_, err := encryption.OpenWithKey(keys[16], mode, make([]byte, 15), nil)
		require.ErrorIs(t, err, encryption.ErrTruncatedFrame, mode.String())
		assert.True(t, encryption.IsValidationError(err))
	}

	// A bare IV is a valid, empty stream-mode frame.
	opened, err := encryption.OpenWithKey(keys[16], encryption.ModeCTR, iv, nil)
	require.NoError(t, err)
	assert.Empty(t, opened)

	// ... but not a valid padded-mode frame.
	_, err = encryption.OpenWithKey(keys[16], encryption.ModeCBC, iv, nil)
	require.ErrorIs(t, err, encryption.ErrNotBlockAligned)
}

func TestSealWithPassword(t *testing.T) {
	t.Parallel()

	plaintext := []byte("attack at dawn")
	password := []byte("correct horse battery staple")

	for _, mode := range encryption.Modes() {
		for _, name := range []string{kdf.NameLegacy, kdf.NamePBKDF2} {
			deriver, err := kdf.New(name)
			require.NoError(t, err)

			frame, err := encryption.SealWithPassword(deriver, password, mode, plaintext,
				encryption.WithEntropy(&counting{}))
			require.NoError(t, err)

			salt := frame[:kdf.SaltSize]
			assert.Equal(t, message16(0), salt, "salt is drawn first")

			prefix := kdf.SaltSize
			if mode.RequiresIV() {
				assert.Equal(t, message16(16), frame[kdf.SaltSize:kdf.SaltSize+aes.BlockSize], "IV follows the salt")

				prefix += aes.BlockSize
			}

			key, err := deriver.Derive(password, salt)
			require.NoError(t, err)

			engine, err := encryption.New(key, mode, encryption.WithIV(message16(16)))
			require.NoError(t, err)

			ciphertext, err := engine.Encrypt(plaintext)
			require.NoError(t, err)
			assert.Equal(t, ciphertext, frame[prefix:], "%s/%s", mode, name)

			opened, err := encryption.OpenWithPassword(deriver, password, mode, frame)
			require.NoError(t, err)
			assert.Equal(t, plaintext, opened)
		}
	}
}

func TestOpenWithPasswordWrongPassword(t *testing.T) {
	t.Parallel()

	deriver, err := kdf.New(kdf.NameLegacy)
	require.NoError(t, err)

	plaintext := message(64)

	frame, err := encryption.SealWithPassword(deriver, []byte("right"), encryption.ModeCTR, plaintext,
		encryption.WithEntropy(&counting{}))
	require.NoError(t, err)

	opened, err := encryption.OpenWithPassword(deriver, []byte("wrong"), encryption.ModeCTR, frame)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, opened)
}

func TestPasswordErrors(t *testing.T) {
	t.Parallel()

	deriver, err := kdf.New(kdf.NameLegacy)
	require.NoError(t, err)

	_, err = encryption.SealWithPassword(deriver, []byte("pw"), encryption.ModeCBC, nil)
	require.ErrorIs(t, err, encryption.ErrNoEntropy)

	_, err = encryption.OpenWithPassword(deriver, []byte("pw"), encryption.ModeCBC, make([]byte, 10))
	require.ErrorIs(t, err, encryption.ErrTruncatedFrame)

	// Salt present, IV missing.
	_, err = encryption.OpenWithPassword(deriver, []byte("pw"), encryption.ModeCBC, make([]byte, 20))
	require.ErrorIs(t, err, encryption.ErrTruncatedFrame)
}

// message16 returns the 16 bytes a fresh counting source yields after skipping start bytes.
func message16(start byte) []byte {
	out := make([]byte, aes.BlockSize)
	for i := range out {
		out[i] = start + byte(i)
	}

	return out
}
