package logic_test

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/encryption"
	"github.com/idelchi/cryptocore/internal/logic"
)

type harness struct {
	fs      afero.Fs
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	answers [][]byte
	prompts []string
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()

	h := &harness{fs: afero.NewMemMapFs()}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(h.fs, name, []byte(content), 0o600))
	}

	return h
}

func (h *harness) run(cfg config.Config) error {
	if cfg.Algorithm == "" {
		cfg.Algorithm = "aes"
	}

	if cfg.Parallel == 0 {
		cfg.Parallel = 2
	}

	if cfg.KDF == "" {
		cfg.KDF = "legacy"
	}

	return logic.Runner{
		Fs:     h.fs,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		ReadPassword: func(prompt string) ([]byte, error) {
			h.prompts = append(h.prompts, prompt)

			answer := h.answers[0]
			h.answers = h.answers[1:]

			return bytes.Clone(answer), nil
		},
	}.Run(&cfg)
}

func TestRunKeyRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/work/letter.txt": "Dear reader,\nthis is a test.\n"})

	key := "2b7e151628aed2a6abf7158809cf4f3c"

	require.NoError(t, h.run(config.Config{Mode: "cbc", Encrypt: true, Key: key, Input: "/work/letter.txt"}))
	assert.Contains(t, h.stdout.String(), "Using default: /work/letter.cbc.enc")
	assert.Contains(t, h.stdout.String(), "Operation successful: /work/letter.txt -> /work/letter.cbc.enc")
	assert.NotContains(t, h.stdout.String(), key)

	require.NoError(t, h.run(config.Config{Mode: "cbc", Decrypt: true, Key: key, Input: "/work/letter.cbc.enc"}))

	got, err := afero.ReadFile(h.fs, "/work/letter.dec")
	require.NoError(t, err)
	assert.Equal(t, "Dear reader,\nthis is a test.\n", string(got))
}

func TestRunAskPassword(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/in": "secret plans"})
	h.answers = [][]byte{[]byte("hunter2"), []byte("hunter2"), []byte("hunter2")}

	require.NoError(t, h.run(config.Config{Mode: "ofb", Encrypt: true, AskPassword: true, Input: "/in", Output: "/sealed"}))
	assert.Equal(t, []string{"Password: ", "Confirm password: "}, h.prompts)

	require.NoError(t, h.run(config.Config{Mode: "ofb", Decrypt: true, AskPassword: true, Input: "/sealed", Output: "/out"}))
	assert.Len(t, h.prompts, 3, "decryption asks once")

	got, err := afero.ReadFile(h.fs, "/out")
	require.NoError(t, err)
	assert.Equal(t, "secret plans", string(got))
}

func TestRunPasswordMismatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/in": "x"})
	h.answers = [][]byte{[]byte("one"), []byte("two")}

	err := h.run(config.Config{Mode: "ctr", Encrypt: true, AskPassword: true, Input: "/in", Output: "/out"})
	require.ErrorIs(t, err, logic.ErrPasswordMismatch)

	exists, err := afero.Exists(h.fs, "/out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunStatsAndLogFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/in": "some bytes to encrypt"})

	require.NoError(t, h.run(config.Config{
		Mode: "ctr", Encrypt: true, Password: "pw", Input: "/in", Output: "/out",
		Stats: true, LogFile: "/crypto.log",
	}))

	assert.Contains(t, h.stderr.String(), "Stats")
	assert.Contains(t, h.stderr.String(), "Throughput:")

	log, err := afero.ReadFile(h.fs, "/crypto.log")
	require.NoError(t, err)
	assert.Contains(t, string(log), "op=")
	assert.Contains(t, string(log), "msg=performance")
	assert.NotContains(t, string(log), "password=pw")
}

func TestRunQuiet(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/in": "data"})

	require.NoError(t, h.run(config.Config{
		Mode: "ecb", Encrypt: true, Key: "000102030405060708090a0b0c0d0e0f", Input: "/in", Quiet: true,
	}))

	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRunFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	err := h.run(config.Config{
		Mode: "cbc", Decrypt: true, Key: "000102030405060708090a0b0c0d0e0f", Input: "/missing", Output: "/out",
		LogFile: "/crypto.log",
	})
	require.ErrorIs(t, err, encryption.ErrInputMissing)

	log, err := afero.ReadFile(h.fs, "/crypto.log")
	require.NoError(t, err)
	assert.Contains(t, string(log), "operation failed")
}
