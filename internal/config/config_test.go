package config_test

import (
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptocore/internal/config"
)

// Case is a validation scenario applied on top of a valid base configuration.
type Case struct {
	Description string         `yaml:"description"`
	Config      map[string]any `yaml:"config"`
	Valid       bool           `yaml:"valid"`
	Message     string         `yaml:"message"`
}

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	fs.String("config", "", "")
	fs.String("algorithm", "aes", "")
	fs.String("mode", "", "")
	fs.Bool("encrypt", false, "")
	fs.Bool("decrypt", false, "")
	fs.String("key", "", "")
	fs.String("password", "", "")
	fs.Bool("ask-password", false, "")
	fs.String("kdf", "legacy", "")
	fs.String("iv", "", "")
	fs.String("input", "", "")
	fs.String("output", "", "")
	fs.Bool("preserve-timestamps", false, "")
	fs.Int("parallel", 1, "")
	fs.String("log-file", "", "")
	fs.Bool("quiet", false, "")
	fs.Bool("stats", false, "")

	return fs
}

func base() map[string]any {
	return map[string]any{
		"algorithm": "aes",
		"mode":      "cbc",
		"encrypt":   true,
		"key":       "000102030405060708090a0b0c0d0e0f",
		"kdf":       "legacy",
		"input":     "plain.txt",
		"parallel":  2,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/validation.yml")
	require.NoError(t, err)

	var cases []Case
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			t.Parallel()

			v := viper.New()

			for key, value := range base() {
				v.Set(key, value)
			}

			for key, value := range tc.Config {
				v.Set(key, value)
			}

			cfg, err := config.Load(v, afero.NewMemMapFs(), flags())
			require.NoError(t, err)

			err = cfg.Validate()
			if tc.Valid {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.Message)
		})
	}
}

func TestLoadFlags(t *testing.T) {
	t.Parallel()

	fs := flags()
	require.NoError(t, fs.Parse([]string{
		"--mode", "CTR",
		"--decrypt",
		"--key", "0x00:01:02:03:04:05:06:07:08:09:0A:0B:0C:0D:0E:0F",
		"--iv", " F0F1F2F3 F4F5F6F7 F8F9FAFB FCFDFEFF ",
		"--input", "secret.bin",
	}))

	cfg, err := config.Load(viper.New(), afero.NewMemMapFs(), fs)
	require.NoError(t, err)

	assert.Equal(t, "ctr", cfg.Mode)
	assert.True(t, cfg.Decrypt)
	assert.False(t, cfg.Encrypt)
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f", cfg.Key)
	assert.Equal(t, "f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff", cfg.IV)
	assert.Equal(t, "aes", cfg.Algorithm)
	assert.Equal(t, "legacy", cfg.KDF)
	assert.Equal(t, "key", cfg.KeySource())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFiles(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"/etc/cryptocore.yml": "mode: ofb\nencrypt: true\npassword: swordfish\ninput: in.txt\nkdf: argon2id\n",
		"/etc/cryptocore.json": `{"mode": "ofb", "encrypt": true, "password": "swordfish", ` +
			`"input": "in.txt", "kdf": "argon2id"}`,
		"/etc/cryptocore.jsonc": `{
	// stream mode
	"mode": "ofb",
	"encrypt": true,
	"password": "swordfish", /* never commit this */
	"input": "in.txt",
	"kdf": "argon2id",
}`,
	}

	for path, content := range files {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o600))

			fs := flags()
			require.NoError(t, fs.Parse([]string{"--config", path}))

			cfg, err := config.Load(viper.New(), fsys, fs)
			require.NoError(t, err)

			assert.Equal(t, "ofb", cfg.Mode)
			assert.True(t, cfg.Encrypt)
			assert.Equal(t, "swordfish", cfg.Password)
			assert.Equal(t, "in.txt", cfg.Input)
			assert.Equal(t, "argon2id", cfg.KDF)
			assert.Equal(t, "password", cfg.KeySource())
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadFlagOverridesConfigFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/c.yaml", []byte("mode: ofb\ninput: a.txt\n"), 0o600))

	fs := flags()
	require.NoError(t, fs.Parse([]string{"--config", "/c.yaml", "--mode", "cfb"}))

	cfg, err := config.Load(viper.New(), fsys, fs)
	require.NoError(t, err)

	assert.Equal(t, "cfb", cfg.Mode)
	assert.Equal(t, "a.txt", cfg.Input)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/c.toml", []byte("mode = 'ofb'\n"), 0o600))

	fs := flags()
	require.NoError(t, fs.Parse([]string{"--config", "/c.toml"}))

	_, err := config.Load(viper.New(), fsys, fs)
	require.ErrorIs(t, err, config.ErrConfigFormat)

	fs = flags()
	require.NoError(t, fs.Parse([]string{"--config", "/missing.yml"}))

	_, err = config.Load(viper.New(), fsys, fs)
	require.Error(t, err)
}

//nolint:paralleltest // modifies the process environment
func TestLoadEnvironment(t *testing.T) {
	t.Setenv("CRYPTOCORE_MODE", "ecb")
	t.Setenv("CRYPTOCORE_ASK_PASSWORD", "true")
	t.Setenv("CRYPTOCORE_LOG_FILE", "/var/log/cryptocore.log")

	cfg, err := config.Load(viper.New(), afero.NewMemMapFs(), flags())
	require.NoError(t, err)

	assert.Equal(t, "ecb", cfg.Mode)
	assert.True(t, cfg.AskPassword)
	assert.Equal(t, "/var/log/cryptocore.log", cfg.LogFile)
	assert.Equal(t, "ask-password", cfg.KeySource())
}

func TestNormalizeHex(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                     "",
		"0xDEADBEEF":           "deadbeef",
		" de:ad:be:ef ":        "deadbeef",
		"DE AD\tBE EF":         "deadbeef",
		"00112233445566778899": "00112233445566778899",
	}

	for in, want := range tests {
		assert.Equal(t, want, config.NormalizeHex(in), in)
	}
}
