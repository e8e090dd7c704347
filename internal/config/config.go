// Package config holds the runtime configuration and its validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CRYPTOCORE"

// ErrConfigFormat is returned for config files with an unsupported extension.
var ErrConfigFormat = errors.New("unsupported config file format")

// Config represents the application configuration.
type Config struct {
	// Config is the optional configuration file.
	Config string `mapstructure:"config"`

	// Cipher selection
	Algorithm string `mapstructure:"algorithm" validate:"required,oneof=aes"                label:"--algorithm"`
	Mode      string `mapstructure:"mode"      validate:"required,oneof=ecb cbc cfb ofb ctr" label:"--mode"`

	// Operation; exactly one is set
	Encrypt bool `mapstructure:"encrypt"`
	Decrypt bool `mapstructure:"decrypt"`

	// Key material; exactly one source is set
	Key         string `mapstructure:"key"          validate:"omitempty,hexkey,exclusive=Password AskPassword" label:"--key"`
	Password    string `mapstructure:"password"     validate:"exclusive=AskPassword"                          label:"--password"`
	AskPassword bool   `mapstructure:"ask-password" label:"--ask-password"`
	KDF         string `mapstructure:"kdf"          validate:"oneof=legacy pbkdf2 argon2id"                   label:"--kdf"`
	IV          string `mapstructure:"iv"           validate:"omitempty,hexiv"                                label:"--iv"`

	// Files
	Input              string `mapstructure:"input"               validate:"required" label:"--input"`
	Output             string `mapstructure:"output"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`

	// Runtime
	Parallel int    `mapstructure:"parallel" validate:"min=1" label:"--parallel"`
	LogFile  string `mapstructure:"log-file"`
	Quiet    bool   `mapstructure:"quiet"`
	Stats    bool   `mapstructure:"stats"`
}

// Load merges, from highest precedence, the given flags, CRYPTOCORE_* environment
// variables and the file named by the "config" key into a Config.
// Hex values are normalized; the result is not validated.
func Load(v *viper.Viper, fsys afero.Fs, flags *pflag.FlagSet) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		if err := readConfigFile(v, fsys, path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Key = NormalizeHex(cfg.Key)
	cfg.IV = NormalizeHex(cfg.IV)
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.Algorithm = strings.ToLower(strings.TrimSpace(cfg.Algorithm))
	cfg.KDF = strings.ToLower(strings.TrimSpace(cfg.KDF))

	return cfg, nil
}

// readConfigFile loads YAML, JSON or JSONC into v. JSONC comments are stripped first.
func readConfigFile(v *viper.Viper, fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	case ".jsonc":
		data = jsonc.ToJSONInPlace(data)

		v.SetConfigType("json")
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}

	return nil
}

// NormalizeHex lowercases s, drops whitespace and colons and strips a 0x prefix.
func NormalizeHex(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "\t", "", ":", "").Replace(s)

	return strings.TrimPrefix(s, "0x")
}

// Validate checks the configuration against the struct tags and cross-field rules.
func (c Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	err = validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	messages := make([]error, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, errors.New(describe(fe)))
	}

	return fmt.Errorf("validating configuration: %w", errors.Join(messages...))
}

// KeySource reports which kind of key material is configured: "key", "password",
// "ask-password", or "" when none is.
func (c Config) KeySource() string {
	switch {
	case c.Key != "":
		return "key"
	case c.Password != "":
		return "password"
	case c.AskPassword:
		return "ask-password"
	default:
		return ""
	}
}
