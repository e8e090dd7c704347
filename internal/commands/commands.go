package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/kdf"
)

// operation forces the direction of a subcommand.
type operation int

const (
	fromFlags operation = iota
	forceEncrypt
	forceDecrypt
)

// addCommonFlags registers the flags shared by the root command and its subcommands.
func addCommonFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Path to a YAML, JSON or JSONC configuration file")

	flags.String("algorithm", "aes", "Block cipher algorithm")
	flags.StringP("mode", "m", "", "Chaining mode: ecb, cbc, cfb, ofb or ctr")

	flags.StringP("key", "k", "", "Key as hex (32, 48 or 64 characters for 16, 24 or 32 bytes)")
	flags.String("iv", "", "IV as hex (32 characters), decryption only; the file then carries no IV prefix")
	flags.StringP("password", "p", "", "Derive the key from this password")
	flags.Bool("ask-password", false, "Prompt for the password")
	flags.String("kdf", kdf.NameLegacy, fmt.Sprintf("Password key derivation, one of %v", kdf.Names()))

	flags.StringP("input", "i", "", "Input file")
	flags.StringP("output", "o", "", "Output file (default derived from the input name)")
	flags.Bool("preserve-timestamps", false, "Copy the input modification time to the output")

	flags.IntP("parallel", "j", runtime.NumCPU(), "Workers for modes with independent blocks")
	flags.String("log-file", "", "Append a log of every operation to this file")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("stats", "s", false, "Print statistics and informational log lines")
}

// load fills cfg from the command's flags, the environment and the config file, then validates it.
func load(cmd *cobra.Command, cfg *config.Config, op operation) error {
	loaded, err := config.Load(viper.New(), afero.NewOsFs(), cmd.Flags())
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}

	switch op {
	case forceEncrypt:
		loaded.Encrypt, loaded.Decrypt = true, false
	case forceDecrypt:
		loaded.Encrypt, loaded.Decrypt = false, true
	case fromFlags:
	}

	*cfg = *loaded

	return cfg.Validate() //nolint:wrapcheck // already descriptive
}
