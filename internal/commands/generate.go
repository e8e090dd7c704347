package commands

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/idelchi/cryptocore/internal/encryption"
	"github.com/idelchi/cryptocore/internal/entropy"
	"github.com/idelchi/cryptocore/internal/kdf"
)

// ErrInvalidSize is returned for key sizes other than 16, 24 or 32 bytes.
var ErrInvalidSize = errors.New("--size must be 16, 24 or 32")

// NewGenerateCommand creates the generate subcommand, printing hex material from the entropy source.
func NewGenerateCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:       "generate [key|iv|salt]",
		Aliases:   []string{"gen"},
		Short:     "Generate a key, IV or salt",
		Long:      "Prints hex-encoded bytes from the built-in entropy source. Defaults to a key.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"key", "iv", "salt"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "key"
			if len(args) == 1 {
				kind = args[0]
			}

			n := size

			switch kind {
			case "iv":
				n = encryption.BlockSize
			case "salt":
				n = kdf.SaltSize
			default:
				if err := validator.New().Var(size, "oneof=16 24 32"); err != nil {
					return fmt.Errorf("%w, got %d", ErrInvalidSize, size)
				}
			}

			out, err := entropy.New().Bytes(n)
			if err != nil {
				return fmt.Errorf("generating %s: %w", kind, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))

			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", kdf.KeySize, "Key size in bytes: 16, 24 or 32")

	return cmd
}
