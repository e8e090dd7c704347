package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/logic"
)

// NewRootCommand creates the root command.
// Used with --encrypt or --decrypt it processes one file directly.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "cryptocore [flags] [command]",
		Short: "Symmetric file encryption with AES chaining modes",
		Long: `Encrypts and decrypts files with AES in ECB, CBC, CFB, OFB or CTR mode.

The key is given as hex or derived from a password. Encrypted files start with
the IV (all modes but ECB); password-protected files additionally start with the salt.
Outputs are replaced atomically, so a failed run never leaves a partial file.

Examples:
  cryptocore --algorithm aes --mode cbc --encrypt --key 000102030405060708090a0b0c0d0e0f \
             --input plaintext.txt --output ciphertext.bin
  cryptocore --algorithm aes --mode cbc --decrypt --key 000102030405060708090a0b0c0d0e0f \
             --input ciphertext.bin --output decrypted.txt
  cryptocore encrypt --mode ctr --ask-password --input notes.txt`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return load(cmd, cfg, fromFlags)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	addCommonFlags(root.PersistentFlags())

	root.Flags().BoolP("encrypt", "e", false, "Encrypt the input")
	root.Flags().BoolP("decrypt", "d", false, "Decrypt the input")
	root.MarkFlagsMutuallyExclusive("encrypt", "decrypt")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewGenerateCommand())

	return root
}
