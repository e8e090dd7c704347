package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/cryptocore/internal/config"
	"github.com/idelchi/cryptocore/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags]",
		Aliases: []string{"enc"},
		Short:   "Encrypt a file",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return load(cmd, cfg, forceEncrypt)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}
}
