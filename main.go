// Command cryptocore encrypts and decrypts files with AES chaining modes.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/cryptocore/internal/commands"
	"github.com/idelchi/cryptocore/internal/config"
)

// version is set at build time with -ldflags.
var version = "unknown - unofficial build"

func main() {
	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
