package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ikristina/fsh/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		root    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "fsh",
		Short:        "An interactive shell for listing, copying and archiving files",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if root != "" {
				abs, err := filepath.Abs(root)
				if err != nil {
					return fmt.Errorf("--root: %w", err)
				}
				cfg.Root = abs
			}
			if verbose {
				cfg.LogLevel = "debug"
			}

			shell, err := NewShell(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return shell.Run()
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
	cmd.Flags().StringVar(&root, "root", "", "start in this directory instead of the working directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every dispatched command to stderr")
	return cmd
}
