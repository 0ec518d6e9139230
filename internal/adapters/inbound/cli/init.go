package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minvoice/minvoice/internal/adapters/outbound/config"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		pageSize string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .minvoice.yaml configuration file",
		Long:  "Create a .minvoice.yaml holding the default render settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if !force {
				if _, err := os.Stat(filepath.Join(absPath, config.FileName)); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			if pageSize != "" {
				cfg.PageSize = pageSize
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if _, err := config.Write(absPath, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageSize, "page-size", "", "Page size (A4, Letter)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .minvoice.yaml")

	return cmd
}
