// Package cli implements the verdant command line used by curators and the
// periodic job runner.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"verdant/internal/config"
	"verdant/internal/db"
	"verdant/internal/db/mock"
	applog "verdant/internal/log"
)

// RootOptions holds state shared by every subcommand.
type RootOptions struct {
	Config config.Config
	Mock   bool
}

// NewRootCommand creates the root of the verdant CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "verdant",
		Short: "Carbon-footprint engine for seasonal recipes",
		Long: `Verdant resolves ingredient carbon footprints from seasonal supply data
and keeps recipe aggregates consistent as the catalog changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := applog.SetLevel(cfg.Logging.Level); err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Mock, "mock", false, "run against the seeded in-memory database")

	cmd.AddCommand(NewRecomputeCommand(opts))
	cmd.AddCommand(NewFootprintCommand(opts))
	cmd.AddCommand(NewCascadeCommand(opts))

	return cmd
}

// openDatabase connects per configuration. Without a database URL it falls
// back to the seeded mock so the CLI stays usable on a bare machine.
func openDatabase(ctx context.Context, opts *RootOptions) (*gorm.DB, error) {
	if opts.Mock || opts.Config.Database.UseMock || opts.Config.Database.URL == "" {
		return mock.New(ctx)
	}
	return db.Configure(opts.Config.Database)
}
