package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickstore/brickstore/config"
	"github.com/brickstore/brickstore/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the brickstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "brickstore",
		Short: "BrickStore - a personal LEGO collection tracker",
		Long:  "Track a collection of LEGO sets (plants, vehicles, buildings) over a remote store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to brickstore.yml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// bootstrap loads the configuration, installs the logger and opens the store.
// Callers must Release the returned application.
func bootstrap(ctx context.Context, opts *RootOptions) (*app.Application, error) {
	cfg, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app.InitLogger(cfg)
	a := app.NewApplication(cfg)
	if err := a.Init(ctx); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}
