package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/schoolcal/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "schoolcal: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "schoolcal",
		Short: "Browse school and regional academic calendars",
		Long: `schoolcal shows the academic calendar of your saved school or region,
or a default selection when you are not signed in. Switch between school and
region, year and grade from the keyboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "override config path (default ~/.config/schoolcal/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "override preferences path (default ~/.config/schoolcal/prefs.toml)")
	flags.StringVar(&opts.Type, "type", "", "search type: school or region (default: saved preference)")
	flags.IntVar(&opts.Year, "year", 0, "calendar year (default: saved preference, then current year)")
	flags.IntVar(&opts.Grade, "grade", -1, "grade 1-6, or 0 for all grades (default: saved preference)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the schedule once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Show(cmd.Context(), opts, cmd.OutOrStdout())
		},
	})
	return rootCmd
}
