package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cladam/medi"
	"github.com/cladam/medi/internal/config"
	"github.com/cladam/medi/pkg/core"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medi",
	Short: "CLI driven Markdown note manager",
	Long: `medi keeps your notes in an embedded key-value store and mirrors
them into a full-text search index. The store is the source of truth;
the index is derived and can always be rebuilt with 'medi reindex'.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// openService loads the configuration and wires up the service.
// Every subcommand goes through here; the returned close function
// releases the data directory lock.
func openService() (*core.Service, func() error) {
	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	svc, closeFn, err := medi.Open(cfg.DataDir(), medi.WithLogger(slog.Default()))
	if err != nil {
		fatal("Failed to open data directory", err)
	}
	return svc, closeFn
}
