// Package main is the entry point for the webutils server and command line tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oszuidwest/zwfm-webutils/internal/config"
	"github.com/oszuidwest/zwfm-webutils/internal/storage"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
	"github.com/oszuidwest/zwfm-webutils/pkg/version"
)

var logLevel string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "webutils",
		Short:         "File, archive and JSON helpers for web applications",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			return logger.Initialize(logLevel, true)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(),
		newZipCmd(),
		newProtectCmd(),
		newReplaceCmd(),
		newInjectCmd(),
	)
	return root
}

// openStorage loads the configuration and opens the storage it describes.
func openStorage() (*config.Config, *storage.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
