// Package main implements the elkbridge command-line interface: managing
// LAPW basis-set families and preparing/parsing ELK calculation jobs for the
// workflow engine.
package main

import (
	"fmt"
	"os"

	"elkbridge/internal/config"
	"elkbridge/internal/repository/sqlite"
	"elkbridge/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	dbPath     string
	ownerEmail string

	// Loaded configuration
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "elkbridge",
	Short: "ELK calculation adapter and LAPW basis family manager",
	Long: `elkbridge connects a materials-science workflow engine to the ELK
electronic-structure code.

It manages named families of LAPW species basis files (content-addressed,
deduplicated by hash), stages the input files one calculation job needs, and
parses retrieved output files into structured records.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, _, err = config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if ownerEmail != "" {
			cfg.OwnerEmail = ownerEmail
		}

		// Keep stdout clean for command output; logs go to stderr and
		// stay quiet unless --verbose
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "record store path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&ownerEmail, "owner", "", "acting user identity (overrides config)")

	rootCmd.AddCommand(lapwbasisCmd)
	rootCmd.AddCommand(calcCmd)
}

// openServices opens the record store and builds the service layer. The
// returned cleanup closes the store.
func openServices() (*service.FamilyService, *service.CalcService, func(), error) {
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open record store: %w", err)
	}

	families := service.NewFamilyService(store, logger)
	calcs := service.NewCalcService(families, logger)
	return families, calcs, func() { store.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
