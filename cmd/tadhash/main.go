package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/address"
	"github.com/jchantrell/tadhash/internal/config"
	"github.com/jchantrell/tadhash/internal/resolve"
)

var (
	cfg     *config.Config
	cfgFile string

	assetRoot  string
	snapshot   string
	dbPath     string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "tadhash",
	Short: "Shenmue HD archive hash calculator and resolver",
	Long: `tadhash computes the filename hashes the Shenmue I & II HD engine embeds
in its TAD/TAC archives and resolves observed hashes back to asset paths.

Paths are hashed with the engine's MurmurHash2 variant after the same
two-stage normalization the game performs. Reverse lookups use a
pre-built database that ships inside the binary, or a snapshot file
given with --snapshot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("asset-root") {
			cfg.AssetRoot = assetRoot
		}
		if cmd.Flags().Changed("snapshot") {
			cfg.Snapshot = snapshot
		}
		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		slog.SetDefault(newLogger(cfg))

		if cfg.Snapshot != "" {
			if err := resolve.SetDefaultSource(resolve.FileSource(cfg.Snapshot)); err != nil {
				return fmt.Errorf("selecting snapshot: %w", err)
			}
		}

		slog.Debug("Configuration",
			"asset_root", cfg.AssetRoot,
			"snapshot", cfg.Snapshot,
			"database", cfg.Database,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: level,
		})
	}

	return slog.New(handler)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is tadhash.yaml in home or pwd)")
	rootCmd.PersistentFlags().StringVar(&assetRoot, "asset-root", address.DefaultAssetRoot, "asset root prefixed before stripping paths")
	rootCmd.PersistentFlags().StringVarP(&snapshot, "snapshot", "s", "", "resolution snapshot file (default is the embedded database)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "SQLite database file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
