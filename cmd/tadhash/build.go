package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/resolve"
	"github.com/jchantrell/tadhash/internal/utils"
)

var (
	buildOutput  string
	buildWorkers int
)

var buildCmd = &cobra.Command{
	Use:   "build <pathlist>",
	Short: "Build a resolution snapshot from a list of asset paths",
	Long: `Build reads newline separated asset paths (blank lines and lines starting
with # are skipped), computes their two-stage archive hashes and writes a
gzip compressed JSON snapshot that lookup can load with --snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening path list: %w", err)
		}
		paths, err := resolve.ReadPathList(f)
		f.Close()
		if err != nil {
			return err
		}

		slog.Info("Building snapshot", "paths", len(paths), "output", buildOutput, "asset_root", cfg.AssetRoot)

		progress := utils.NewProgress(len(paths), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		opts := resolve.DefaultBuildOptions()
		opts.Root = cfg.AssetRoot
		if buildWorkers > 0 {
			opts.Workers = buildWorkers
		}
		opts.Progress = func(done, total int, path string) {
			progress.Update(done, path)
		}

		entries, err := resolve.Build(cmd.Context(), paths, opts)
		progress.Finish()
		if err != nil {
			return err
		}

		if dir := filepath.Dir(buildOutput); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}

		out, err := os.Create(buildOutput)
		if err != nil {
			return fmt.Errorf("creating snapshot file: %w", err)
		}
		if err := resolve.EncodeSnapshot(out, entries); err != nil {
			out.Close()
			return fmt.Errorf("writing snapshot: %w", err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("closing snapshot file: %w", err)
		}

		elapsed := time.Since(start)
		var rate float64
		if elapsed > 0 {
			rate = float64(len(entries)) / elapsed.Seconds()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entries written: %s (%s duplicates dropped)\n",
			utils.Number(int64(len(entries))), utils.Number(int64(len(paths)-len(entries))))
		fmt.Fprintf(cmd.OutOrStdout(), "Duration: %s (%s paths/sec)\n", utils.Duration(elapsed), utils.Rate(rate))
		fmt.Fprintf(cmd.OutOrStdout(), "Try running: tadhash lookup --snapshot %s --name <path>\n", buildOutput)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "hashes.json.gz", "snapshot file to write")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", runtime.NumCPU(), "number of hashing workers")
}
