package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/database"
	"github.com/jchantrell/tadhash/internal/resolve"
	"github.com/jchantrell/tadhash/internal/utils"
)

var exportBatchSize int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the resolution database into SQLite",
	Long: `Export loads the resolution snapshot and writes every entry, in load order,
into the SQLite database given by --database. The snapshot digest and entry
count are recorded in the _metadata table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source := resolve.Default()
		if err := source.Initialize(ctx); err != nil {
			return err
		}

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		hasTables, err := db.HasUserTables(ctx)
		if err != nil {
			return fmt.Errorf("checking database tables: %w", err)
		}
		if hasTables {
			return fmt.Errorf("database %s already contains tables", cfg.Database)
		}

		total, err := source.Len()
		if err != nil {
			return err
		}

		slog.Info("Exporting resolution database", "entries", total, "database", cfg.Database)

		progress := utils.NewProgress(total, !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))
		store := database.NewResolutionStore(db, exportBatchSize)
		n, err := store.Export(ctx, source, func(done, total int) {
			progress.Update(done, "resolution")
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("exporting entries: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entries exported: %s\n", utils.Number(int64(n)))
		fmt.Fprintln(cmd.OutOrStdout(), "Try running: tadhash query --tables")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportBatchSize, "batch-size", 1000, "rows per transaction")
}
