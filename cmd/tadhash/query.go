package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/database"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query an exported SQLite database from the command line",
	Long: `Query executes SQL against a database written by export, lists its tables
with --tables, or shows a table's columns with --schema.

Example:
  tadhash query "SELECT printf('%08x', hash), path FROM resolution ORDER BY ordinal LIMIT 10"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		schemaTable, err := cmd.Flags().GetString("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list-tables", listTables,
			"schema", schemaTable)

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if listTables {
			tables, err := db.ListTables(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Available tables:")
			for _, name := range tables {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		}

		if schemaTable != "" {
			query := `SELECT name, type, "notnull", pk FROM pragma_table_info(?)`
			rows, err := db.Query(ctx, query, schemaTable)
			if err != nil {
				return fmt.Errorf("getting schema for table %s: %w", schemaTable, err)
			}
			defer rows.Close()

			fmt.Fprintf(out, "Schema for table '%s':\n", schemaTable)
			fmt.Fprintf(out, "%-20s %-15s %-10s %-10s\n", "Column", "Type", "NotNull", "Primary")
			fmt.Fprintln(out, strings.Repeat("-", 58))

			columns := 0
			for rows.Next() {
				var name, dataType string
				var notNull, primaryKey int
				if err := rows.Scan(&name, &dataType, &notNull, &primaryKey); err != nil {
					return fmt.Errorf("scanning schema row: %w", err)
				}

				fmt.Fprintf(out, "%-20s %-15s %-10s %-10s\n", name, dataType, yesNo(notNull != 0), yesNo(primaryKey != 0))
				columns++
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating schema: %w", err)
			}
			if columns == 0 {
				return fmt.Errorf("table %s does not exist", schemaTable)
			}

			return nil
		}

		if len(args) > 0 {
			return runQuery(cmd, db, out, args[0])
		}

		return fmt.Errorf("no query provided, use --tables to list tables or --schema <table> to show schema")
	},
}

func runQuery(cmd *cobra.Command, db *database.Database, out io.Writer, query string) error {
	slog.Debug("Executing SQL query", "query", query)

	rows, err := db.Query(cmd.Context(), query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Fprintln(out, strings.Join(columns, "\t"))
	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(out, strings.Join(separators, "\t"))

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		cells := make([]string, len(values))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(v)
			default:
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("tables", false, "List available tables")
	queryCmd.Flags().String("schema", "", "Show schema for specified table")
}
