package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/address"
	"github.com/jchantrell/tadhash/internal/resolve"
)

var (
	lookupByName bool
	lookupAll    bool
	pathHashArg  string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <hash|name>...",
	Short: "Resolve archive hashes back to asset paths",
	Long: `Lookup resolves each hex hash to the first matching path in the resolution
database. --path-hash restricts matches to entries with that path hash.
--all lists every entry sharing the hash. --name treats the arguments as
path substrings instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db := resolve.Default()
		if err := db.Initialize(cmd.Context()); err != nil {
			return err
		}

		var pathHash uint32
		if pathHashArg != "" {
			var err error
			pathHash, err = address.ParseHash(pathHashArg)
			if err != nil {
				return fmt.Errorf("parsing --path-hash: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		misses := 0

		for _, arg := range args {
			if lookupByName {
				e, found, err := db.LookupByName(arg)
				if err != nil {
					return err
				}
				if !found {
					printMiss(out, arg)
					misses++
					continue
				}
				printEntry(out, e)
				continue
			}

			hash, err := address.ParseHash(arg)
			if err != nil {
				return err
			}

			if lookupAll {
				matches, err := db.LookupAll(hash)
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					printMiss(out, arg)
					misses++
				}
				for _, e := range matches {
					printEntry(out, e)
				}
				continue
			}

			e, found, err := db.LookupByHash(hash, pathHash)
			if err != nil {
				return err
			}
			if !found {
				printMiss(out, arg)
				misses++
				continue
			}
			printEntry(out, e)
		}

		slog.Debug("Lookup finished", "queries", len(args), "misses", misses)

		if misses > 0 {
			return fmt.Errorf("%d of %d lookups did not resolve", misses, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVarP(&lookupByName, "name", "n", false, "look up by path substring")
	lookupCmd.Flags().BoolVarP(&lookupAll, "all", "a", false, "list every entry sharing the hash")
	lookupCmd.Flags().StringVar(&pathHashArg, "path-hash", "", "path hash that must match as well")
}
