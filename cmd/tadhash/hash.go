package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jchantrell/tadhash/internal/address"
	"github.com/jchantrell/tadhash/internal/murmur"
	"github.com/jchantrell/tadhash/internal/resolve"
)

var (
	singleStage bool
	rawHash     bool
)

var hashCmd = &cobra.Command{
	Use:   "hash <path>...",
	Short: "Compute archive hashes for asset paths",
	Long: `Hash prints the path hash, content hash and final archive hash for each
path. Paths are normalized the way the engine does before hashing. Use "-"
to read newline separated paths from stdin.

--single skips the path hash stage. --raw hashes each argument's bytes
as given, with no normalization.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(args) == 1 && args[0] == "-" {
			var err error
			paths, err = resolve.ReadPathList(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading paths from stdin: %w", err)
			}
		}

		out := cmd.OutOrStdout()

		if rawHash {
			for _, p := range paths {
				fmt.Fprintf(out, "%s\t%s\n", hashColor.Sprint(address.FormatHash(murmur.SumString(p))), p)
			}
			return nil
		}

		calc := address.New(cfg.AssetRoot)
		for _, p := range paths {
			printAddress(out, calc.Compute(p, !singleStage))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().BoolVar(&singleStage, "single", false, "skip the path hash stage")
	hashCmd.Flags().BoolVar(&rawHash, "raw", false, "hash the literal argument bytes")
}
