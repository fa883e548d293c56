package cmd

import (
	"fmt"
	"os"

	"github.com/Xichen96/sonic-mgmt/internal/cache/sqlite"
	"github.com/Xichen96/sonic-mgmt/internal/format"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheFormat format.DataFormat = format.FORMAT_JSON

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached outlet snapshots.",
	Run: func(cmd *cobra.Command, args []string) {
		// show the help for cache and exit
		if len(args) <= 0 {
			cmd.Help()
			os.Exit(0)
		}
	},
}

// The `cache list` command prints the outlet snapshots saved by previous
// `power status` runs, optionally scoped to specific DUTs.
var cacheListCmd = &cobra.Command{
	Use:   "list [dut...]",
	Short: "List cached outlet snapshots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		duts := args
		if len(duts) == 0 {
			duts = []string{""}
		}
		var snapshots []sqlite.OutletSnapshot
		for _, dut := range duts {
			found, err := sqlite.GetOutletSnapshots(viper.GetString("cache"), dut)
			if err != nil {
				log.Error().Err(err).Msg("failed to read outlet snapshots")
				continue
			}
			snapshots = append(snapshots, found...)
		}
		b, err := format.Marshal(snapshots, cacheFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var cacheRemoveCmd = &cobra.Command{
	Use:   "remove <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Remove cached snapshots for DUTs.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, dut := range args {
			if err := sqlite.DeleteOutletSnapshots(viper.GetString("cache"), dut); err != nil {
				log.Error().Err(err).Msgf("failed to remove snapshots for %s", dut)
			}
		}
	},
}

func init() {
	cacheListCmd.Flags().VarP(&cacheFormat, "format", "F", "Set the output format (json|yaml)")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheRemoveCmd)
	rootCmd.AddCommand(cacheCmd)
}
