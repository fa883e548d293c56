package cmd

import (
	"fmt"
	"os"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	"github.com/Xichen96/sonic-mgmt/internal/format"
	"github.com/Xichen96/sonic-mgmt/internal/util"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var topologyFormat format.DataFormat = format.FORMAT_YAML

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Inspect resolved DUT power topology",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) <= 0 {
			cmd.Help()
			os.Exit(0)
		}
	},
}

// The `topology show` command resolves the power topology for DUTs the same
// way the power commands do, but only prints the outlets discovered at build
// time without touching their state.
var topologyShowCmd = &cobra.Command{
	Use:   "show <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Show which PDU outlets feed each DUT",
	RunE: func(cmd *cobra.Command, args []string) error {
		facts := sonicmgmt.LoadLabFacts(
			viper.GetString("topology-file"),
			viper.GetString("inventory-file"),
			viper.GetString("pduvars-file"),
		)
		store := util.BuildSecretStore()

		resolved := make(map[string][]pdu.OutletDescriptor, len(args))
		for _, dut := range args {
			manager := sonicmgmt.BuildPduManager(dut, facts, store)
			if manager == nil {
				resolved[dut] = nil
				continue
			}
			resolved[dut] = manager.Outlets()
			manager.Close()
		}

		b, err := format.Marshal(resolved, topologyFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	topologyShowCmd.Flags().VarP(&topologyFormat, "format", "F", "Set the output format (json|yaml)")
	topologyCmd.AddCommand(topologyShowCmd)
	rootCmd.AddCommand(topologyCmd)
}
