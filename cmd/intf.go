package cmd

import (
	"fmt"
	"os"
	"time"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	"github.com/Xichen96/sonic-mgmt/internal/format"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	intfNames    []string
	intfXcvrSkip []string
	intfExpectUp bool
	portMapsFile string
)

var intfCmd = &cobra.Command{
	Use:   "intf",
	Short: "Verify DUT interface status over SSH",
}

// The `intf check` command connects to DUTs over SSH and verifies that the
// given interfaces are oper/admin up (or down with --expect-up=false).
// Interfaces listed in --xcvr-skip are excluded when no transceiver is
// present.
var intfCheckCmd = &cobra.Command{
	Use: "check <dut-host>...",
	Example: `  // check that two interfaces came up after a power cycle
  sonic-mgmt intf check dut-2020 -u admin -p PASS --interfaces Ethernet0,Ethernet4
  // multi-ASIC DUT with per-asic port maps
  sonic-mgmt intf check dut-2020 --port-maps portmaps.yaml --interfaces Ethernet0`,
	Args:  cobra.MinimumNArgs(1),
	Short: "Check interface oper/admin status on DUTs",
	RunE: func(cmd *cobra.Command, args []string) error {
		var portMaps map[int]map[string][]int
		if portMapsFile != "" {
			if err := loadDataFile(portMapsFile, &portMaps); err != nil {
				return fmt.Errorf("failed to load port maps: %w", err)
			}
		}

		timeout := time.Duration(viper.GetInt("timeout")) * time.Second
		allOk := true
		for _, host := range args {
			p := &sonicmgmt.IntfCheckParams{
				Host:       host,
				Username:   username,
				Password:   password,
				Timeout:    timeout,
				Interfaces: intfNames,
				ExpectedUp: intfExpectUp,
				XcvrSkip:   intfXcvrSkip,
				PortMaps:   portMaps,
			}
			ok, err := sonicmgmt.CheckDutInterfaces(p)
			if err != nil {
				log.Error().Err(err).Msgf("interface check failed to run on %s", host)
				allOk = false
				continue
			}
			if !ok {
				allOk = false
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\t%v\n", host, ok)
		}
		if !allOk {
			return fmt.Errorf("interface status check failed")
		}
		return nil
	},
}

func loadDataFile(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return format.Unmarshal(b, v, format.DataFormatFromFileExt(path, format.FORMAT_YAML))
}

func init() {
	intfCheckCmd.Flags().StringVarP(&username, "username", "u", "", "Set the DUT SSH username")
	intfCheckCmd.Flags().StringVarP(&password, "password", "p", "", "Set the DUT SSH password")
	intfCheckCmd.Flags().StringSliceVar(&intfNames, "interfaces", []string{}, "Set the interfaces to check (default: all reported)")
	intfCheckCmd.Flags().StringSliceVar(&intfXcvrSkip, "xcvr-skip", []string{}, "Interfaces to skip when no transceiver is present")
	intfCheckCmd.Flags().BoolVar(&intfExpectUp, "expect-up", true, "Expect interfaces to be oper/admin up")
	intfCheckCmd.Flags().StringVar(&portMapsFile, "port-maps", "", "Per-ASIC port map file for multi-ASIC DUTs")

	checkBindFlagError(viper.BindPFlag("intf.expect-up", intfCheckCmd.Flags().Lookup("expect-up")))

	intfCmd.AddCommand(intfCheckCmd)
	rootCmd.AddCommand(intfCmd)
}
