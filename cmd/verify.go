package cmd

import (
	"fmt"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	"github.com/go-logr/logr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verifyPort         int
	verifyPreferred    string
	verifyIpmitoolPath string
)

// The `power verify` command double-checks an outlet operation from the
// device side: after switching outlets, ask the DUT's BMC what the chassis
// power state actually is. Args are BMC hosts, not DUT hostnames, since the
// BMC stays reachable while the DUT itself is down.
var powerVerifyCmd = &cobra.Command{
	Use: "verify <bmc-host>...",
	Example: `  // confirm a DUT actually lost power after 'power off'
  sonic-mgmt power verify 10.250.0.20 -u admin -p PASS
  // prefer IPMI over redfish
  sonic-mgmt power verify 10.250.0.20 --drivers ipmi --preferred ipmi`,
	Args:  cobra.MinimumNArgs(1),
	Short: "Verify DUT chassis power state through its BMC",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logr.Discard()
		for _, host := range args {
			q := &sonicmgmt.BmcQueryParams{
				Host:         host,
				Port:         verifyPort,
				User:         viper.GetString("username"),
				Pass:         viper.GetString("password"),
				Drivers:      viper.GetStringSlice("verify.drivers"),
				Preferred:    verifyPreferred,
				Timeout:      viper.GetInt("timeout"),
				CertPoolFile: viper.GetString("verify.cacert"),
				IpmitoolPath: verifyIpmitoolPath,
			}
			client, err := sonicmgmt.NewBmcClient(&l, q)
			if err != nil {
				log.Error().Err(err).Msgf("failed to create BMC client for %s", host)
				continue
			}
			b, err := sonicmgmt.QueryDutPowerState(client, q)
			if err != nil {
				log.Error().Err(err).Msgf("failed to query power state of %s", host)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
		return nil
	},
}

func init() {
	powerVerifyCmd.Flags().IntVar(&verifyPort, "port", 443, "Set the BMC redfish port")
	powerVerifyCmd.Flags().StringSlice("drivers", []string{"redfish"}, "Set the BMC drivers to try (ipmi|gofish|redfish)")
	powerVerifyCmd.Flags().StringVar(&verifyPreferred, "preferred", "redfish", "Set the preferred BMC driver")
	powerVerifyCmd.Flags().String("cacert", "", "Set the path to CA cert file (defaults to system CAs when blank)")
	powerVerifyCmd.Flags().StringVar(&verifyIpmitoolPath, "ipmitool-path", "/usr/bin/ipmitool", "Set the path to the ipmitool binary")

	checkBindFlagError(viper.BindPFlag("verify.drivers", powerVerifyCmd.Flags().Lookup("drivers")))
	checkBindFlagError(viper.BindPFlag("verify.cacert", powerVerifyCmd.Flags().Lookup("cacert")))

	powerCmd.AddCommand(powerVerifyCmd)
}
