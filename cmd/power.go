package cmd

import (
	"fmt"
	"sync"
	"time"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	"github.com/Xichen96/sonic-mgmt/internal/cache/sqlite"
	"github.com/Xichen96/sonic-mgmt/internal/format"
	"github.com/Xichen96/sonic-mgmt/internal/util"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/cznic/mathutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	username string
	password string
	community string

	targetPsu    string
	targetFeed   string
	targetOutlet string

	statusFormat format.DataFormat = format.FORMAT_JSON
)

// The `power` command controls and inspects outlet power for devices under
// test. Subcommands take DUT hostnames as positional arguments; the PDUs
// feeding each DUT are resolved from connection graph facts, falling back
// to the lab inventory.
var powerCmd = &cobra.Command{
	Use: "power",
	Example: `  // turn off every outlet feeding a DUT, then restore power
  sonic-mgmt power cycle dut-2020
  // turn off one specific outlet
  sonic-mgmt power off dut-2020 --psu PSU1 --feed A --outlet .1.2.3
  // fetch live outlet status for several DUTs
  sonic-mgmt power status dut-2020 dut-2021 dut-2022`,
	Short: "Control and inspect DUT outlet power",
	Long:  "Turn DUT power outlets on or off, power-cycle them, and query their live status.\nOperations target every outlet feeding the DUT unless narrowed with the --psu/--feed/--outlet flags.",
}

var powerOnCmd = &cobra.Command{
	Use:   "on <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Turn DUT outlets on",
	RunE:  runPowerSwitch("on"),
}

var powerOffCmd = &cobra.Command{
	Use:   "off <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Turn DUT outlets off",
	RunE:  runPowerSwitch("off"),
}

var powerCycleCmd = &cobra.Command{
	Use:   "cycle <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Turn DUT outlets off, wait, then turn them back on",
	RunE:  runPowerSwitch("cycle"),
}

var powerStatusCmd = &cobra.Command{
	Use:   "status <dut>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Query live outlet status for DUTs",
	RunE: func(cmd *cobra.Command, args []string) error {
		facts := sonicmgmt.LoadLabFacts(
			viper.GetString("topology-file"),
			viper.GetString("inventory-file"),
			viper.GetString("pduvars-file"),
		)
		store := util.BuildSecretStore()

		status := make(map[string][]pdu.OutletDescriptor, len(args))
		var mu sync.Mutex
		results := concurrentHelper(clampedConcurrency(len(args)), args, func(dut string) string {
			manager := sonicmgmt.BuildPduManager(dut, facts, store)
			if manager == nil {
				return "no usable PDU configuration"
			}
			defer manager.Close()

			outlets, err := sonicmgmt.QueryOutletStatus(manager, describedOutlet())
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}
			mu.Lock()
			status[dut] = outlets
			mu.Unlock()
			return fmt.Sprintf("%d outlets", len(outlets))
		})

		// Persist snapshots so runs can be compared without hitting the
		// hardware again. See the `cache` command.
		if !viper.GetBool("power.disable-caching") {
			for dut, outlets := range status {
				if len(outlets) == 0 {
					continue
				}
				if err := sqlite.InsertOutletSnapshots(viper.GetString("cache"), dut, outlets...); err != nil {
					log.Warn().Err(err).Msgf("failed to cache outlet snapshots for %s", dut)
				}
			}
		}

		b, err := format.Marshal(status, statusFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		for dut, result := range results {
			log.Debug().Msgf("%s: %s", dut, result)
		}
		return nil
	},
}

// runPowerSwitch builds the shared RunE for the on/off/cycle subcommands.
// Each DUT is processed by its own worker; outlets of one DUT are switched
// serially so per-manager ordering stays deterministic.
func runPowerSwitch(action string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		facts := sonicmgmt.LoadLabFacts(
			viper.GetString("topology-file"),
			viper.GetString("inventory-file"),
			viper.GetString("pduvars-file"),
		)
		store := util.BuildSecretStore()
		cycleDelay := time.Duration(viper.GetInt("power.cycle-delay")) * time.Second

		results := concurrentHelper(clampedConcurrency(len(args)), args, func(dut string) string {
			manager := sonicmgmt.BuildPduManager(dut, facts, store)
			if manager == nil {
				return "no usable PDU configuration"
			}
			defer manager.Close()

			ok, err := sonicmgmt.RunPowerSwitch(manager, action, describedOutlet(), cycleDelay)
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}
			if !ok {
				return "failed"
			}
			return "success"
		})
		for dut, result := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\t%s\n", dut, result)
		}
		return nil
	}
}

// describedOutlet turns the --psu/--feed/--outlet flags into an outlet
// descriptor, or nil when none are set and the whole DUT is targeted.
func describedOutlet() *pdu.OutletDescriptor {
	if targetPsu == "" && targetFeed == "" && targetOutlet == "" {
		return nil
	}
	return &pdu.OutletDescriptor{
		PsuName:  targetPsu,
		FeedName: targetFeed,
		OutletID: targetOutlet,
	}
}

// clampedConcurrency resolves worker count from the -j flag, defaulting to
// one worker per DUT.
func clampedConcurrency(targets int) int {
	concurrency := viper.GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = mathutil.Clamp(targets, 1, 255)
	}
	return concurrency
}

func concurrentHelper(concurrency int, targets []string, runner func(string) string) map[string]string {
	type dutResult struct {
		Dut    string
		Result string
	}
	dataChannel := make(chan string, 1)
	returnChannel := make(chan dutResult, concurrency)
	results := make(map[string]string, len(targets))
	var wg sync.WaitGroup

	// Worker threads
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			for {
				// Get next work item, if any
				target, ok := <-dataChannel
				if !ok {
					wg.Done()
					return
				}
				// Perform work and return result
				returnChannel <- dutResult{target, runner(target)}
			}
		}()
	}
	// Receive worker results
	go func() {
		for {
			info, ok := <-returnChannel
			if !ok {
				break
			}
			results[info.Dut] = info.Result
		}
		wg.Done()
	}()

	// Dispatch data and wait for processing completion
	for i := range targets {
		dataChannel <- targets[i]
	}
	close(dataChannel)
	wg.Wait()
	// Ensure the receiver thread has also finished
	wg.Add(1)
	close(returnChannel)
	wg.Wait()

	return results
}

func init() {
	powerCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "Set the master device username")
	powerCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "Set the master device password")
	powerCmd.PersistentFlags().StringVar(&community, "community", "", "Set the master SNMP community string")
	powerCmd.PersistentFlags().String("secrets-file", "secrets.json", "Set the path to the device secrets file")
	powerCmd.PersistentFlags().StringVar(&targetPsu, "psu", "", "Narrow the operation to outlets of one PSU")
	powerCmd.PersistentFlags().StringVar(&targetFeed, "feed", "", "Narrow the operation to one feed of the PSU")
	powerCmd.PersistentFlags().StringVar(&targetOutlet, "outlet", "", "Narrow the operation to one outlet ID")
	powerCycleCmd.Flags().Int("delay", 5, "Seconds to wait between power off and power on")
	powerStatusCmd.Flags().VarP(&statusFormat, "format", "F", "Set the output format (json|yaml)")
	powerStatusCmd.Flags().Bool("disable-caching", false, "Skip writing outlet snapshots to the cache")

	checkBindFlagError(viper.BindPFlag("username", powerCmd.PersistentFlags().Lookup("username")))
	checkBindFlagError(viper.BindPFlag("password", powerCmd.PersistentFlags().Lookup("password")))
	checkBindFlagError(viper.BindPFlag("community", powerCmd.PersistentFlags().Lookup("community")))
	checkBindFlagError(viper.BindPFlag("secrets.file", powerCmd.PersistentFlags().Lookup("secrets-file")))
	checkBindFlagError(viper.BindPFlag("power.cycle-delay", powerCycleCmd.Flags().Lookup("delay")))
	checkBindFlagError(viper.BindPFlag("power.disable-caching", powerStatusCmd.Flags().Lookup("disable-caching")))

	powerCmd.AddCommand(powerOnCmd)
	powerCmd.AddCommand(powerOffCmd)
	powerCmd.AddCommand(powerCycleCmd)
	powerCmd.AddCommand(powerStatusCmd)
	rootCmd.AddCommand(powerCmd)
}
