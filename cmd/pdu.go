package cmd

import (
	"fmt"
	"time"

	"github.com/Xichen96/sonic-mgmt/internal/format"
	"github.com/Xichen96/sonic-mgmt/internal/util"
	"github.com/Xichen96/sonic-mgmt/pkg/crawler"
	"github.com/Xichen96/sonic-mgmt/pkg/jaws"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	crawlDriver   string
	crawlInsecure bool
	crawlFormat   format.DataFormat = format.FORMAT_JSON
)

var pduCmd = &cobra.Command{
	Use:   "pdu",
	Short: "Perform actions on Power Distribution Units (PDUs)",
	Long:  `A collection of commands to inspect the PDUs themselves, independent of any DUT power topology.`,
}

// The `pdu crawl` command connects to PDU management interfaces directly and
// collects their hardware inventory: model, serial, firmware, and per-outlet
// name and power state. Useful for auditing what a PDU reports against what
// the connection graph claims.
var pduCrawlCmd = &cobra.Command{
	Use: "crawl <host>...",
	Example: `  // crawl a Sentry PDU over its JAWS REST API
  sonic-mgmt pdu crawl https://pdu-107 -u admn -p PASS
  // crawl a Redfish-capable PDU
  sonic-mgmt pdu crawl https://pdu-108 --driver redfish -u admin -p PASS`,
	Args:  cobra.MinimumNArgs(1),
	Short: "Collect inventory from PDU management interfaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout := time.Duration(viper.GetInt("timeout")) * time.Second
		inventories := make([]*pdu.PDUInventory, 0, len(args))
		errList := make([]error, 0, len(args))
		for _, host := range args {
			var (
				inventory *pdu.PDUInventory
				err       error
			)
			switch crawlDriver {
			case "jaws":
				inventory, err = jaws.CrawlPDU(jaws.CrawlerConfig{
					URI:      host,
					Username: username,
					Password: password,
					Insecure: crawlInsecure,
					Timeout:  timeout,
				})
			case "redfish":
				inventory, err = crawler.CrawlPDU(crawler.CrawlerConfig{
					URI:      host,
					Username: username,
					Password: password,
					Insecure: crawlInsecure,
				})
			default:
				return fmt.Errorf("unknown crawl driver %q (expected jaws or redfish)", crawlDriver)
			}
			if err != nil {
				log.Error().Err(err).Msgf("failed to crawl PDU %s", host)
				errList = append(errList, err)
				continue
			}
			inventories = append(inventories, inventory)
		}

		b, err := format.Marshal(inventories, crawlFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		if util.HasErrors(errList) {
			return util.FormatErrorList(errList)
		}
		return nil
	},
}

func init() {
	pduCrawlCmd.Flags().StringVarP(&username, "username", "u", "", "Set the PDU username")
	pduCrawlCmd.Flags().StringVarP(&password, "password", "p", "", "Set the PDU password")
	pduCrawlCmd.Flags().StringVar(&crawlDriver, "driver", "jaws", "Set the crawl driver (jaws|redfish)")
	pduCrawlCmd.Flags().BoolVarP(&crawlInsecure, "insecure", "i", true, "Ignore SSL errors")
	pduCrawlCmd.Flags().VarP(&crawlFormat, "format", "F", "Set the output format (json|yaml)")

	pduCmd.AddCommand(pduCrawlCmd)
	rootCmd.AddCommand(pduCmd)
}
