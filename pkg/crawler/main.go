package crawler

import (
	"fmt"
	"strings"

	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/common"
)

type CrawlerConfig struct {
	URI      string // URI of the PDU's Redfish endpoint
	Username string // Username for the PDU
	Password string // Password for the PDU
	Insecure bool   // Whether to ignore SSL errors
}

// CrawlPDU pulls inventory from a Redfish-capable rack PDU. Such PDUs
// expose their outlet banks as power supply entries under Chassis/Power,
// one entry per bank. Accepts a CrawlerConfig and returns one PDUInventory
// per connected endpoint.
func CrawlPDU(config CrawlerConfig) (*pdu.PDUInventory, error) {
	client, err := gofish.Connect(gofish.ClientConfig{
		Endpoint:  config.URI,
		Username:  config.Username,
		Password:  config.Password,
		Insecure:  config.Insecure,
		BasicAuth: true,
	})
	if err != nil {
		return nil, err
	}
	defer client.Logout()

	service := client.GetService()
	chassis, err := service.Chassis()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chassis collection: %v", err)
	}
	if len(chassis) == 0 {
		return nil, fmt.Errorf("no chassis found at %s", config.URI)
	}

	inventory := &pdu.PDUInventory{
		Hostname:     config.URI,
		Model:        chassis[0].Model,
		SerialNumber: chassis[0].SerialNumber,
	}
	for _, ch := range chassis {
		power, err := ch.Power()
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve power info for chassis %s: %v", ch.ID, err)
		}
		if power == nil {
			continue
		}
		for i := range power.PowerSupplies {
			supply := &power.PowerSupplies[i]
			if inventory.FirmwareVersion == "" {
				inventory.FirmwareVersion = supply.FirmwareVersion
			}
			inventory.Outlets = append(inventory.Outlets, pdu.PDUOutlet{
				ID:         supply.MemberID,
				Name:       supply.Name,
				PowerState: bankPowerState(supply.Status),
			})
		}
	}
	return inventory, nil
}

// bankPowerState maps a Redfish status to the ON/OFF vocabulary the rest of
// the inventory reporting uses.
func bankPowerState(status common.Status) string {
	if strings.EqualFold(string(status.State), "Enabled") {
		return "ON"
	}
	return "OFF"
}
