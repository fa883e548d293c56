package sonicmgmt

import (
	"fmt"
	"time"

	"github.com/Xichen96/sonic-mgmt/pkg/device"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu/snmp"
	"github.com/Xichen96/sonic-mgmt/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// LabFacts bundles the data sources consulted to resolve the power topology
// of a DUT: connection graph facts, the PDU host inventory, and the vendor
// credential parameters. Each source is optional; the factory decides which
// one to use per DUT.
type LabFacts struct {
	Topology *pdu.TopologyFacts
	PduHosts map[string]pdu.InventoryHost
	PduVars  pdu.PduVars
}

// LoadLabFacts reads the three facts files. A missing or unreadable file is
// logged and leaves that source empty rather than failing the whole load, so
// labs that only maintain an inventory still work.
func LoadLabFacts(topologyFile string, inventoryFile string, pduVarsFile string) *LabFacts {
	facts := &LabFacts{PduVars: pdu.PduVars{}}
	if topologyFile != "" {
		topology, err := pdu.LoadTopologyFacts(topologyFile)
		if err != nil {
			log.Warn().Err(err).Msgf("failed to load connection graph facts from %s", topologyFile)
		} else {
			facts.Topology = topology
		}
	}
	if inventoryFile != "" {
		hosts, err := pdu.LoadInventory(inventoryFile)
		if err != nil {
			log.Warn().Err(err).Msgf("failed to load PDU inventory from %s", inventoryFile)
		} else {
			facts.PduHosts = hosts
		}
	}
	if pduVarsFile != "" {
		vars, err := pdu.LoadPduVars(pduVarsFile)
		if err != nil {
			log.Warn().Err(err).Msgf("failed to load PDU vendor vars from %s", pduVarsFile)
		} else {
			facts.PduVars = vars
		}
	}
	return facts
}

// SnmpControllerBuilder returns a controller builder backed by the SNMP
// drivers. Vendor vars missing a community string are filled in from the
// secret store, keyed by the PDU management IP with a "default" fallback.
func SnmpControllerBuilder(store secrets.SecretStore) pdu.ControllerBuilder {
	return func(ip string, vars pdu.VendorVars, hwsku string, pduType string) pdu.OutletController {
		if vars["snmp_rwcommunity"] == "" && vars["community"] == "" {
			creds, err := device.GetCredentials(store, ip)
			if err != nil {
				log.Debug().Err(err).Msgf("no stored credentials for PDU %s", ip)
			} else if creds.Community != "" {
				merged := pdu.VendorVars{"community": creds.Community}
				for k, v := range vars {
					merged[k] = v
				}
				vars = merged
			}
		}
		return snmp.GetPduController(ip, vars, hwsku, pduType)
	}
}

// BuildPduManager resolves the power topology for one DUT. Returns nil when
// neither graph nor inventory data yields a usable PDU configuration, in
// which case the DUT simply cannot be power-cycled from here.
func BuildPduManager(dutHostname string, facts *LabFacts, store secrets.SecretStore) *pdu.PduManager {
	return pdu.PduManagerFactory(dutHostname, facts.PduHosts, facts.Topology, facts.PduVars, SnmpControllerBuilder(store))
}

// RunPowerSwitch applies an on, off, or power-cycle operation to one DUT.
// The outlet argument narrows the operation to a single outlet; nil targets
// every outlet feeding the DUT. Returns false when any targeted outlet could
// not be switched.
func RunPowerSwitch(manager *pdu.PduManager, action string, outlet *pdu.OutletDescriptor, cycleDelay time.Duration) (bool, error) {
	switch action {
	case "on":
		return manager.TurnOnOutlet(outlet)
	case "off":
		return manager.TurnOffOutlet(outlet)
	case "cycle":
		offOk, err := manager.TurnOffOutlet(outlet)
		if err != nil {
			return false, err
		}
		log.Info().Msgf("waiting %v before restoring power to %s", cycleDelay, manager.DutHostname)
		time.Sleep(cycleDelay)
		onOk, err := manager.TurnOnOutlet(outlet)
		if err != nil {
			return false, err
		}
		return offOk && onOk, nil
	}
	return false, fmt.Errorf("unknown power action %q", action)
}

// QueryOutletStatus fetches live outlet status for one DUT, either for a
// single outlet or for every outlet feeding it.
func QueryOutletStatus(manager *pdu.PduManager, outlet *pdu.OutletDescriptor) ([]pdu.OutletDescriptor, error) {
	return manager.GetOutletStatus(outlet)
}
