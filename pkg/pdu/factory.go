package pdu

import (
	"github.com/rs/zerolog/log"
)

const (
	// InventoryFeedName is the synthetic feed name used for managers built
	// from inventory data, which has no feed granularity.
	InventoryFeedName = "N/A"

	// DefaultVarsKey is the PduVars entry consulted when no entry exists
	// for a PDU host resolved from inventory.
	DefaultVarsKey = "default"
)

// PduManagerFactory builds a PduManager for the DUT by trying topology
// sources in order of preference: connection graph data first (per-feed,
// per-outlet detail), then the lab inventory as a degraded fallback. The
// first source yielding at least one usable PSU wins.
//
// Returns nil when neither source yields a usable PSU. Callers must treat
// that as "power-cycle capability unavailable" for this DUT, not as a
// fatal error.
func PduManagerFactory(dutHostname string, pduHosts map[string]InventoryHost, facts *TopologyFacts, pduVars PduVars, builder ControllerBuilder) *PduManager {
	log.Info().Msgf("creating pdu manager for %s", dutHostname)
	pool := NewControllerPool(builder)
	manager := NewPduManager(dutHostname, pool)

	sources := []struct {
		name  string
		build func() bool
	}{
		{"graph", func() bool { return buildFromGraph(manager, facts, pduVars) }},
		{"inventory", func() bool { return buildFromInventory(manager, pduHosts, pduVars) }},
	}
	for _, source := range sources {
		if source.build() {
			log.Info().Msgf("pdu manager for %s built from %s data", dutHostname, source.name)
			return manager
		}
	}

	// Feeds may have opened controller connections before their build
	// failed; release them before reporting no usable configuration.
	pool.Close()
	log.Info().Msgf("no usable PDU configuration found for %s", dutHostname)
	return nil
}

func buildFromGraph(manager *PduManager, facts *TopologyFacts, pduVars PduVars) bool {
	log.Info().Msg("creating pdu manager from graph information")
	if facts == nil {
		return false
	}
	links := facts.DevicePduLinks[manager.DutHostname]
	if len(links) == 0 {
		log.Info().Msgf("PDU information for %s is not found in graph", manager.DutHostname)
		return false
	}
	for psuName, feedPeers := range links {
		manager.AddController(psuName, feedPeers, pduVars[psuName])
	}
	return len(manager.PSUs) > 0
}

func buildFromInventory(manager *PduManager, pduHosts map[string]InventoryHost, pduVars PduVars) bool {
	log.Info().Msg("creating pdu manager from inventory information")
	if len(pduHosts) == 0 {
		log.Info().Msgf("no PDU inventory information available for %s", manager.DutHostname)
		return false
	}
	for host, inventory := range pduHosts {
		if inventory.AnsibleHost == "" {
			log.Warn().Msgf("no ansible_host defined in inventory for %q, skipping", host)
			continue
		}
		protocol := inventory.Protocol
		if protocol == "" {
			log.Info().Msgf("no protocol defined in inventory for %q, using default %q", host, ProtocolSNMP)
			protocol = ProtocolSNMP
		}

		// The inventory does not model feeds, so the whole PDU host becomes
		// one PSU with a single probing feed.
		feedPeers := map[string]PeerInfo{
			InventoryFeedName: {
				PeerDevice:   host,
				HwSku:        "unknown",
				Protocol:     protocol,
				ManagementIP: inventory.AnsibleHost,
				Type:         "Pdu",
				PeerPort:     ProbingPort,
			},
		}
		manager.AddController(host, feedPeers, inventoryVars(pduVars, host))
	}
	return len(manager.PSUs) > 0
}

// inventoryVars resolves vendor vars for a PDU host found in inventory.
// Entries are keyed by the host name like graph entries are keyed by psu
// name; hosts without an entry fall back to the "default" entry.
func inventoryVars(pduVars PduVars, host string) map[string]VendorVars {
	if vars, ok := pduVars[host]; ok {
		return vars
	}
	return pduVars[DefaultVarsKey]
}
