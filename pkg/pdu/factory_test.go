package pdu

import (
	"testing"
)

func TestFactoryPrefersGraphData(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
		"10.0.0.2": {outlets: []string{".1"}},
	}}
	facts := &TopologyFacts{DevicePduLinks: map[string]map[string]map[string]PeerInfo{
		"dut-1": {
			"PSU1": {"A": graphPeer("pdu-1", "10.0.0.1", "1")},
		},
	}}
	// Inventory is also valid; graph data must still win.
	inventory := map[string]InventoryHost{
		"pdu-2": {AnsibleHost: "10.0.0.2"},
	}

	manager := PduManagerFactory("dut-1", inventory, facts, nil, builder.build)
	if manager == nil {
		t.Fatal("factory returned no manager")
	}
	defer manager.Close()
	if _, ok := manager.PSUs["PSU1"]; !ok {
		t.Error("graph PSU missing from manager")
	}
	if _, ok := manager.PSUs["pdu-2"]; ok {
		t.Error("inventory PSU present although graph data was usable")
	}
}

func TestFactoryFallsBackToInventory(t *testing.T) {
	controller := &fakeController{outlets: []string{".1", ".2"}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.2": controller,
	}}
	// Graph has no entry for this DUT.
	facts := &TopologyFacts{DevicePduLinks: map[string]map[string]map[string]PeerInfo{}}
	inventory := map[string]InventoryHost{
		"pdu-2":  {AnsibleHost: "10.0.0.2"}, // protocol omitted, defaults to snmp
		"pdu-99": {},                        // no ansible_host, skipped with a warning
	}

	manager := PduManagerFactory("dut-1", inventory, facts, nil, builder.build)
	if manager == nil {
		t.Fatal("factory returned no manager")
	}
	defer manager.Close()

	psu, ok := manager.PSUs["pdu-2"]
	if !ok {
		t.Fatal("inventory PSU missing from manager")
	}
	feed, ok := psu.feeds[InventoryFeedName]
	if !ok {
		t.Fatalf("expected synthesized feed %q, have %v", InventoryFeedName, sortedKeys(psu.feeds))
	}
	// Probing peerport queries the whole outlet table.
	if len(feed.outlets) != 2 {
		t.Errorf("expected 2 probed outlets, got %d", len(feed.outlets))
	}
	for _, outlet := range feed.outlets {
		if outlet.PduName != "pdu-2" {
			t.Errorf("outlet tagged with pdu_name %q, want %q", outlet.PduName, "pdu-2")
		}
	}
}

func TestFactoryInventoryVarsLookup(t *testing.T) {
	var seenVars []VendorVars
	builder := func(ip string, vars VendorVars, hwsku string, pduType string) OutletController {
		seenVars = append(seenVars, vars)
		return &fakeController{outlets: []string{".1"}}
	}
	inventory := map[string]InventoryHost{
		"pdu-known":   {AnsibleHost: "10.0.0.1"},
		"pdu-unknown": {AnsibleHost: "10.0.0.2"},
	}
	pduVars := PduVars{
		"pdu-known":    {InventoryFeedName: {"community": "specific"}},
		DefaultVarsKey: {InventoryFeedName: {"community": "fallback"}},
	}

	manager := PduManagerFactory("dut-1", inventory, nil, pduVars, builder)
	if manager == nil {
		t.Fatal("factory returned no manager")
	}
	defer manager.Close()

	communities := map[string]bool{}
	for _, vars := range seenVars {
		communities[vars["community"]] = true
	}
	if !communities["specific"] || !communities["fallback"] {
		t.Errorf("expected both specific and fallback vars to be used, saw %v", communities)
	}
}

func TestFactoryNoUsableConfiguration(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{}}
	facts := &TopologyFacts{DevicePduLinks: map[string]map[string]map[string]PeerInfo{
		"dut-1": {
			// Feed present in the graph but its controller cannot be built.
			"PSU1": {"A": graphPeer("pdu-1", "10.0.0.1", "1")},
		},
	}}
	inventory := map[string]InventoryHost{
		"pdu-99": {}, // unusable, no ansible_host
	}

	if manager := PduManagerFactory("dut-1", inventory, facts, nil, builder.build); manager != nil {
		t.Error("factory returned a manager although no source yielded a usable PSU")
	}
}
