package pdu

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, name string, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadTopologyFactsYAML(t *testing.T) {
	path := writeTestFile(t, "graph.yaml", `
device_pdu_links:
  dut-2020:
    PSU1:
      A:
        Hostname: pdu-107
        peerdevice: pdu-107
        HwSku: Sentry
        ManagementIp: 10.0.0.107
        Protocol: snmp
        Type: Pdu
        peerport: "33"
`)
	facts, err := LoadTopologyFacts(path)
	if err != nil {
		t.Fatalf("expected graph facts to load, got %v", err)
	}
	peer, ok := facts.DevicePduLinks["dut-2020"]["PSU1"]["A"]
	if !ok {
		t.Fatalf("expected a peer entry for dut-2020/PSU1/A")
	}
	if peer.Hostname != "pdu-107" {
		t.Errorf("expected hostname pdu-107, got %q", peer.Hostname)
	}
	if peer.ManagementIP != "10.0.0.107" {
		t.Errorf("expected management ip 10.0.0.107, got %q", peer.ManagementIP)
	}
	if peer.PeerPort != "33" {
		t.Errorf("expected peerport 33, got %q", peer.PeerPort)
	}
}

func TestLoadInventoryJSON(t *testing.T) {
	path := writeTestFile(t, "inventory.json", `{
  "pdu-107": {"ansible_host": "10.0.0.107", "protocol": "snmp"},
  "pdu-108": {"ansible_host": "10.0.0.108"}
}`)
	hosts, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("expected inventory to load, got %v", err)
	}
	if hosts["pdu-107"].AnsibleHost != "10.0.0.107" {
		t.Errorf("expected pdu-107 ansible_host 10.0.0.107, got %q", hosts["pdu-107"].AnsibleHost)
	}
	if hosts["pdu-108"].Protocol != "" {
		t.Errorf("expected pdu-108 protocol empty, got %q", hosts["pdu-108"].Protocol)
	}
}

func TestLoadPduVars(t *testing.T) {
	path := writeTestFile(t, "pdu_vars.yaml", `
PSU1:
  A:
    community: private
default:
  N/A:
    community: public
`)
	vars, err := LoadPduVars(path)
	if err != nil {
		t.Fatalf("expected pdu vars to load, got %v", err)
	}
	if vars["PSU1"]["A"]["community"] != "private" {
		t.Errorf("expected PSU1/A community private, got %q", vars["PSU1"]["A"]["community"])
	}
	if vars[DefaultVarsKey][InventoryFeedName]["community"] != "public" {
		t.Errorf("expected default community public, got %q", vars[DefaultVarsKey][InventoryFeedName]["community"])
	}
}

func TestLoadFactsMissingFile(t *testing.T) {
	if _, err := LoadTopologyFacts("/nonexistent/graph.yaml"); err == nil {
		t.Errorf("expected an error for a missing facts file")
	}
}

func TestPeerInfoPduName(t *testing.T) {
	withHostname := PeerInfo{Hostname: "pdu-107", PeerDevice: "other"}
	if withHostname.PduName() != "pdu-107" {
		t.Errorf("expected hostname to win, got %q", withHostname.PduName())
	}
	withoutHostname := PeerInfo{PeerDevice: "pdu-108"}
	if withoutHostname.PduName() != "pdu-108" {
		t.Errorf("expected peerdevice fallback, got %q", withoutHostname.PduName())
	}
}
