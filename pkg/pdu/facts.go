package pdu

import (
	"fmt"
	"os"

	"github.com/Xichen96/sonic-mgmt/internal/format"
)

// VendorVars carries opaque driver parameters (SNMP community strings and
// the like) for one feed. The aggregation layer never inspects them; they
// are handed to the ControllerBuilder as-is.
type VendorVars map[string]string

// PduVars maps psu name -> feed name -> vendor vars. For managers built
// from inventory data the psu name is the PDU host name and the only feed
// is InventoryFeedName.
type PduVars map[string]map[string]VendorVars

// PeerInfo describes the PDU side of one power feed, as recorded in the
// connection graph. The field names mirror the graph facts so YAML/JSON
// graph dumps unmarshal directly.
type PeerInfo struct {
	Hostname     string `json:"Hostname,omitempty" yaml:"Hostname,omitempty"`
	PeerDevice   string `json:"peerdevice,omitempty" yaml:"peerdevice,omitempty"`
	HwSku        string `json:"HwSku,omitempty" yaml:"HwSku,omitempty"`
	ManagementIP string `json:"ManagementIp,omitempty" yaml:"ManagementIp,omitempty"`
	Protocol     string `json:"Protocol,omitempty" yaml:"Protocol,omitempty"`
	Type         string `json:"Type,omitempty" yaml:"Type,omitempty"`
	PeerPort     string `json:"peerport,omitempty" yaml:"peerport,omitempty"`
}

// PduName returns the name to tag outlets with. Graph entries carry a
// Hostname; inventory entries only know the peer device name.
func (p *PeerInfo) PduName() string {
	if p.Hostname != "" {
		return p.Hostname
	}
	return p.PeerDevice
}

// TopologyFacts is the slice of the connection graph this layer consumes:
// device_pdu_links[dut][psu][feed] -> PeerInfo.
type TopologyFacts struct {
	DevicePduLinks map[string]map[string]map[string]PeerInfo `json:"device_pdu_links" yaml:"device_pdu_links"`
}

// InventoryHost is the per-PDU-host record from the lab inventory. The
// inventory has no feed or outlet granularity.
type InventoryHost struct {
	AnsibleHost string `json:"ansible_host" yaml:"ansible_host"`
	Protocol    string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// LoadTopologyFacts reads connection graph facts from a YAML or JSON file.
func LoadTopologyFacts(path string) (*TopologyFacts, error) {
	facts := &TopologyFacts{}
	if err := loadFactsFile(path, facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// LoadInventory reads PDU host records from a YAML or JSON inventory file.
func LoadInventory(path string) (map[string]InventoryHost, error) {
	hosts := make(map[string]InventoryHost)
	if err := loadFactsFile(path, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// LoadPduVars reads vendor credential parameters from a YAML or JSON file.
func LoadPduVars(path string) (PduVars, error) {
	vars := make(PduVars)
	if err := loadFactsFile(path, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

func loadFactsFile(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read facts file: %w", err)
	}
	inFormat := format.DataFormatFromFileExt(path, format.FORMAT_YAML)
	if err := format.Unmarshal(b, v, inFormat); err != nil {
		return fmt.Errorf("failed to unmarshal facts file %s: %w", path, err)
	}
	return nil
}
