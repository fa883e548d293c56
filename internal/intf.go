package sonicmgmt

import (
	"fmt"
	"time"

	"github.com/Xichen96/sonic-mgmt/pkg/device"
	"github.com/Xichen96/sonic-mgmt/pkg/intf"
	"github.com/rs/zerolog/log"
)

// IntfCheckParams describes one interface status check against a DUT.
type IntfCheckParams struct {
	Host       string
	Username   string
	Password   string
	Timeout    time.Duration
	Interfaces []string
	ExpectedUp bool
	XcvrSkip   []string

	// PortMaps scopes the check per ASIC on multi-ASIC devices:
	// asic index -> interface name -> port lanes. Nil means a
	// single-ASIC check over Interfaces directly.
	PortMaps map[int]map[string][]int
}

// CheckDutInterfaces connects to the DUT over SSH and verifies that the
// requested interfaces are in the expected oper/admin state. Interfaces with
// no transceiver present are skipped when listed in XcvrSkip.
func CheckDutInterfaces(p *IntfCheckParams) (bool, error) {
	runner, err := device.DialSSH(p.Host, p.Username, p.Password, p.Timeout)
	if err != nil {
		return false, fmt.Errorf("failed to connect to %s: %w", p.Host, err)
	}
	defer runner.Close()

	expected := make(map[string]bool, len(p.Interfaces))
	for _, name := range p.Interfaces {
		expected[name] = p.ExpectedUp
	}
	skip := make(map[string]bool, len(p.XcvrSkip))
	for _, name := range p.XcvrSkip {
		skip[name] = true
	}

	if p.PortMaps != nil {
		ok := intf.CheckAllInterfaces(runner, p.PortMaps, p.Interfaces, expected, skip)
		return ok, nil
	}
	ok := intf.CheckInterfaceStatus(runner, p.Interfaces, expected, skip)
	if !ok {
		log.Info().Msgf("interface status check failed on %s", p.Host)
	}
	return ok, nil
}
