package intf

import (
	"fmt"
	"testing"
)

var descriptionOutput = []string{
	"  Interface    Oper    Admin     Alias           Description",
	"-----------  ------  -------  --------  --------------------",
	"  Ethernet0      up       up      etp1  ARISTA01T2:Ethernet1",
	"  Ethernet4      up       up      etp2  ARISTA02T2:Ethernet1",
	"  Ethernet8    down     down      etp3  unused port",
}

var presenceOutput = []string{
	"       Port    Presence",
	"-----------  ----------",
	"  Ethernet0     Present",
	"  Ethernet4     Present",
	"  Ethernet8 Not present",
}

// fakeRunner returns canned output per command.
type fakeRunner struct {
	output map[string][]string
}

func (r *fakeRunner) Run(command string) ([]string, error) {
	lines, ok := r.output[command]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", command)
	}
	return lines, nil
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{output: map[string][]string{
		showDescriptionCmd: descriptionOutput,
		showPresenceCmd:    presenceOutput,
	}}
}

func TestParseInterfaceStatus(t *testing.T) {
	status := ParseInterfaceStatus(descriptionOutput[2:])
	if len(status) != 3 {
		t.Fatalf("expected 3 interfaces, got %d", len(status))
	}
	eth0 := status["Ethernet0"]
	if eth0.Oper != "up" || eth0.Admin != "up" || eth0.Alias != "etp1" {
		t.Errorf("unexpected Ethernet0 row: %+v", eth0)
	}
	if eth8 := status["Ethernet8"]; eth8.Desc != "unused port" {
		t.Errorf("multi-word description not joined: %q", eth8.Desc)
	}
}

func TestParseInterfaceStatusShortRows(t *testing.T) {
	status := ParseInterfaceStatus([]string{"Ethernet0 up up", "", "garbage"})
	if len(status) != 0 {
		t.Errorf("short rows should be ignored, got %v", status)
	}
}

func TestParseTransceiverPresence(t *testing.T) {
	present := ParseTransceiverPresence(presenceOutput[2:])
	if !present["Ethernet0"] || !present["Ethernet4"] {
		t.Errorf("expected Ethernet0 and Ethernet4 present, got %v", present)
	}
	if present["Ethernet8"] {
		t.Error("Ethernet8 reported present")
	}
}

func TestCheckInterfaceStatus(t *testing.T) {
	runner := newFakeRunner()
	expectedUp := map[string]bool{"Ethernet0": true, "Ethernet4": true}

	interfaces := []string{"Ethernet0", "Ethernet4"}
	if !CheckInterfaceStatus(runner, interfaces, expectedUp, nil) {
		t.Error("check failed on healthy interfaces")
	}

	// An interface expected up but reported down must fail.
	expectedUp["Ethernet8"] = true
	if CheckInterfaceStatus(runner, append(interfaces, "Ethernet8"), expectedUp, nil) {
		t.Error("check passed although Ethernet8 is down but expected up")
	}
}

func TestCheckInterfaceStatusMissingInterface(t *testing.T) {
	runner := newFakeRunner()
	if CheckInterfaceStatus(runner, []string{"Ethernet99"}, nil, nil) {
		t.Error("check passed for an interface missing from the output")
	}
}

func TestCheckInterfaceStatusTransceiverSkipList(t *testing.T) {
	runner := newFakeRunner()
	// Ethernet8 is down/down as expected but has no transceiver; only the
	// skip list lets it pass.
	interfaces := []string{"Ethernet8"}
	if CheckInterfaceStatus(runner, interfaces, nil, nil) {
		t.Error("check passed although transceiver is absent")
	}
	if !CheckInterfaceStatus(runner, interfaces, nil, map[string]bool{"Ethernet8": true}) {
		t.Error("check failed although the interface is on the transceiver skip list")
	}
}

func TestCheckAllInterfacesScopesPerAsic(t *testing.T) {
	runner := newFakeRunner()
	portMaps := map[int]map[string][]int{
		0: {"Ethernet0": {0}},
		1: {"Ethernet4": {1}},
	}
	expectedUp := map[string]bool{"Ethernet0": true, "Ethernet4": true}
	if !CheckAllInterfaces(runner, portMaps, []string{"Ethernet0", "Ethernet4"}, expectedUp, nil) {
		t.Error("per-asic check failed on healthy interfaces")
	}
}
