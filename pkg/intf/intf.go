// The intf package checks interface and transceiver health on a DUT after
// power or config events. It parses the tabular output of the usual "show
// interfaces" commands fetched over an abstract command runner, so tests
// (and the daemon) can drive it without a live switch.
package intf

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// InterfaceStatus is one row of "show interfaces description" output.
type InterfaceStatus struct {
	Oper  string `json:"oper" yaml:"oper"`
	Admin string `json:"admin" yaml:"admin"`
	Alias string `json:"alias" yaml:"alias"`
	Desc  string `json:"desc" yaml:"desc"`
}

// A CommandRunner executes one command on the DUT and returns its output
// line by line. pkg/device provides an SSH-backed implementation.
type CommandRunner interface {
	Run(command string) ([]string, error)
}

const (
	showDescriptionCmd = "show interfaces description"
	showPresenceCmd    = "show interfaces transceiver presence"

	// Command output starts with a header row and a separator row.
	headerLines = 2
)

// ParseInterfaceStatus parses "show interfaces description" output lines
// (header already stripped) into a map keyed by interface name. Rows with
// fewer than five columns are ignored; everything after the alias column
// joins into the free-form description.
func ParseInterfaceStatus(lines []string) map[string]InterfaceStatus {
	result := make(map[string]InterfaceStatus)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		result[fields[0]] = InterfaceStatus{
			Oper:  fields[1],
			Admin: fields[2],
			Alias: fields[3],
			Desc:  strings.Join(fields[4:], " "),
		}
	}
	return result
}

// ParseTransceiverPresence returns the set of interfaces whose transceiver
// is reported present.
func ParseTransceiverPresence(lines []string) map[string]bool {
	present := make(map[string]bool)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.EqualFold(fields[1], "Present") {
			present[fields[0]] = true
		}
	}
	return present
}

// CheckInterfaceStatus verifies oper and admin state of the given
// interfaces against expectation: up iff the interface is a member of the
// topology (expectedUp). A missing interface, a state mismatch, or an
// absent transceiver on a non-skipped port all fail the check.
func CheckInterfaceStatus(runner CommandRunner, interfaces []string, expectedUp map[string]bool, xcvrSkip map[string]bool) bool {
	lines, err := runner.Run(showDescriptionCmd)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to run %q", showDescriptionCmd)
		return false
	}
	status := ParseInterfaceStatus(stripHeader(lines))

	presenceLines, err := runner.Run(showPresenceCmd)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to run %q", showPresenceCmd)
		return false
	}
	present := ParseTransceiverPresence(stripHeader(presenceLines))

	for _, name := range interfaces {
		expected := "down"
		if expectedUp[name] {
			expected = "up"
		}
		row, ok := status[name]
		if !ok {
			log.Info().Msgf("missing status for interface %s", name)
			return false
		}
		if row.Oper != expected {
			log.Info().Msgf("oper status of interface %s is %s, expected %s", name, row.Oper, expected)
			return false
		}
		if row.Admin != expected {
			log.Info().Msgf("admin status of interface %s is %s, expected %s", name, row.Admin, expected)
			return false
		}
		if !xcvrSkip[name] && !present[name] {
			log.Info().Msgf("no transceiver detected on interface %s", name)
			return false
		}
	}
	return true
}

// CheckAllInterfaces runs the status check per front-end ASIC. Each ASIC
// checks only the interfaces its port map knows about; the first failing
// ASIC fails the whole check.
func CheckAllInterfaces(runner CommandRunner, portMaps map[int]map[string][]int, interfaces []string, expectedUp map[string]bool, xcvrSkip map[string]bool) bool {
	for asic, portMap := range portMaps {
		var scoped []string
		for _, name := range interfaces {
			if _, ok := portMap[name]; ok {
				scoped = append(scoped, name)
			}
		}
		if !CheckInterfaceStatus(runner, scoped, expectedUp, xcvrSkip) {
			log.Info().Msgf("not all interfaces are healthy on asic %d", asic)
			return false
		}
	}
	return true
}

func stripHeader(lines []string) []string {
	if len(lines) <= headerLines {
		return nil
	}
	return lines[headerLines:]
}
