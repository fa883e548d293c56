package pdu

import (
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// ProtocolSNMP is the only control protocol the feed layer currently
	// supports. Feeds declaring anything else are skipped.
	ProtocolSNMP = "snmp"

	// ProbingPort is the sentinel peerport value meaning "the caller does
	// not know which outlet this feed occupies"; the whole outlet table of
	// the controller is queried instead.
	ProbingPort = "probing"
)

// A Feed is one physical power path from a PDU outlet to one PSU of the
// DUT. It holds a shared-or-owned controller reference and the outlet
// descriptors it discovered at build time.
type Feed struct {
	psu      *PSU
	feedName string

	hostname string
	ip       string
	protocol string
	hwsku    string
	pduType  string

	controller OutletController
	outlets    []OutletDescriptor
}

func newFeed(psu *PSU, feedName string) *Feed {
	return &Feed{psu: psu, feedName: feedName}
}

// BuildFeed resolves the controller behind the feed and queries its initial
// outlet set. All failures are soft: the feed logs a warning and reports
// false, and the owning PSU simply leaves it out.
func (f *Feed) BuildFeed(peer PeerInfo, vars VendorVars, pool *ControllerPool) bool {
	if peer.ManagementIP == "" || peer.Protocol == "" {
		log.Warn().Msgf("PSU %s feed %s is missing critical information", f.psu.Name, f.feedName)
		return false
	}
	if peer.Protocol != ProtocolSNMP {
		log.Warn().Msgf("protocol %s is currently not supported", peer.Protocol)
		return false
	}

	f.hostname = peer.PduName()
	f.ip = peer.ManagementIP
	f.protocol = peer.Protocol
	f.hwsku = peer.HwSku
	f.pduType = peer.Type

	f.controller = pool.Get(f.ip, vars, f.hwsku, f.pduType)
	if f.controller == nil {
		log.Warn().Msgf("failed creating pdu controller for %s (%s)", f.hostname, f.ip)
		return false
	}

	// A concrete peerport addresses a single outlet; normalize it into the
	// driver's outlet identifier format. Otherwise probe the whole table.
	outlet := ""
	if peer.PeerPort != "" && peer.PeerPort != ProbingPort {
		outlet = peer.PeerPort
		if !strings.HasPrefix(outlet, ".") {
			outlet = "." + outlet
		}
	}

	outlets := f.controller.GetOutletStatus(f.psu.dutName, outlet)
	for i := range outlets {
		outlets[i].PduName = f.hostname
		outlets[i].PsuName = f.psu.Name
		outlets[i].FeedName = f.feedName
	}
	f.outlets = outlets
	return len(f.outlets) > 0
}

// Outlets returns the outlet descriptors discovered when the feed was built.
func (f *Feed) Outlets() []OutletDescriptor {
	return f.outlets
}
