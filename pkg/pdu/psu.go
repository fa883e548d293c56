package pdu

// A PSU aggregates the power feeds that together supply one power supply
// unit of the DUT. Servers with redundant feeds keep working when a subset
// of feeds is misconfigured, so a PSU is considered usable as long as at
// least one feed built successfully.
type PSU struct {
	Name    string
	dutName string
	feeds   map[string]*Feed
}

func NewPSU(psuName string, dutName string) *PSU {
	return &PSU{Name: psuName, dutName: dutName}
}

// BuildPSU attempts to build every declared feed, retaining only the ones
// that succeed. Reports true iff at least one feed was retained.
func (p *PSU) BuildPSU(feedPeers map[string]PeerInfo, vars map[string]VendorVars, pool *ControllerPool) bool {
	p.feeds = make(map[string]*Feed)
	for feedName, peer := range feedPeers {
		feed := newFeed(p, feedName)
		if feed.BuildFeed(peer, vars[feedName], pool) {
			p.feeds[feedName] = feed
		}
	}
	return len(p.feeds) > 0
}
