package pdu

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// PduManager presents the outlets feeding one DUT as a single controller.
// Operations either target a single outlet descriptor, which is routed back
// to the exact feed that produced it, or fan out over every owned outlet.
//
// The DutHostname identifies the device under test, NOT a PDU; the PDUs
// serving it are resolved from graph or inventory data by the factory.
type PduManager struct {
	DutHostname string

	// PSUs retained by AddController, keyed by psu name. Only PSUs with at
	// least one working feed end up here.
	PSUs map[string]*PSU

	pool *ControllerPool
}

func NewPduManager(dutHostname string, pool *ControllerPool) *PduManager {
	return &PduManager{
		DutHostname: dutHostname,
		PSUs:        make(map[string]*PSU),
		pool:        pool,
	}
}

// AddController builds a PSU from its declared feeds and retains it if the
// build produced at least one working feed. Failures are logged and
// swallowed so callers can add many PSUs and accept partial success.
func (m *PduManager) AddController(psuName string, feedPeers map[string]PeerInfo, vars map[string]VendorVars) {
	psu := NewPSU(psuName, m.DutHostname)
	if !psu.BuildPSU(feedPeers, vars, m.pool) {
		log.Warn().Msgf("no usable feeds for PSU %s of %s, skipping", psuName, m.DutHostname)
		return
	}
	m.PSUs[psuName] = psu
}

// controllerFor routes an outlet descriptor back to the controller of the
// feed that owns it. A descriptor naming an unknown psu or feed did not
// originate from this manager; that is a caller bug and surfaces as an
// error rather than a soft skip.
func (m *PduManager) controllerFor(outlet *OutletDescriptor) (OutletController, error) {
	psu, ok := m.PSUs[outlet.PsuName]
	if !ok {
		return nil, fmt.Errorf("outlet descriptor references unknown PSU %q", outlet.PsuName)
	}
	feed, ok := psu.feeds[outlet.FeedName]
	if !ok {
		return nil, fmt.Errorf("outlet descriptor references unknown feed %q on PSU %q", outlet.FeedName, outlet.PsuName)
	}
	return feed.controller, nil
}

// TurnOnOutlet powers on the given outlet, or every owned outlet when the
// descriptor is nil. The bulk form attempts every outlet regardless of
// individual failures and reports the AND of all results, so one bad outlet
// does not stop the rest of the DUT from being powered.
func (m *PduManager) TurnOnOutlet(outlet *OutletDescriptor) (bool, error) {
	if outlet != nil {
		controller, err := m.controllerFor(outlet)
		if err != nil {
			return false, err
		}
		return controller.TurnOnOutlet(outlet.OutletID), nil
	}
	ok := true
	m.eachFeed(func(feed *Feed) {
		for _, o := range feed.outlets {
			if !feed.controller.TurnOnOutlet(o.OutletID) {
				log.Warn().Msgf("failed to turn on outlet %s on %s", o.OutletID, o.PduName)
				ok = false
			}
		}
	})
	return ok, nil
}

// TurnOffOutlet powers off the given outlet, or every owned outlet when the
// descriptor is nil. Same aggregation semantics as TurnOnOutlet.
func (m *PduManager) TurnOffOutlet(outlet *OutletDescriptor) (bool, error) {
	if outlet != nil {
		controller, err := m.controllerFor(outlet)
		if err != nil {
			return false, err
		}
		return controller.TurnOffOutlet(outlet.OutletID), nil
	}
	ok := true
	m.eachFeed(func(feed *Feed) {
		for _, o := range feed.outlets {
			if !feed.controller.TurnOffOutlet(o.OutletID) {
				log.Warn().Msgf("failed to turn off outlet %s on %s", o.OutletID, o.PduName)
				ok = false
			}
		}
	})
	return ok, nil
}

// GetOutletStatus queries live status for the given outlet, or for every
// owned outlet when the descriptor is nil. Results are re-tagged with the
// owning pdu/psu/feed names so they can round-trip into the power
// operations above.
func (m *PduManager) GetOutletStatus(outlet *OutletDescriptor) ([]OutletDescriptor, error) {
	if outlet != nil {
		controller, err := m.controllerFor(outlet)
		if err != nil {
			return nil, err
		}
		status := controller.GetOutletStatus("", outlet.OutletID)
		retag(status, outlet)
		return status, nil
	}
	var status []OutletDescriptor
	m.eachFeed(func(feed *Feed) {
		for i := range feed.outlets {
			o := &feed.outlets[i]
			result := feed.controller.GetOutletStatus("", o.OutletID)
			retag(result, o)
			status = append(status, result...)
		}
	})
	return status, nil
}

// Outlets returns the outlet descriptors discovered at build time, without
// another round-trip to the controllers.
func (m *PduManager) Outlets() []OutletDescriptor {
	var outlets []OutletDescriptor
	m.eachFeed(func(feed *Feed) {
		outlets = append(outlets, feed.outlets...)
	})
	return outlets
}

// Close releases every distinct controller connection held by the pool.
func (m *PduManager) Close() {
	m.pool.Close()
}

// eachFeed visits every retained feed in sorted psu/feed order so bulk
// operations hit the hardware in a stable order between runs.
func (m *PduManager) eachFeed(visit func(*Feed)) {
	for _, psuName := range sortedKeys(m.PSUs) {
		psu := m.PSUs[psuName]
		for _, feedName := range sortedKeys(psu.feeds) {
			visit(psu.feeds[feedName])
		}
	}
}

func retag(outlets []OutletDescriptor, owner *OutletDescriptor) {
	for i := range outlets {
		outlets[i].PduName = owner.PduName
		outlets[i].PsuName = owner.PsuName
		outlets[i].FeedName = owner.FeedName
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
