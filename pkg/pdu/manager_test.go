package pdu

import (
	"testing"
)

// fakeController is an OutletController double wired up by tests through a
// fakeBuilder. It records every operation so tests can assert fan-out
// behavior without real PDU hardware.
type fakeController struct {
	outlets  []string
	failOps  map[string]bool
	onCalls  []string
	offCalls []string
	closed   int
}

func (c *fakeController) GetOutletStatus(hostname string, outlet string) []OutletDescriptor {
	var result []OutletDescriptor
	for _, id := range c.outlets {
		if outlet != "" && outlet != id {
			continue
		}
		result = append(result, OutletDescriptor{
			OutletID: id,
			Status:   map[string]string{"outlet_on": "true"},
		})
	}
	return result
}

func (c *fakeController) TurnOnOutlet(outletID string) bool {
	c.onCalls = append(c.onCalls, outletID)
	return !c.failOps[outletID]
}

func (c *fakeController) TurnOffOutlet(outletID string) bool {
	c.offCalls = append(c.offCalls, outletID)
	return !c.failOps[outletID]
}

func (c *fakeController) Close() {
	c.closed++
}

// fakeBuilder resolves controllers by management IP and counts how many
// times the pool asked it to build one.
type fakeBuilder struct {
	controllers map[string]*fakeController
	builds      int
}

func (b *fakeBuilder) build(ip string, vars VendorVars, hwsku string, pduType string) OutletController {
	b.builds++
	controller, ok := b.controllers[ip]
	if !ok {
		return nil
	}
	return controller
}

func graphPeer(hostname string, ip string, peerport string) PeerInfo {
	return PeerInfo{
		Hostname:     hostname,
		HwSku:        "Sentry",
		ManagementIP: ip,
		Protocol:     ProtocolSNMP,
		Type:         "Pdu",
		PeerPort:     peerport,
	}
}

func TestBuildFeedMissingCriticalInfo(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
	}}
	pool := NewControllerPool(builder.build)
	psu := NewPSU("PSU1", "dut-1")

	cases := map[string]PeerInfo{
		"no management ip": {Hostname: "pdu-1", Protocol: ProtocolSNMP},
		"no protocol":      {Hostname: "pdu-1", ManagementIP: "10.0.0.1"},
	}
	for name, peer := range cases {
		ok := psu.BuildPSU(map[string]PeerInfo{"A": peer}, nil, pool)
		if ok {
			t.Errorf("%s: BuildPSU succeeded, expected failure", name)
		}
		if len(psu.feeds) != 0 {
			t.Errorf("%s: feed was retained, expected it to be skipped", name)
		}
	}
	if builder.builds != 0 {
		t.Errorf("expected no controller builds, got %d", builder.builds)
	}
}

func TestBuildFeedUnsupportedProtocol(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
	}}
	pool := NewControllerPool(builder.build)
	psu := NewPSU("PSU1", "dut-1")

	peer := graphPeer("pdu-1", "10.0.0.1", "1")
	peer.Protocol = "telnet"
	if psu.BuildPSU(map[string]PeerInfo{"A": peer}, nil, pool) {
		t.Fatal("BuildPSU succeeded with unsupported protocol")
	}
}

func TestBuildFeedNoOutlets(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {},
	}}
	pool := NewControllerPool(builder.build)
	psu := NewPSU("PSU1", "dut-1")

	if psu.BuildPSU(map[string]PeerInfo{"A": graphPeer("pdu-1", "10.0.0.1", ProbingPort)}, nil, pool) {
		t.Fatal("BuildPSU succeeded although the controller returned no outlets")
	}
}

func TestControllerSharedAcrossFeeds(t *testing.T) {
	controller := &fakeController{outlets: []string{".1", ".2"}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": controller,
	}}
	pool := NewControllerPool(builder.build)
	psu := NewPSU("PSU1", "dut-1")

	peers := map[string]PeerInfo{
		"A": graphPeer("pdu-1", "10.0.0.1", "1"),
		"B": graphPeer("pdu-1", "10.0.0.1", "2"),
	}
	if !psu.BuildPSU(peers, nil, pool) {
		t.Fatal("BuildPSU failed")
	}
	if builder.builds != 1 {
		t.Errorf("expected a single controller build for the shared IP, got %d", builder.builds)
	}
	if psu.feeds["A"].controller != psu.feeds["B"].controller {
		t.Error("feeds with the same management IP got different controller instances")
	}
}

func TestBuildPSUPartialFeeds(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
	}}
	pool := NewControllerPool(builder.build)
	psu := NewPSU("PSU1", "dut-1")

	peers := map[string]PeerInfo{
		"A": graphPeer("pdu-1", "10.0.0.1", "1"),
		"B": graphPeer("pdu-2", "10.0.0.99", "1"), // unknown IP, controller build fails
	}
	if !psu.BuildPSU(peers, nil, pool) {
		t.Fatal("BuildPSU failed although one feed is buildable")
	}
	if len(psu.feeds) != 1 {
		t.Fatalf("expected 1 retained feed, got %d", len(psu.feeds))
	}
	if _, ok := psu.feeds["A"]; !ok {
		t.Error("working feed A was not retained")
	}

	// Zero buildable feeds must fail the PSU.
	psu2 := NewPSU("PSU2", "dut-1")
	if psu2.BuildPSU(map[string]PeerInfo{"B": graphPeer("pdu-2", "10.0.0.99", "1")}, nil, pool) {
		t.Error("BuildPSU succeeded with zero buildable feeds")
	}
}

func buildTestManager(t *testing.T, builder *fakeBuilder) *PduManager {
	t.Helper()
	pool := NewControllerPool(builder.build)
	manager := NewPduManager("dut-1", pool)
	manager.AddController("PSU1", map[string]PeerInfo{"A": graphPeer("pdu-1", "10.0.0.1", ProbingPort)}, nil)
	manager.AddController("PSU2", map[string]PeerInfo{"A": graphPeer("pdu-2", "10.0.0.2", ProbingPort)}, nil)
	if len(manager.PSUs) != 2 {
		t.Fatalf("expected 2 PSUs, got %d", len(manager.PSUs))
	}
	return manager
}

func TestTurnOnAllOutletsAggregatesFailures(t *testing.T) {
	good := &fakeController{outlets: []string{".1"}}
	bad := &fakeController{outlets: []string{".2"}, failOps: map[string]bool{".2": true}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": good,
		"10.0.0.2": bad,
	}}
	manager := buildTestManager(t, builder)

	ok, err := manager.TurnOnOutlet(nil)
	if err != nil {
		t.Fatalf("TurnOnOutlet: %v", err)
	}
	if ok {
		t.Error("aggregate result is true although one outlet failed")
	}
	// No short-circuit: both outlets must have been attempted.
	if len(good.onCalls) != 1 || len(bad.onCalls) != 1 {
		t.Errorf("expected both outlets attempted, got %v and %v", good.onCalls, bad.onCalls)
	}
}

func TestSingleOutletRouting(t *testing.T) {
	c1 := &fakeController{outlets: []string{".1"}}
	c2 := &fakeController{outlets: []string{".2"}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": c1,
		"10.0.0.2": c2,
	}}
	manager := buildTestManager(t, builder)

	outlet := &OutletDescriptor{PduName: "pdu-2", PsuName: "PSU2", FeedName: "A", OutletID: ".2"}
	ok, err := manager.TurnOffOutlet(outlet)
	if err != nil {
		t.Fatalf("TurnOffOutlet: %v", err)
	}
	if !ok {
		t.Error("TurnOffOutlet reported failure")
	}
	if len(c1.offCalls) != 0 {
		t.Errorf("operation leaked to unrelated controller: %v", c1.offCalls)
	}
	if len(c2.offCalls) != 1 || c2.offCalls[0] != ".2" {
		t.Errorf("expected a single off call for .2, got %v", c2.offCalls)
	}
}

func TestRoutingUnknownDescriptorFails(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
		"10.0.0.2": {outlets: []string{".2"}},
	}}
	manager := buildTestManager(t, builder)

	if _, err := manager.TurnOnOutlet(&OutletDescriptor{PsuName: "PSU9", FeedName: "A", OutletID: ".1"}); err == nil {
		t.Error("expected error for unknown PSU")
	}
	if _, err := manager.TurnOnOutlet(&OutletDescriptor{PsuName: "PSU1", FeedName: "Z", OutletID: ".1"}); err == nil {
		t.Error("expected error for unknown feed")
	}
}

func TestGetOutletStatusRetagging(t *testing.T) {
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": {outlets: []string{".1"}},
		"10.0.0.2": {outlets: []string{".2"}},
	}}
	manager := buildTestManager(t, builder)

	outlet := &OutletDescriptor{PduName: "pdu-1", PsuName: "PSU1", FeedName: "A", OutletID: ".1"}
	status, err := manager.GetOutletStatus(outlet)
	if err != nil {
		t.Fatalf("GetOutletStatus: %v", err)
	}
	if len(status) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(status))
	}
	got := status[0]
	if got.PduName != outlet.PduName || got.PsuName != outlet.PsuName || got.FeedName != outlet.FeedName {
		t.Errorf("descriptor not re-tagged with owner names: %+v", got)
	}
}

func TestOutletDescriptorRoundTrip(t *testing.T) {
	c1 := &fakeController{outlets: []string{".1"}}
	c2 := &fakeController{outlets: []string{".2"}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": c1,
		"10.0.0.2": c2,
	}}
	manager := buildTestManager(t, builder)

	status, err := manager.GetOutletStatus(nil)
	if err != nil {
		t.Fatalf("GetOutletStatus: %v", err)
	}
	if len(status) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(status))
	}
	for i := range status {
		if _, err := manager.TurnOffOutlet(&status[i]); err != nil {
			t.Errorf("descriptor %+v did not route back to its controller: %v", status[i], err)
		}
	}
	if len(c1.offCalls) != 1 || len(c2.offCalls) != 1 {
		t.Errorf("expected one off call per controller, got %v and %v", c1.offCalls, c2.offCalls)
	}
}

func TestCloseReleasesControllersOnce(t *testing.T) {
	shared := &fakeController{outlets: []string{".1", ".2"}}
	builder := &fakeBuilder{controllers: map[string]*fakeController{
		"10.0.0.1": shared,
	}}
	pool := NewControllerPool(builder.build)
	manager := NewPduManager("dut-1", pool)
	manager.AddController("PSU1", map[string]PeerInfo{"A": graphPeer("pdu-1", "10.0.0.1", "1")}, nil)
	manager.AddController("PSU2", map[string]PeerInfo{"A": graphPeer("pdu-1", "10.0.0.1", "2")}, nil)

	manager.Close()
	if shared.closed != 1 {
		t.Errorf("expected shared controller closed exactly once, closed %d times", shared.closed)
	}
}
