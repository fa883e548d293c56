package pdu

import (
	"sync"
)

// OutletController is the narrow interface every vendor driver has to
// implement for one PDU management endpoint. Drivers are expected to be
// best-effort: a missing outlet or unreachable host yields an empty status
// list or a false return value, never a panic.
type OutletController interface {
	// GetOutletStatus returns the status of the given outlet, or of every
	// outlet on the PDU when outlet is empty. The hostname is advisory and
	// lets drivers that label outlets by attached device filter on it.
	GetOutletStatus(hostname string, outlet string) []OutletDescriptor

	TurnOnOutlet(outletID string) bool
	TurnOffOutlet(outletID string) bool

	Close()
}

// A ControllerBuilder constructs a driver for a PDU management endpoint.
// Returning nil means no driver could be built (unknown hardware, endpoint
// unreachable); the caller treats that as a soft failure.
type ControllerBuilder func(ip string, vars VendorVars, hwsku string, pduType string) OutletController

// ControllerPool deduplicates live controller connections. Several feeds,
// possibly on different PSUs, can terminate on the same physical PDU; the
// pool guarantees at most one controller per management IP for its own
// lifetime. Each factory call owns one pool, so teardown is deterministic
// rather than hanging off process-global state.
type ControllerPool struct {
	mu          sync.Mutex
	builder     ControllerBuilder
	controllers map[string]OutletController
}

func NewControllerPool(builder ControllerBuilder) *ControllerPool {
	return &ControllerPool{
		builder:     builder,
		controllers: make(map[string]OutletController),
	}
}

// Get returns the controller for ip, building it on first use. Feeds that
// share a management IP share the returned instance.
func (p *ControllerPool) Get(ip string, vars VendorVars, hwsku string, pduType string) OutletController {
	p.mu.Lock()
	defer p.mu.Unlock()
	if controller, ok := p.controllers[ip]; ok {
		return controller
	}
	controller := p.builder(ip, vars, hwsku, pduType)
	if controller == nil {
		return nil
	}
	p.controllers[ip] = controller
	return controller
}

// Close releases every distinct controller exactly once.
func (p *ControllerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ip, controller := range p.controllers {
		controller.Close()
		delete(p.controllers, ip)
	}
}
