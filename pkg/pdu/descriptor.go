// The pdu package implements the PDU aggregation layer used to power-cycle
// a device under test (DUT) in the lab. A DUT draws power through one or
// more PSUs, each PSU through one or more feeds, and each feed terminates
// on an outlet of some PDU controller. The PduManager type hides that
// many-to-many topology behind a single outlet control API.
//
// Topology data can come from two sources: the connection graph (preferred,
// has per-feed and per-outlet detail) or the lab inventory (degraded
// fallback with a single synthesized feed per PDU host). See factory.go.
package pdu

// An OutletDescriptor identifies one switchable outlet and carries whatever
// status fields the vendor driver reported for it. The PduName, PsuName and
// FeedName tags are filled in by the owning feed so that a descriptor
// returned from any status query can be routed back to the controller that
// produced it.
type OutletDescriptor struct {
	PduName  string `json:"pdu_name" yaml:"pdu_name"`
	PsuName  string `json:"psu_name" yaml:"psu_name"`
	FeedName string `json:"feed_name" yaml:"feed_name"`
	OutletID string `json:"outlet_id" yaml:"outlet_id"`

	// Vendor-specific status fields, e.g. "outlet_on" or "outlet_name".
	// Kept open so drivers can attach whatever they know without the
	// routing fields above losing type safety.
	Status map[string]string `json:"status,omitempty" yaml:"status,omitempty"`
}

// On reports whether the driver marked this outlet as powered.
func (o *OutletDescriptor) On() bool {
	return o.Status["outlet_on"] == "true"
}
