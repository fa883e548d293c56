package sonicmgmt

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	bmclib "github.com/bmc-toolbox/bmclib/v2"
	"github.com/go-logr/logr"
	"github.com/jacobweinstock/registrar"
)

const IPMI_PORT = 623

// BmcQueryParams describes how to reach a DUT's BMC for out-of-band power
// state verification after an outlet operation.
type BmcQueryParams struct {
	Host         string
	Port         int
	User         string
	Pass         string
	Drivers      []string
	Preferred    string
	Timeout      int
	CertPoolFile string
	IpmitoolPath string
}

// NewBmcClient builds a bmclib client restricted to the requested drivers
// (ipmi, gofish, redfish).
func NewBmcClient(l *logr.Logger, q *BmcQueryParams) (*bmclib.Client, error) {
	clientOpts := []bmclib.Option{
		bmclib.WithLogger(*l),
		bmclib.WithRedfishPort(fmt.Sprint(q.Port)),
		bmclib.WithRedfishUseBasicAuth(true),
		bmclib.WithIpmitoolPort(fmt.Sprint(IPMI_PORT)),
		bmclib.WithIpmitoolPath(q.IpmitoolPath),
	}

	// only works if a valid cert is provided; a nil pool uses system certs
	if q.CertPoolFile != "" {
		pool := x509.NewCertPool()
		data, err := os.ReadFile(q.CertPoolFile)
		if err != nil {
			return nil, fmt.Errorf("could not read cert pool file: %v", err)
		}
		pool.AppendCertsFromPEM(data)
		clientOpts = append(clientOpts, bmclib.WithSecureTLS(pool))
	}

	client := bmclib.NewClient(q.Host, q.User, q.Pass, clientOpts...)
	ds := registrar.Drivers{}
	for _, driver := range q.Drivers {
		ds = append(ds, client.Registry.Using(driver)...)
	}
	client.Registry.Drivers = ds

	return client, nil
}

// QueryDutPowerState asks the DUT's BMC what it thinks the chassis power
// state is. Used to confirm that an outlet operation actually took effect on
// the device side, not just on the PDU side.
func QueryDutPowerState(client *bmclib.Client, q *BmcQueryParams) ([]byte, error) {
	ctx, ctxCancel := context.WithTimeout(context.Background(), time.Second*time.Duration(q.Timeout))
	defer ctxCancel()

	client.Registry.FilterForCompatible(ctx)
	if err := client.PreferProvider(q.Preferred).Open(ctx); err != nil {
		return nil, fmt.Errorf("could not open BMC client: %v", err)
	}
	defer client.Close(ctx)

	state, err := client.GetPowerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get power state: %v", err)
	}

	b, err := json.MarshalIndent(map[string]string{"host": q.Host, "power_state": state}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal JSON: %v", err)
	}
	return b, nil
}
