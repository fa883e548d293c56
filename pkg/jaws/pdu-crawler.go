package jaws

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Xichen96/sonic-mgmt/internal/util"
	"github.com/Xichen96/sonic-mgmt/pkg/pdu"
)

type CrawlerConfig struct {
	URI      string
	Username string
	Password string
	Insecure bool
	Timeout  time.Duration
}

// systemInfo mirrors the /jaws/config/info/system response of Sentry4-class
// PDUs running the JAWS REST API.
type systemInfo struct {
	Location string `json:"location"`
	Model    string `json:"model_number"`
	Serial   string `json:"product_serial_number"`
	Firmware string `json:"firmware"`
}

type outletStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	State  string `json:"state"`
	Status string `json:"status"`
}

// CrawlPDU connects to a single JAWS PDU and collects its inventory.
func CrawlPDU(config CrawlerConfig) (*pdu.PDUInventory, error) {
	client := &http.Client{
		Timeout: config.Timeout,
	}
	if config.Insecure {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	info, err := getSystemInfo(client, config)
	if err != nil {
		return nil, fmt.Errorf("failed to get system info from %s: %w", config.URI, err)
	}
	outlets, err := getOutletStatus(client, config)
	if err != nil {
		return nil, fmt.Errorf("failed to get outlet status from %s: %w", config.URI, err)
	}

	inventory := &pdu.PDUInventory{
		Hostname:        config.URI,
		Model:           info.Model,
		SerialNumber:    info.Serial,
		FirmwareVersion: info.Firmware,
	}
	for _, o := range outlets {
		state := o.State
		if state == "" {
			state = o.Status
		}
		inventory.Outlets = append(inventory.Outlets, pdu.PDUOutlet{
			ID:         o.ID,
			Name:       o.Name,
			PowerState: strings.ToUpper(state),
		})
	}
	return inventory, nil
}

func getSystemInfo(client *http.Client, config CrawlerConfig) (*systemInfo, error) {
	body, err := getJSON(client, config, "/jaws/config/info/system")
	if err != nil {
		return nil, err
	}
	info := &systemInfo{}
	if err := json.Unmarshal(body, info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal system info: %w", err)
	}
	return info, nil
}

func getOutletStatus(client *http.Client, config CrawlerConfig) ([]outletStatus, error) {
	body, err := getJSON(client, config, "/jaws/monitor/outlets")
	if err != nil {
		return nil, err
	}
	var outlets []outletStatus
	if err := json.Unmarshal(body, &outlets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outlet status: %w", err)
	}
	return outlets, nil
}

func getJSON(client *http.Client, config CrawlerConfig, endpoint string) (util.HTTPBody, error) {
	header := util.HTTPHeader{}.ContentType("application/json")
	if config.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(config.Username + ":" + config.Password))
		header["Authorization"] = "Basic " + creds
	}
	url := strings.TrimSuffix(config.URI, "/") + endpoint
	res, body, err := util.MakeRequest(client, url, http.MethodGet, nil, header)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s returned status %d", endpoint, res.StatusCode)
	}
	return body, nil
}
