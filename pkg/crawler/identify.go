package crawler

import (
	"fmt"
	"strings"

	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/redfish"
)

// ControllerInfo represents relevant information about a PDU's management
// controller.
type ControllerInfo struct {
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serial_number"`
	FirmwareVersion string `json:"firmware_version"`
	ManagerType     string `json:"manager_type"`
	UUID            string `json:"uuid"`
}

// IsPduManager checks if a given Manager fronts a rack PDU rather than a
// compute node BMC.
func IsPduManager(manager *redfish.Manager) bool {
	if manager == nil {
		return false
	}

	switch string(manager.ManagerType) {
	case "RackManager", "AuxiliaryController":
		return true
	}
	// Some vendors report a generic type and put the hint in the model name
	return strings.Contains(strings.ToLower(manager.Model), "pdu")
}

// GetControllerInfo retrieves details of the management controllers fronting
// the PDU at the connected endpoint.
func GetControllerInfo(client *gofish.APIClient) ([]ControllerInfo, error) {
	var controllers []ControllerInfo

	managers, err := client.Service.Managers()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve managers: %v", err)
	}

	for _, manager := range managers {
		if !IsPduManager(manager) {
			continue
		}

		controllers = append(controllers, ControllerInfo{
			Manufacturer:    manager.Manufacturer,
			Model:           manager.Model,
			SerialNumber:    manager.SerialNumber,
			FirmwareVersion: manager.FirmwareVersion,
			ManagerType:     string(manager.ManagerType),
			UUID:            manager.UUID,
		})
	}

	return controllers, nil
}
