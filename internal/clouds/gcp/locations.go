package internal_gcp

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"gopkg.in/yaml.v2"
)

type GCPData struct {
	DiskTypes []string            `yaml:"diskTypes"`
	Locations map[string][]string `yaml:"locations"`
}

var loadGCPData = sync.OnceValues(func() (*GCPData, error) {
	raw, err := GetGCPData()
	if err != nil {
		return nil, err
	}

	var data GCPData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GCP data: %w", err)
	}
	return &data, nil
})

func catalogue() *GCPData {
	data, err := loadGCPData()
	if err != nil {
		logger.Get().Warnf("GCP catalogue unavailable: %v", err)
		return &GCPData{}
	}
	return data
}

func IsValidGCPZone(zone string) bool {
	_, exists := catalogue().Locations[strings.ToLower(zone)]
	return exists
}

func IsValidGCPMachineType(zone, machineType string) bool {
	validMachineTypes, ok := catalogue().Locations[strings.ToLower(zone)]
	if !ok {
		return false
	}
	return slices.Contains(validMachineTypes, machineType)
}

func IsValidGCPDiskType(diskType string) bool {
	return slices.Contains(catalogue().DiskTypes, diskType)
}

// Zones returns the catalogued zones in sorted order.
func Zones() []string {
	zones := make([]string, 0, len(catalogue().Locations))
	for zone := range catalogue().Locations {
		zones = append(zones, zone)
	}
	slices.Sort(zones)
	return zones
}
