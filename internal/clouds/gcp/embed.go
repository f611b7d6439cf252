package internal_gcp

import (
	"embed"
)

//go:embed gcp_data.yaml
var gcpData embed.FS

func GetGCPData() ([]byte, error) {
	data, err := gcpData.ReadFile("gcp_data.yaml")
	if err != nil {
		return nil, err
	}
	return data, nil
}
