package internal_gcp

import (
	"testing"

	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InternalGCPTestSuite struct {
	suite.Suite
}

func (suite *InternalGCPTestSuite) TestIsValidGCPZone() {
	testCases := []struct {
		name          string
		zone          string
		expectedValid bool
	}{
		{
			name:          "Valid zone",
			zone:          "us-central1-a",
			expectedValid: true,
		},
		{
			name:          "Valid zone with different case",
			zone:          "US-CENTRAL1-A",
			expectedValid: true,
		},
		{
			name:          "Region is not a zone",
			zone:          "us-central1",
			expectedValid: false,
		},
		{
			name:          "Empty zone",
			zone:          "",
			expectedValid: false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.expectedValid, IsValidGCPZone(tc.zone))
		})
	}
}

func (suite *InternalGCPTestSuite) TestIsValidGCPMachineType() {
	testCases := []struct {
		name          string
		zone          string
		machineType   string
		expectedValid bool
	}{
		{
			name:          "Valid machine type",
			zone:          "us-central1-a",
			machineType:   "n1-standard-1",
			expectedValid: true,
		},
		{
			name:          "Machine type not offered in zone",
			zone:          "us-west2-a",
			machineType:   "c3-standard-4",
			expectedValid: false,
		},
		{
			name:          "Invalid machine type",
			zone:          "us-central1-a",
			machineType:   "invalid-machine-type",
			expectedValid: false,
		},
		{
			name:          "Invalid zone",
			zone:          "invalid-zone",
			machineType:   "n1-standard-1",
			expectedValid: false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.expectedValid, IsValidGCPMachineType(tc.zone, tc.machineType))
		})
	}
}

func (suite *InternalGCPTestSuite) TestDiskTypesMatchTemplate() {
	for _, d := range template.DiskTypes() {
		suite.True(IsValidGCPDiskType(string(d)), d)
	}
	suite.False(IsValidGCPDiskType("pd-floppy"))
}

func (suite *InternalGCPTestSuite) TestZonesSorted() {
	zones := Zones()
	suite.NotEmpty(zones)
	suite.IsIncreasing(zones)
}

func TestInternalGCPTestSuite(t *testing.T) {
	suite.Run(t, new(InternalGCPTestSuite))
}
