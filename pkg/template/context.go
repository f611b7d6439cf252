package template

import (
	"fmt"
	"slices"
	"strings"
)

// Property names as they appear in a Deployment Manager config.
const (
	PropInstanceName         = "instanceName"
	PropInstanceImage        = "instanceImage"
	PropInstanceNetwork      = "instanceNetwork"
	PropInstanceZone         = "instanceZone"
	PropInstanceBootDiskType = "instanceBootDiskType"
	PropInstanceMachineType  = "instanceMachineType"
	PropContainerManifest    = "containerManifest"
	EnvProject               = "project"
)

// RequiredProperties lists the properties in the order they are resolved.
var RequiredProperties = []string{
	PropInstanceName,
	PropInstanceImage,
	PropInstanceNetwork,
	PropInstanceZone,
	PropInstanceBootDiskType,
	PropInstanceMachineType,
	PropContainerManifest,
}

// DiskType is a Compute Engine persistent disk type.
type DiskType string

const (
	DiskTypeStandard            DiskType = "pd-standard"
	DiskTypeBalanced            DiskType = "pd-balanced"
	DiskTypeSSD                 DiskType = "pd-ssd"
	DiskTypeExtreme             DiskType = "pd-extreme"
	DiskTypeHyperdiskBalanced   DiskType = "hyperdisk-balanced"
	DiskTypeHyperdiskExtreme    DiskType = "hyperdisk-extreme"
	DiskTypeHyperdiskThroughput DiskType = "hyperdisk-throughput"
)

var diskTypes = []DiskType{
	DiskTypeStandard,
	DiskTypeBalanced,
	DiskTypeSSD,
	DiskTypeExtreme,
	DiskTypeHyperdiskBalanced,
	DiskTypeHyperdiskExtreme,
	DiskTypeHyperdiskThroughput,
}

// DiskTypes returns every accepted disk type.
func DiskTypes() []DiskType {
	return slices.Clone(diskTypes)
}

func (d DiskType) Valid() bool {
	return slices.Contains(diskTypes, d)
}

// Properties are the template inputs of one instance.
type Properties struct {
	InstanceName         string   `yaml:"instanceName"         json:"instanceName"`
	InstanceImage        string   `yaml:"instanceImage"        json:"instanceImage"`
	InstanceNetwork      string   `yaml:"instanceNetwork"      json:"instanceNetwork"`
	InstanceZone         string   `yaml:"instanceZone"         json:"instanceZone"`
	InstanceBootDiskType DiskType `yaml:"instanceBootDiskType" json:"instanceBootDiskType"`
	InstanceMachineType  string   `yaml:"instanceMachineType"  json:"instanceMachineType"`
	ContainerManifest    string   `yaml:"containerManifest"    json:"containerManifest"`
}

// Imports maps an import key to the raw text of the imported file.
type Imports map[string]string

// Env carries deployment-wide values supplied by the templating engine.
type Env struct {
	Project string `yaml:"project" json:"project"`
}

// Context is the complete input of one generation call.
type Context struct {
	Properties Properties
	Imports    Imports
	Env        Env
}

// get returns the property by its config name.
func (p Properties) get(name string) string {
	switch name {
	case PropInstanceName:
		return p.InstanceName
	case PropInstanceImage:
		return p.InstanceImage
	case PropInstanceNetwork:
		return p.InstanceNetwork
	case PropInstanceZone:
		return p.InstanceZone
	case PropInstanceBootDiskType:
		return string(p.InstanceBootDiskType)
	case PropInstanceMachineType:
		return p.InstanceMachineType
	case PropContainerManifest:
		return p.ContainerManifest
	}
	return ""
}

func (p *Properties) set(name, value string) {
	switch name {
	case PropInstanceName:
		p.InstanceName = value
	case PropInstanceImage:
		p.InstanceImage = value
	case PropInstanceNetwork:
		p.InstanceNetwork = value
	case PropInstanceZone:
		p.InstanceZone = value
	case PropInstanceBootDiskType:
		p.InstanceBootDiskType = DiskType(value)
	case PropInstanceMachineType:
		p.InstanceMachineType = value
	case PropContainerManifest:
		p.ContainerManifest = value
	}
}

// Validate checks the required properties in resolution order and returns the
// first problem found.
func (p Properties) Validate() error {
	for _, name := range RequiredProperties {
		if strings.TrimSpace(p.get(name)) == "" {
			return &MissingPropertyError{Property: name, Scope: ScopeProperties}
		}
	}
	if !p.InstanceBootDiskType.Valid() {
		return &InvalidPropertyError{
			Property: PropInstanceBootDiskType,
			Value:    p.InstanceBootDiskType,
			Reason:   fmt.Sprintf("must be one of %v", diskTypes),
		}
	}
	return nil
}

// PropertiesFromMap converts the untyped property map of a config resource.
// Scalar values that are not strings are formatted with fmt.Sprint. Unknown
// keys are ignored.
func PropertiesFromMap(m map[string]interface{}) (Properties, error) {
	var p Properties
	for _, name := range RequiredProperties {
		raw, ok := m[name]
		if !ok || raw == nil {
			return Properties{}, &MissingPropertyError{Property: name, Scope: ScopeProperties}
		}

		var value string
		switch v := raw.(type) {
		case string:
			value = v
		case bool, int, int64, uint64, float64:
			value = fmt.Sprint(v)
		default:
			return Properties{}, &InvalidPropertyError{
				Property: name,
				Value:    raw,
				Reason:   fmt.Sprintf("expected a scalar, got %T", raw),
			}
		}
		if strings.TrimSpace(value) == "" {
			return Properties{}, &MissingPropertyError{Property: name, Scope: ScopeProperties}
		}
		p.set(name, value)
	}
	return p, p.Validate()
}
