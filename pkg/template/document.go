package template

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

const (
	ResourceTypeInstance    = "compute.v1.instance"
	ContainerManifestKey    = "google-container-manifest"
	BootDeviceName          = "boot"
	DiskTypePersistent      = "PERSISTENT"
	BootDiskSizeGb          = 10
	AccessConfigOneToOneNAT = "ONE_TO_ONE_NAT"
)

// Document is the expanded configuration handed back to the templating engine.
type Document struct {
	Resources []Resource `yaml:"resources" json:"resources"`
}

type Resource struct {
	Type       string             `yaml:"type"       json:"type"`
	Name       string             `yaml:"name"       json:"name"`
	Properties InstanceProperties `yaml:"properties" json:"properties"`
}

type InstanceProperties struct {
	Zone              string             `yaml:"zone"              json:"zone"`
	MachineType       string             `yaml:"machineType"       json:"machineType"`
	Metadata          Metadata           `yaml:"metadata"          json:"metadata"`
	Disks             []AttachedDisk     `yaml:"disks"             json:"disks"`
	NetworkInterfaces []NetworkInterface `yaml:"networkInterfaces" json:"networkInterfaces"`
}

type Metadata struct {
	Items []MetadataItem `yaml:"items" json:"items"`
}

type MetadataItem struct {
	Key   string        `yaml:"key"   json:"key"`
	Value MetadataValue `yaml:"value" json:"value"`
}

// MetadataValue is a string scalar whose YAML quoting style is fixed by the
// builder. The emitter applies the escaping that style requires.
type MetadataValue struct {
	Text  string
	Style yaml.Style
}

func (v MetadataValue) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: v.Text,
		Style: v.Style,
	}, nil
}

func (v *MetadataValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("metadata value must be a scalar, got kind %d", n.Kind)
	}
	v.Text = n.Value
	v.Style = n.Style
	return nil
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Text)
}

func (v MetadataValue) String() string {
	return v.Text
}

type AttachedDisk struct {
	DeviceName       string           `yaml:"deviceName"       json:"deviceName"`
	Type             string           `yaml:"type"             json:"type"`
	DiskType         DiskType         `yaml:"diskType"         json:"diskType"`
	DiskSizeGb       int              `yaml:"diskSizeGb"       json:"diskSizeGb"`
	Boot             bool             `yaml:"boot"             json:"boot"`
	AutoDelete       bool             `yaml:"autoDelete"       json:"autoDelete"`
	InitializeParams InitializeParams `yaml:"initializeParams" json:"initializeParams"`
}

type InitializeParams struct {
	DiskName    string `yaml:"diskName,omitempty" json:"diskName,omitempty"`
	SourceImage string `yaml:"sourceImage"        json:"sourceImage"`
}

type NetworkInterface struct {
	Network       string         `yaml:"network"       json:"network"`
	AccessConfigs []AccessConfig `yaml:"accessConfigs" json:"accessConfigs"`
}

type AccessConfig struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// YAML serializes the document with two-space indentation.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode document to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON serializes the document as JSON, derived from its YAML form so both
// renderings carry the same values.
func (d *Document) JSON() ([]byte, error) {
	y, err := d.YAML()
	if err != nil {
		return nil, err
	}
	j, err := k8syaml.YAMLToJSON(y)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to JSON: %w", err)
	}
	return j, nil
}

// ParseDocument reads a document previously produced by YAML.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &d, nil
}

// ManifestValue returns the container manifest metadata value of the first
// resource.
func (d *Document) ManifestValue() (string, bool) {
	if len(d.Resources) == 0 {
		return "", false
	}
	for _, item := range d.Resources[0].Properties.Metadata.Items {
		if item.Key == ContainerManifestKey {
			return item.Value.Text, true
		}
	}
	return "", false
}
