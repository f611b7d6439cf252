package gcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToInstance converts an expanded instance resource into the body of a Compute
// Engine instances.insert request.
func ToInstance(r template.Resource) (*computepb.Instance, error) {
	if r.Type != template.ResourceTypeInstance {
		return nil, fmt.Errorf("resource %s has type %s, expected %s",
			r.Name, r.Type, template.ResourceTypeInstance)
	}
	if r.Name == "" {
		return nil, fmt.Errorf("resource name is not set")
	}

	p := r.Properties
	if p.Zone == "" {
		return nil, fmt.Errorf("zone is not set on resource %s", r.Name)
	}

	instance := &computepb.Instance{
		Name:        proto.String(r.Name),
		Zone:        proto.String(p.Zone),
		MachineType: proto.String(p.MachineType),
		Metadata:    &computepb.Metadata{},
	}

	for _, item := range p.Metadata.Items {
		instance.Metadata.Items = append(instance.Metadata.Items, &computepb.Items{
			Key:   proto.String(item.Key),
			Value: proto.String(item.Value.Text),
		})
	}

	for _, d := range p.Disks {
		params := &computepb.AttachedDiskInitializeParams{
			DiskSizeGb:  proto.Int64(int64(d.DiskSizeGb)),
			DiskType:    proto.String(diskTypePath(p.Zone, string(d.DiskType))),
			SourceImage: proto.String(d.InitializeParams.SourceImage),
		}
		if d.InitializeParams.DiskName != "" {
			params.DiskName = proto.String(d.InitializeParams.DiskName)
		}
		instance.Disks = append(instance.Disks, &computepb.AttachedDisk{
			AutoDelete:       proto.Bool(d.AutoDelete),
			Boot:             proto.Bool(d.Boot),
			DeviceName:       proto.String(d.DeviceName),
			Type:             proto.String(d.Type),
			InitializeParams: params,
		})
	}

	for _, nic := range p.NetworkInterfaces {
		ni := &computepb.NetworkInterface{
			Network: proto.String(nic.Network),
		}
		for _, ac := range nic.AccessConfigs {
			ni.AccessConfigs = append(ni.AccessConfigs, &computepb.AccessConfig{
				Name: proto.String(ac.Name),
				Type: proto.String(ac.Type),
			})
		}
		instance.NetworkInterfaces = append(instance.NetworkInterfaces, ni)
	}

	return instance, nil
}

// InstancesFromDocument converts every resource of doc.
func InstancesFromDocument(doc *template.Document) ([]*computepb.Instance, error) {
	instances := make([]*computepb.Instance, 0, len(doc.Resources))
	for _, r := range doc.Resources {
		instance, err := ToInstance(r)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// MarshalInstances renders instances as an indented JSON array using the
// Compute Engine API field names.
func MarshalInstances(instances []*computepb.Instance) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(instances))
	for _, instance := range instances {
		b, err := protojson.Marshal(instance)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal instance %s: %w", instance.GetName(), err)
		}
		raw = append(raw, b)
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instances: %w", err)
	}
	return out, nil
}

// diskTypePath qualifies a bare disk type name with its zone. Values that
// already carry a path are returned unchanged.
func diskTypePath(zone, diskType string) string {
	if strings.Contains(diskType, "/") {
		return diskType
	}
	return fmt.Sprintf("zones/%s/diskTypes/%s", zone, diskType)
}
