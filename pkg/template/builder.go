// Package template expands container VM properties into a Deployment Manager
// resource document holding one compute.v1.instance.
package template

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/manifest"
	"gopkg.in/yaml.v3"
)

// Variant selects how references and the manifest are rendered.
type Variant string

const (
	// VariantQualified passes the manifest through verbatim and renders
	// machine type, image and network as fully-qualified URLs.
	VariantQualified Variant = "qualified"
	// VariantInline flattens the manifest to a single double-quoted line and
	// renders references as paths relative to the deployment project.
	VariantInline Variant = "inline"
)

const (
	accessConfigNameQualified = "external-nat"
	accessConfigNameInline    = "External NAT"
	diskNameSuffix            = "-disk"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantQualified, "":
		return VariantQualified, nil
	case VariantInline:
		return VariantInline, nil
	}
	return "", fmt.Errorf("unknown variant %q (expected %q or %q)", s, VariantQualified, VariantInline)
}

// Builder renders Contexts into Documents. It holds no per-call state and is
// safe for concurrent use.
type Builder struct {
	variant Variant
	logger  *logger.Logger
}

type Option func(*Builder)

func WithVariant(v Variant) Option {
	return func(b *Builder) {
		b.variant = v
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{variant: VariantQualified}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Variant() Variant {
	return b.variant
}

func (b *Builder) log() *logger.Logger {
	if b.logger != nil {
		return b.logger
	}
	return logger.Get()
}

// Build renders c with the qualified variant.
func Build(c Context) (string, error) {
	return NewBuilder().Build(c)
}

// Build renders c and serializes the document to YAML.
func (b *Builder) Build(c Context) (string, error) {
	doc, err := b.Generate(c)
	if err != nil {
		return "", err
	}
	out, err := doc.YAML()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Generate assembles the resource document for c. On error no document is
// returned.
func (b *Builder) Generate(c Context) (*Document, error) {
	p := c.Properties
	if err := p.Validate(); err != nil {
		return nil, err
	}

	manifestText, ok := c.Imports[p.ContainerManifest]
	if !ok {
		return nil, &MissingImportError{Key: p.ContainerManifest}
	}
	if !utf8.ValidString(manifestText) {
		return nil, fmt.Errorf("import %q: %w",
			p.ContainerManifest, &manifest.ParseError{Err: manifest.ErrInvalidUTF8})
	}

	var (
		props InstanceProperties
		err   error
	)
	switch b.variant {
	case VariantQualified, "":
		props, err = qualifiedProperties(p, c.Env, manifestText)
	case VariantInline:
		props, err = inlineProperties(p, manifestText)
	default:
		err = fmt.Errorf("unknown variant %q", b.variant)
	}
	if err != nil {
		return nil, err
	}

	b.log().DebugWithFields("generated instance resource",
		logger.String("instance", p.InstanceName),
		logger.String("zone", p.InstanceZone),
		logger.String("variant", string(b.variant)),
	)

	return &Document{
		Resources: []Resource{{
			Type:       ResourceTypeInstance,
			Name:       p.InstanceName,
			Properties: props,
		}},
	}, nil
}

func qualifiedProperties(p Properties, env Env, manifestText string) (InstanceProperties, error) {
	if strings.TrimSpace(env.Project) == "" {
		return InstanceProperties{}, &MissingPropertyError{Property: EnvProject, Scope: ScopeEnv}
	}

	return instanceProperties(
		p,
		ZonalComputeURL(env.Project, p.InstanceZone, "machineTypes", p.InstanceMachineType),
		MetadataValue{Text: manifestText},
		InitializeParams{
			DiskName:    p.InstanceName + diskNameSuffix,
			SourceImage: GlobalComputeURL(ContainerImageProject, "images", p.InstanceImage),
		},
		GlobalComputeURL(env.Project, "networks", p.InstanceNetwork),
		accessConfigNameQualified,
	), nil
}

func inlineProperties(p Properties, manifestText string) (InstanceProperties, error) {
	embedded, err := manifest.Embed(manifestText)
	if err != nil {
		return InstanceProperties{}, fmt.Errorf("import %q: %w", p.ContainerManifest, err)
	}

	return instanceProperties(
		p,
		zonalPath(p.InstanceZone, "machineTypes", p.InstanceMachineType),
		MetadataValue{Text: embedded, Style: yaml.DoubleQuotedStyle},
		InitializeParams{
			SourceImage: projectGlobalPath(ContainerImageProject, "images", p.InstanceImage),
		},
		globalPath("networks", p.InstanceNetwork),
		accessConfigNameInline,
	), nil
}

func instanceProperties(
	p Properties,
	machineType string,
	manifestValue MetadataValue,
	initParams InitializeParams,
	network string,
	accessConfigName string,
) InstanceProperties {
	return InstanceProperties{
		Zone:        p.InstanceZone,
		MachineType: machineType,
		Metadata: Metadata{
			Items: []MetadataItem{{Key: ContainerManifestKey, Value: manifestValue}},
		},
		Disks: []AttachedDisk{{
			DeviceName:       BootDeviceName,
			Type:             DiskTypePersistent,
			DiskType:         p.InstanceBootDiskType,
			DiskSizeGb:       BootDiskSizeGb,
			Boot:             true,
			AutoDelete:       true,
			InitializeParams: initParams,
		}},
		NetworkInterfaces: []NetworkInterface{{
			Network: network,
			AccessConfigs: []AccessConfig{{
				Name: accessConfigName,
				Type: AccessConfigOneToOneNAT,
			}},
		}},
	}
}
