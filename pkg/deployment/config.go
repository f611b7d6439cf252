// Package deployment reads Deployment Manager configs and expands the
// container VM template invocations they contain.
package deployment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultTemplateType is the resource type that invokes the container VM
// template.
const DefaultTemplateType = "vm_template.py"

var (
	ErrNoResources = errors.New("deployment config declares no resources")
)

// Import is one entry of the config's imports list.
type Import struct {
	Path string `yaml:"path"`
	Name string `yaml:"name,omitempty"`
}

// Key is the name templates use to look the import up.
func (i Import) Key() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Path
}

// Resource is one entry of the config's resources list.
type Resource struct {
	Name       string                 `yaml:"name"`
	Type       string                 `yaml:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
}

// Config is a Deployment Manager configuration file.
type Config struct {
	Imports   []Import   `yaml:"imports,omitempty"`
	Resources []Resource `yaml:"resources"`

	// baseDir anchors relative import paths.
	baseDir string
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data, filepath.Dir(expanded))
}

// LoadFromBytes parses and validates a config whose imports are relative to
// baseDir.
func LoadFromBytes(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.baseDir = baseDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Resources) == 0 {
		return ErrNoResources
	}

	seen := make(map[string]bool, len(c.Resources))
	for i, r := range c.Resources {
		if r.Name == "" {
			return fmt.Errorf("resource %d is missing 'name'", i)
		}
		if r.Type == "" {
			return fmt.Errorf("resource %s is missing 'type'", r.Name)
		}
		if seen[r.Name] {
			return fmt.Errorf("resource name %s is declared more than once", r.Name)
		}
		seen[r.Name] = true
	}

	keys := make(map[string]bool, len(c.Imports))
	for i, imp := range c.Imports {
		if imp.Path == "" {
			return fmt.Errorf("import %d is missing 'path'", i)
		}
		if keys[imp.Key()] {
			return fmt.Errorf("import %s is declared more than once", imp.Key())
		}
		keys[imp.Key()] = true
	}
	return nil
}

// ResolveImports reads every import except the template itself. Relative paths
// are resolved against the config file's directory.
func (c *Config) ResolveImports(templateType string) (template.Imports, error) {
	imports := make(template.Imports, len(c.Imports))
	for _, imp := range c.Imports {
		if imp.Path == templateType || imp.Key() == templateType {
			continue
		}

		path, err := homedir.Expand(imp.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand import path %s: %w", imp.Path, err)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.baseDir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read import %s: %w", imp.Key(), err)
		}
		imports[imp.Key()] = string(data)
	}
	return imports, nil
}

// TemplateResources returns the resources that invoke templateType.
func (c *Config) TemplateResources(templateType string) []Resource {
	var out []Resource
	for _, r := range c.Resources {
		if r.Type == templateType {
			out = append(out, r)
		}
	}
	return out
}
