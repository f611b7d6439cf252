package deployment

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/bacalhau-project/vmtemplate/pkg/goroutine"
	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

// Expander expands the template invocations of a config.
type Expander struct {
	Builder      *template.Builder
	TemplateType string
	Project      string
	// Parallelism bounds concurrent expansions; zero means GOMAXPROCS.
	Parallelism int
}

// Expansion is the expanded config. Resources holds template.Resource values
// for expanded invocations and Resource values passed through unchanged.
type Expansion struct {
	Resources []interface{}
	Instances []template.Resource
}

type expansionDocument struct {
	Resources []interface{} `yaml:"resources"`
}

func (e *Expander) templateType() string {
	if e.TemplateType == "" {
		return DefaultTemplateType
	}
	return e.TemplateType
}

// Expand renders every invocation of the template concurrently. Output order
// follows the config. The first failure cancels the rest and is returned.
func (e *Expander) Expand(
	ctx context.Context,
	cfg *Config,
	imports template.Imports,
) (*Expansion, error) {
	l := logger.FromContext(ctx)
	builder := e.Builder
	if builder == nil {
		builder = template.NewBuilder(template.WithLogger(l))
	}

	parallelism := e.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	env := template.Env{Project: e.Project}
	generated := make([]*template.Document, len(cfg.Resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, res := range cfg.Resources {
		if res.Type != e.templateType() {
			continue
		}
		g.Go(func() error {
			id := goroutine.RegisterGoroutine("expand " + res.Name)
			defer goroutine.DeregisterGoroutine(id)

			if err := gctx.Err(); err != nil {
				return err
			}

			fail := func(err error) error {
				l.Debugf("Expansion of %s failed while running: %v", res.Name, goroutine.ActiveNames())
				return fmt.Errorf("resource %s: %w", res.Name, err)
			}

			props, err := template.PropertiesFromMap(res.Properties)
			if err != nil {
				return fail(err)
			}

			doc, err := builder.Generate(template.Context{
				Properties: props,
				Imports:    imports,
				Env:        env,
			})
			if err != nil {
				return fail(err)
			}

			l.Debugf("Expanded resource %s into %d resource(s)", res.Name, len(doc.Resources))
			generated[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Expansion{}
	for i, res := range cfg.Resources {
		if generated[i] == nil {
			out.Resources = append(out.Resources, res)
			continue
		}
		for _, r := range generated[i].Resources {
			out.Resources = append(out.Resources, r)
			out.Instances = append(out.Instances, r)
		}
	}

	l.Infof("Expanded %d template invocation(s), passed %d resource(s) through",
		len(out.Instances), len(out.Resources)-len(out.Instances))
	return out, nil
}

// YAML serializes the expansion as a single resources document.
func (x *Expansion) YAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(expansionDocument{Resources: x.Resources}); err != nil {
		return nil, fmt.Errorf("failed to encode expansion to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode expansion to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func (x *Expansion) JSON() ([]byte, error) {
	y, err := x.YAML()
	if err != nil {
		return nil, err
	}
	j, err := k8syaml.YAMLToJSON(y)
	if err != nil {
		return nil, fmt.Errorf("failed to convert expansion to JSON: %w", err)
	}
	return j, nil
}
