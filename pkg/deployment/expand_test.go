package deployment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bacalhau-project/vmtemplate/internal/testutil"
	"github.com/bacalhau-project/vmtemplate/pkg/goroutine"
	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/manifest"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Expander", func() {
	var (
		ctx     context.Context
		cfg     *Config
		imports template.Imports
	)

	BeforeEach(func() {
		ctx = logger.IntoContext(context.Background(), logger.NewNopLogger())

		configPath, err := testutil.WriteDeploymentTree(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		cfg, err = Load(configPath)
		Expect(err).NotTo(HaveOccurred())
		imports, err = cfg.ResolveImports(DefaultTemplateType)
		Expect(err).NotTo(HaveOccurred())
	})

	It("expands template invocations in config order", func() {
		e := &Expander{Project: "proj1", Parallelism: 2}
		x, err := e.Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())

		Expect(x.Resources).To(HaveLen(3))
		Expect(x.Instances).To(HaveLen(2))
		Expect(x.Instances[0].Name).To(Equal("web1"))
		Expect(x.Instances[1].Name).To(Equal("web2"))
		Expect(x.Instances[1].Properties.MachineType).To(Equal(
			"https://www.googleapis.com/compute/v1/projects/proj1/zones/europe-west1-b/machineTypes/e2-medium"))

		passed, ok := x.Resources[2].(Resource)
		Expect(ok).To(BeTrue())
		Expect(passed.Type).To(Equal("compute.v1.firewall"))
	})

	It("produces identical output on every run", func() {
		e := &Expander{Project: "proj1"}
		first, err := e.Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())
		firstYAML, err := first.YAML()
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5; i++ {
			again, err := e.Expand(ctx, cfg, imports)
			Expect(err).NotTo(HaveOccurred())
			againYAML, err := again.YAML()
			Expect(err).NotTo(HaveOccurred())
			Expect(againYAML).To(Equal(firstYAML))
		}
	})

	It("embeds a flattened manifest with the inline variant", func() {
		e := &Expander{
			Builder: template.NewBuilder(
				template.WithVariant(template.VariantInline),
				template.WithLogger(logger.NewNopLogger()),
			),
		}
		x, err := e.Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())

		value := x.Instances[0].Properties.Metadata.Items[0].Value.Text
		Expect(value).NotTo(ContainSubstring("\n"))
		equal, err := manifest.Equal(imports["container_manifest.yaml"], value)
		Expect(err).NotTo(HaveOccurred())
		Expect(equal).To(BeTrue())
	})

	It("renders JSON with every resource", func() {
		x, err := (&Expander{Project: "proj1"}).Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())

		out, err := x.JSON()
		Expect(err).NotTo(HaveOccurred())

		var decoded struct {
			Resources []map[string]interface{} `json:"resources"`
		}
		Expect(json.Unmarshal(out, &decoded)).To(Succeed())
		Expect(decoded.Resources).To(HaveLen(3))
		Expect(decoded.Resources[0]).To(HaveKeyWithValue("type", "compute.v1.instance"))
		Expect(decoded.Resources[2]).To(HaveKeyWithValue("type", "compute.v1.firewall"))
	})

	It("fails the whole expansion when one invocation is missing a property", func() {
		delete(cfg.Resources[1].Properties, "instanceZone")

		x, err := (&Expander{Project: "proj1"}).Expand(ctx, cfg, imports)
		Expect(x).To(BeNil())

		var missing *template.MissingPropertyError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Property).To(Equal("instanceZone"))
		Expect(err).To(MatchError(ContainSubstring("resource web2")))
	})

	It("fails when the manifest import is not resolved", func() {
		x, err := (&Expander{Project: "proj1"}).Expand(ctx, cfg, template.Imports{})
		Expect(x).To(BeNil())

		var missing *template.MissingImportError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Key).To(Equal("container_manifest.yaml"))
	})

	It("leaves no expansion workers registered", func() {
		_, err := (&Expander{Project: "proj1", Parallelism: 1}).Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())
		Expect(goroutine.ActiveNames()).NotTo(ContainElement(HavePrefix("expand web")))
	})

	It("logs the workers still running when an invocation fails", func() {
		tl := logger.NewTestLogger(GinkgoT())
		delete(cfg.Resources[1].Properties, "instanceZone")

		_, err := (&Expander{Project: "proj1", Parallelism: 1}).Expand(
			logger.IntoContext(context.Background(), tl.Logger), cfg, imports)
		Expect(err).To(HaveOccurred())
		Expect(tl.GetLogs()).To(ContainElement(And(
			HavePrefix("Expansion of web2 failed while running:"),
			ContainSubstring("expand web2"),
		)))
	})

	It("stops when the context is already cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := (&Expander{Project: "proj1"}).Expand(cancelled, cfg, imports)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("passes everything through when no resource uses the template type", func() {
		x, err := (&Expander{Project: "proj1", TemplateType: "other.jinja"}).Expand(ctx, cfg, imports)
		Expect(err).NotTo(HaveOccurred())
		Expect(x.Instances).To(BeEmpty())
		Expect(x.Resources).To(HaveLen(3))
	})
})
