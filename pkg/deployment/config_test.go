package deployment

import (
	"os"
	"path/filepath"

	"github.com/bacalhau-project/vmtemplate/internal/testdata"
	"github.com/bacalhau-project/vmtemplate/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var configPath string

	BeforeEach(func() {
		var err error
		configPath, err = testutil.WriteDeploymentTree(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Load", func() {
		It("parses imports and resources", func() {
			cfg, err := Load(configPath)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Imports).To(HaveLen(2))
			Expect(cfg.Imports[1].Key()).To(Equal("container_manifest.yaml"))
			Expect(cfg.Imports[0].Key()).To(Equal("vm_template.py"))

			Expect(cfg.Resources).To(HaveLen(3))
			Expect(cfg.TemplateResources(DefaultTemplateType)).To(HaveLen(2))
			Expect(cfg.Resources[0].Properties).To(HaveKeyWithValue("instanceZone", "us-central1-a"))
		})

		It("fails for a missing file", func() {
			_, err := Load(filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
			Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
		})

		It("rejects a config without resources", func() {
			_, err := LoadFromBytes([]byte("imports: []\n"), ".")
			Expect(err).To(MatchError(ErrNoResources))
		})

		It("rejects duplicate resource names", func() {
			_, err := LoadFromBytes([]byte(`
resources:
  - {name: a, type: vm_template.py}
  - {name: a, type: compute.v1.network}
`), ".")
			Expect(err).To(MatchError(ContainSubstring("declared more than once")))
		})

		It("rejects resources without a type", func() {
			_, err := LoadFromBytes([]byte("resources:\n  - name: a\n"), ".")
			Expect(err).To(MatchError(ContainSubstring("missing 'type'")))
		})

		It("rejects malformed YAML", func() {
			_, err := LoadFromBytes([]byte("resources: [\n"), ".")
			Expect(err).To(MatchError(ContainSubstring("failed to parse YAML")))
		})
	})

	Describe("ResolveImports", func() {
		It("reads imports relative to the config and skips the template", func() {
			cfg, err := Load(configPath)
			Expect(err).NotTo(HaveOccurred())

			imports, err := cfg.ResolveImports(DefaultTemplateType)
			Expect(err).NotTo(HaveOccurred())
			Expect(imports).To(HaveLen(1))
			Expect(imports).To(HaveKeyWithValue("container_manifest.yaml", testdata.TestContainerManifest))
		})

		It("reports unreadable imports", func() {
			Expect(os.Remove(filepath.Join(filepath.Dir(configPath),
				filepath.FromSlash(testdata.TestManifestRelativePath)))).To(Succeed())

			cfg, err := Load(configPath)
			Expect(err).NotTo(HaveOccurred())

			_, err = cfg.ResolveImports(DefaultTemplateType)
			Expect(err).To(MatchError(ContainSubstring("failed to read import container_manifest.yaml")))
		})
	})
})
