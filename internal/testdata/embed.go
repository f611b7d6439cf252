package testdata

import _ "embed"

//go:embed configs/deployment.yaml
var TestDeploymentConfig string

//go:embed manifests/container_manifest.yaml
var TestContainerManifest string

//go:embed configs/tool.yaml
var TestToolConfig string

// TestManifestRelativePath is the import path used by TestDeploymentConfig.
const TestManifestRelativePath = "../manifests/container_manifest.yaml"
