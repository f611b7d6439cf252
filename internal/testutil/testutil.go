package testutil

import (
	"os"
	"path/filepath"

	"github.com/bacalhau-project/vmtemplate/internal/testdata"
	"github.com/spf13/viper"
)

// InitializeTestViper resets the global viper and loads testConfig into it.
func InitializeTestViper(testConfig string) (*viper.Viper, error) {
	viper.Reset()
	configFile, cleanup, err := WriteStringToTempFile(testConfig)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return viper.GetViper(), nil
}

func WriteStringToTempFile(content string) (string, func(), error) {
	tempFile, err := os.CreateTemp("", "temp-*")
	if err != nil {
		return "", nil, err
	}

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", nil, err
	}

	tempFile.Close()

	cleanup := func() {
		os.Remove(tempFile.Name())
	}

	return tempFile.Name(), cleanup, nil
}

// WriteDeploymentTree lays out the test deployment config and its manifest
// under root and returns the path of the config file.
func WriteDeploymentTree(root string) (string, error) {
	configDir := filepath.Join(root, "configs")
	configPath := filepath.Join(configDir, "deployment.yaml")
	manifestPath := filepath.Join(configDir, filepath.FromSlash(testdata.TestManifestRelativePath))

	for _, f := range []struct {
		path    string
		content string
	}{
		{configPath, testdata.TestDeploymentConfig},
		{manifestPath, testdata.TestContainerManifest},
	} {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o600); err != nil {
			return "", err
		}
	}
	return configPath, nil
}
