package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bacalhau-project/vmtemplate/pkg/deployment"
	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "VMTEMPLATE"
	defaultConfigName = ".vmtemplate"
)

// Viper keys.
const (
	keyProject      = "project"
	keyVariant      = "variant"
	keyOutput       = "output"
	keyTemplateType = "template_type"
	keyLogLevel     = "log_level"
	keyLogFile      = "log_file"
	keyParallelism  = "parallelism"
)

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile     string
		envFile     string
		verboseMode bool
	)

	rootCmd := &cobra.Command{
		Use:   "vmtemplate",
		Short: "Expand container VM templates into Deployment Manager resources",
		Long: `vmtemplate expands high-level container VM descriptions into the
compute.v1.instance resources consumed by Google Cloud Deployment Manager.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			return initLogger(verboseMode)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/"+defaultConfigName+".yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"dotenv file with "+envPrefix+"_* settings")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
	_ = viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(keyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(
		newRenderCmd(),
		newEmbedCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func setDefaults() {
	viper.SetDefault(keyVariant, string(template.VariantQualified))
	viper.SetDefault(keyOutput, outputYAML)
	viper.SetDefault(keyTemplateType, deployment.DefaultTemplateType)
	viper.SetDefault(keyLogLevel, logger.InfoLogLevel)
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cfgFile string) error {
	setDefaults()
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path: %w", err)
		}
		viper.SetConfigFile(path)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	if viper.ConfigFileUsed() != "" {
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, defaultConfigName+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// loadEnvFile exports the variables of a dotenv file. Variables already set in
// the environment win.
func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	path, err := homedir.Expand(envFile)
	if err != nil {
		return fmt.Errorf("failed to expand env file path: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func initLogger(verbose bool) error {
	level := viper.GetString(keyLogLevel)
	if verbose {
		level = "debug"
	}
	return logger.Initialize(logger.Config{
		Level:         level,
		FilePath:      viper.GetString(keyLogFile),
		EnableConsole: true,
	})
}

// bindFlags binds the flags of the running command to viper keys. Binding
// happens at run time because sibling commands share keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
