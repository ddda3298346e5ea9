package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the project-level configuration directory.
const DirName = ".typekeep"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TYPEKEEP_*)
// 2. Config file (.typekeep/config.yml or .typekeep/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	// TYPEKEEP_ARTIFACTS_AMBIENT etc.
	v.SetEnvPrefix("TYPEKEEP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("artifacts.ambient")
	v.BindEnv("artifacts.runtime")
	v.BindEnv("discovery.include")
	v.BindEnv("discovery.ignore")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	targets := make([]map[string]any, 0, len(defaults.Targets))
	for _, target := range defaults.Targets {
		targets = append(targets, map[string]any{
			"name":      target.Name,
			"sentinels": target.Sentinels,
		})
	}
	v.SetDefault("targets", targets)

	v.SetDefault("artifacts.ambient", defaults.Artifacts.Ambient)
	v.SetDefault("artifacts.runtime", defaults.Artifacts.Runtime)

	v.SetDefault("discovery.include", defaults.Discovery.Include)
	v.SetDefault("discovery.ignore", defaults.Discovery.Ignore)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
