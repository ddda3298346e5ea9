package config

import (
	"github.com/mvp-joe/typekeep/internal/declaration"
)

// Config represents the complete typekeep configuration.
// It can be loaded from .typekeep/config.yml with environment variable overrides.
type Config struct {
	Targets   []TargetConfig  `yaml:"targets" mapstructure:"targets"`
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
}

// TargetConfig names one exported binding to preserve and the placeholder
// type names that mark it as a stub.
type TargetConfig struct {
	Name      string   `yaml:"name" mapstructure:"name"`
	Sentinels []string `yaml:"sentinels" mapstructure:"sentinels"`
}

// ArtifactsConfig names the generated files inside an artifact directory.
type ArtifactsConfig struct {
	Ambient string `yaml:"ambient" mapstructure:"ambient"` // type-only artifact, e.g. api.d.ts
	Runtime string `yaml:"runtime" mapstructure:"runtime"` // runtime artifact, e.g. api.ts
}

// DiscoveryConfig defines which directories hold generated artifacts.
type DiscoveryConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for artifact directories
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Targets: []TargetConfig{
			{Name: "components", Sentinels: []string{"AnyComponents"}},
		},
		Artifacts: ArtifactsConfig{
			Ambient: "api.d.ts",
			Runtime: "api.ts",
		},
		Discovery: DiscoveryConfig{
			Include: []string{"**/_generated"},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				"dist/**",
			},
		},
	}
}

// Policy converts the configured targets into a per-target sentinel policy.
// Target names are unique in a validated configuration.
func (c *Config) Policy() declaration.Policy {
	policy := make(declaration.Policy, len(c.Targets))
	for _, target := range c.Targets {
		policy[target.Name] = declaration.NewSentinelSet(target.Sentinels...)
	}
	return policy
}

// TargetNames returns the configured target names in declaration order.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for _, target := range c.Targets {
		names = append(names, target.Name)
	}
	return names
}
