// Package config holds the operator tool configuration and the persisted
// active realm/sandbox context.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultRealm is the realm selected when no context file exists yet.
	DefaultRealm = "arvato"

	contextFile = "context"
	configFile  = "config.toml"
)

// Paths holds the directories sfcc reads and writes.
type Paths struct {
	ConfigDir string // tool config and context file
	LogsDir   string // per-run pipeline logs
	WorkDir   string // parent for per-run temporary working directories
}

// DefaultPaths returns the standard paths rooted at ~/.sfcc.
func DefaultPaths() *Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".sfcc")
	return &Paths{
		ConfigDir: base,
		LogsDir:   filepath.Join(base, "logs"),
		WorkDir:   os.TempDir(),
	}
}

// Config is the operator tool configuration loaded from config.toml.
// All fields have working defaults; the file is optional.
type Config struct {
	DefaultRealm string `toml:"default_realm"`

	// InstanceSuffix overrides the domain suffix used to build sandbox
	// hostnames. Empty means the client's built-in default.
	InstanceSuffix string `toml:"instance_suffix"`

	Storefront RepoConfig `toml:"storefront"`
	DemoData   RepoConfig `toml:"demo_data"`
}

// RepoConfig describes one upstream source repository and how to build it.
type RepoConfig struct {
	URL string `toml:"url"`

	// BuildSteps overrides the default build commands, one shell-quoted
	// command per entry.
	BuildSteps []string `toml:"build_steps"`
}

// DefaultConfig returns the built-in configuration for the reference
// storefront and its demo data.
func DefaultConfig() *Config {
	return &Config{
		DefaultRealm: DefaultRealm,
		Storefront: RepoConfig{
			URL: "https://github.com/SalesforceCommerceCloud/storefront-reference-architecture.git",
		},
		DemoData: RepoConfig{
			URL: "https://github.com/SalesforceCommerceCloud/storefrontdata.git",
		},
	}
}

// LoadConfig reads config.toml from configDir, falling back to defaults for
// a missing file. Unset fields keep their default values.
func LoadConfig(configDir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(configDir, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.DefaultRealm == "" {
		cfg.DefaultRealm = DefaultRealm
	}
	return cfg, nil
}
