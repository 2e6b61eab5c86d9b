package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a YAML file naming the content to deploy, as an alternative to
// repeating --package flags:
//
//	packages:
//	  - Syslog
//	  - Windows Security Events
//	severities: [High, Medium]
type Manifest struct {
	Packages   []string `yaml:"packages"`
	Severities []string `yaml:"severities"`
}

// LoadManifest reads and parses a deployment manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Apply merges the manifest into cfg. Flag and environment values win: the
// manifest only fills in what is still empty.
func (m *Manifest) Apply(cfg *Config) {
	if len(cfg.Packages) == 0 {
		cfg.Packages = m.Packages
	}
	if len(m.Severities) > 0 {
		cfg.Severities = m.Severities
	}
}
