package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("THAWK_DEPLOY_CONFIG_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"High", "Medium", "Low"}, cfg.Severities)
	assert.Equal(t, 30*time.Second, cfg.InterPhaseDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Stagger)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.DeployTimeout)
	assert.Equal(t, "deploy-errors.log", cfg.ErrorLog)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Gov)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
subscription: sub-42
resource_group: security-rg
workspace: prod-ws
region: westeurope
gov: true
severities: [High]
inter_phase_delay: 1m
`), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "sub-42", cfg.Subscription)
	assert.Equal(t, "security-rg", cfg.ResourceGroup)
	assert.Equal(t, "prod-ws", cfg.Workspace)
	assert.Equal(t, "westeurope", cfg.Region)
	assert.True(t, cfg.Gov)
	assert.Equal(t, []string{"High"}, cfg.Severities)
	assert.Equal(t, time.Minute, cfg.InterPhaseDelay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("THAWK_DEPLOY_CONFIG_DIR", t.TempDir())
	t.Setenv("THAWK_DEPLOY_TOKEN", "env-token")
	t.Setenv("THAWK_DEPLOY_WORKSPACE", "env-ws")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "env-ws", cfg.Workspace)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))

	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Subscription:  "sub-1",
		ResourceGroup: "rg-1",
		Workspace:     "ws-1",
		Token:         "tok",
	}
	assert.NoError(t, cfg.Validate())

	cfg.Token = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")

	cfg = &Config{Token: "tok"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription")
	assert.Contains(t, err.Error(), "resource group")
	assert.Contains(t, err.Error(), "workspace")
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packages:
  - Syslog
  - Windows Security Events
severities: [High, Medium]
`), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Syslog", "Windows Security Events"}, m.Packages)
	assert.Equal(t, []string{"High", "Medium"}, m.Severities)
}

func TestManifest_ApplyFillsGapsOnly(t *testing.T) {
	m := &Manifest{Packages: []string{"Syslog"}, Severities: []string{"High"}}

	cfg := &Config{Severities: []string{"High", "Medium", "Low"}}
	m.Apply(cfg)
	assert.Equal(t, []string{"Syslog"}, cfg.Packages)
	assert.Equal(t, []string{"High"}, cfg.Severities, "manifest severities replace defaults")

	cfg = &Config{Packages: []string{"CEF"}}
	m.Apply(cfg)
	assert.Equal(t, []string{"CEF"}, cfg.Packages, "existing packages win over the manifest")
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
