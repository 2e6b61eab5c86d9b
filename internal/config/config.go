// Package config loads orchestrator configuration: config file, environment
// overrides, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/telhawk-systems/thawk-deploy/internal/content"
)

// Config is the full orchestrator configuration. Target identity has no
// defaults; everything operational does.
type Config struct {
	Subscription  string   `mapstructure:"subscription"`
	ResourceGroup string   `mapstructure:"resource_group"`
	Workspace     string   `mapstructure:"workspace"`
	Region        string   `mapstructure:"region"`
	Gov           bool     `mapstructure:"gov"`
	Token         string   `mapstructure:"token"`
	Packages      []string `mapstructure:"packages"`
	Severities    []string `mapstructure:"severities"`

	InterPhaseDelay time.Duration `mapstructure:"inter_phase_delay"`
	Stagger         time.Duration `mapstructure:"stagger"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	DeployTimeout   time.Duration `mapstructure:"deploy_timeout"`
	ErrorLog        string        `mapstructure:"error_log"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig holds log level and format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from cfgFile (or the default location when empty),
// with THAWK_DEPLOY_* environment variables overriding file values. A missing
// config file is fine; defaults cover everything but the target identity.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("severities", content.DefaultSeverities)
	v.SetDefault("inter_phase_delay", 30*time.Second)
	v.SetDefault("stagger", 500*time.Millisecond)
	v.SetDefault("poll_interval", 5*time.Second)
	v.SetDefault("deploy_timeout", 10*time.Minute)
	v.SetDefault("error_log", "deploy-errors.log")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if cfgFile == "" {
		configDir := os.Getenv("THAWK_DEPLOY_CONFIG_DIR")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to determine home directory: %w", err)
			}
			configDir = filepath.Join(home, ".thawk-deploy")
		}
		cfgFile = filepath.Join(configDir, "config.yaml")
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("THAWK_DEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Viper needs explicit bindings for nested keys
	_ = v.BindEnv("token", "THAWK_DEPLOY_TOKEN")
	_ = v.BindEnv("subscription", "THAWK_DEPLOY_SUBSCRIPTION")
	_ = v.BindEnv("resource_group", "THAWK_DEPLOY_RESOURCE_GROUP")
	_ = v.BindEnv("workspace", "THAWK_DEPLOY_WORKSPACE")
	_ = v.BindEnv("region", "THAWK_DEPLOY_REGION")
	_ = v.BindEnv("logging.level", "THAWK_DEPLOY_LOG_LEVEL")
	_ = v.BindEnv("logging.format", "THAWK_DEPLOY_LOG_FORMAT")

	_ = v.ReadInConfig() // file may not exist yet

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields every command needs. Region and package names
// are checked by the install path, the only one that uses them.
func (c *Config) Validate() error {
	var missing []string
	if c.Subscription == "" {
		missing = append(missing, "subscription")
	}
	if c.ResourceGroup == "" {
		missing = append(missing, "resource group")
	}
	if c.Workspace == "" {
		missing = append(missing, "workspace")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Token == "" {
		return errors.New("no bearer token configured (set THAWK_DEPLOY_TOKEN or --token)")
	}
	return nil
}
