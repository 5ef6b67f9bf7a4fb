package conntest

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// AuthConfig holds basic-auth configuration for the standalone daemon
type AuthConfig struct {
	Username string `toml:"username"` // Require basic auth when set
	Password string `toml:"password"` // Expected password
}

// PluginParam describes one advertised connector plugin
type PluginParam struct {
	Class   string `toml:"class"`
	Type    string `toml:"type"`
	Version string `toml:"version"`
}

// ConfigParam holds all configuration parameters for the standalone
// connect-mock daemon
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName string `toml:"server_hostname"` // Hostname for the server
	ServerPort     string `toml:"server_port"`     // Port for the server
	HandleCORS     bool   `toml:"handle_cors"`     // Whether to handle CORS

	// Advertised worker identity
	Version        string `toml:"version"`          // Worker version reported on GET /
	Commit         string `toml:"commit"`           // Commit hash reported on GET /
	KafkaClusterID string `toml:"kafka_cluster_id"` // Backing Kafka cluster id
	WorkerID       string `toml:"worker_id"`        // Worker id reported in statuses

	// Behavior shaping
	Latency string `toml:"latency"` // Artificial delay per request, e.g. "50ms"

	// Auth configuration
	Auth AuthConfig `toml:"auth"`

	// Plugin catalog
	Plugins []PluginParam `toml:"plugins"`
}

// GetLatency returns the configured latency as time.Duration
func (c *ConfigParam) GetLatency() (time.Duration, error) {
	if c.Latency == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Latency)
}

// Options converts the file configuration into server options.
func (c *ConfigParam) Options() Options {
	opts := Options{
		Version:        c.Version,
		Commit:         c.Commit,
		KafkaClusterID: c.KafkaClusterID,
		WorkerID:       c.WorkerID,
		Username:       c.Auth.Username,
		Password:       c.Auth.Password,
		HandleCORS:     c.HandleCORS,
	}
	if latency, err := c.GetLatency(); err == nil {
		opts.Latency = latency
	}
	for _, p := range c.Plugins {
		opts.Plugins = append(opts.Plugins, PluginInfo{
			Class:   p.Class,
			Type:    p.Type,
			Version: p.Version,
		})
	}
	return opts
}

// ValidateConfig checks if all required configuration values are present and valid
func ValidateConfig(cfg *ConfigParam) error {
	// Check if the config file format version is supported
	if cfg.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}

	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	if cfg.ServerHostName == "" {
		cfg.ServerHostName = "127.0.0.1"
	}

	if _, err := cfg.GetLatency(); err != nil {
		return fmt.Errorf("invalid latency: %v", err)
	}

	if cfg.Auth.Username == "" && cfg.Auth.Password != "" {
		return fmt.Errorf("auth.username is required when auth.password is set")
	}

	return nil
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*ConfigParam, error) {
	if filename == "" {
		return nil, fmt.Errorf("config filename is required")
	}

	// Read and parse the config file
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	cfg := &ConfigParam{}
	if _, err := toml.Decode(string(content), cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return cfg, nil
}
