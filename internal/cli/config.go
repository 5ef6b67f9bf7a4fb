package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the kconnect CLI.
// It contains worker connection details and authentication information.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" json:"version"`
	// ServerURL is the URL of the Connect worker, e.g. http://localhost:8083
	ServerURL string `yaml:"server_url" json:"server_url"`
	// Username enables basic authentication when set
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	// Password is the basic-auth password
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// RequestTimeout bounds one request, e.g. "30s"
	RequestTimeout string `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
	// InsecureSkipVerify accepts any TLS certificate the worker presents
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
	// ProxyURL routes requests through the given proxy
	ProxyURL string `yaml:"proxy_url,omitempty" json:"proxy_url,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file,
// ~/.kconnect/config.yaml.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kconnect", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	c, err := parseConfig(yamlStr)
	if err != nil {
		return err
	}

	config = c
	return nil
}

// parseConfig unmarshals and validates a configuration document.
func parseConfig(yamlStr []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(yamlStr, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	// Validate required fields
	if c.ServerURL == "" {
		return nil, errors.New("server_url is required")
	}
	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return nil, fmt.Errorf("invalid request_timeout: %w", err)
		}
	}

	// Morph the server URL before storing
	c.ServerURL = MorphServer(c.ServerURL)

	return &c, nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file
// If no file is specified, it uses the default config location
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ClientConfig converts the CLI configuration into a client configuration.
func (cfg *Config) ClientConfig() *connect.Config {
	out := &connect.Config{
		URL:                MorphServer(cfg.ServerURL),
		Username:           cfg.Username,
		Password:           cfg.Password,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		ProxyURL:           cfg.ProxyURL,
	}
	if cfg.RequestTimeout != "" {
		if timeout, err := time.ParseDuration(cfg.RequestTimeout); err == nil {
			out.RequestTimeout = timeout
		}
	}
	return out
}

// newConnectClient returns a client for the configured worker.
func newConnectClient() *connect.Client {
	return connect.NewClient(GetConfig().ClientConfig())
}

// MorphServer ensures the server URL is properly formatted
// Adds http:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	// Remove any trailing slashes
	server = strings.TrimRight(server, "/")

	// Add http:// if no protocol is specified
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}

	return server
}

// redacted returns a copy safe to print: secrets replaced, never removed,
// so operators can see a password is set.
func (cfg *Config) redacted() Config {
	out := *cfg
	if out.Password != "" {
		out.Password = "********"
	}
	return out
}

// configJSON renders the raw config file as JSON so gjson paths apply.
func configJSON(file string) ([]byte, error) {
	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	jsonStr, err := sigsyaml.YAMLToJSON(yamlStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	return jsonStr, nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like worker connection and authentication.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return nil
	},
}

// configInitCmd creates a fresh configuration file
var configInitCmd = &cobra.Command{
	Use:   "init --server URL [flags]",
	Short: "Create the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		if server == "" {
			return errors.New("--server is required (e.g. http://localhost:8083)")
		}
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		cfg := &Config{
			Version:   "0.1.0",
			ServerURL: MorphServer(server),
			Username:  username,
			Password:  password,
		}
		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{
				"server":      cfg.ServerURL,
				"config_file": configFile,
			})
		} else {
			fmt.Printf("Worker configured: %s\n", cfg.ServerURL)
			fmt.Printf("Config file: %s\n", configFile)
		}
		return nil
	},
}

// configViewCmd prints the configuration with secrets redacted
var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			return err
		}
		redacted := GetConfig().redacted()

		if jsonOutput {
			printJSON(redacted)
			return nil
		}
		yamlStr, err := yaml.Marshal(redacted)
		if err != nil {
			return fmt.Errorf("unable to render configuration: %w", err)
		}
		fmt.Print(string(yamlStr))
		return nil
	},
}

// configGetCmd prints one configuration value by path
var configGetCmd = &cobra.Command{
	Use:   "get PATH",
	Short: "Print one configuration value (e.g. kconnect config get server_url)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonStr, err := configJSON(configFile)
		if err != nil {
			return err
		}
		value := gjson.GetBytes(jsonStr, args[0])
		if !value.Exists() {
			return fmt.Errorf("no such configuration key: %s", args[0])
		}
		if jsonOutput {
			printJSON(map[string]any{"key": args[0], "value": value.Value()})
			return nil
		}
		fmt.Println(value.String())
		return nil
	},
}

// configSetCmd updates one configuration value by path
var configSetCmd = &cobra.Command{
	Use:   "set PATH VALUE",
	Short: "Set one configuration value (e.g. kconnect config set request_timeout 30s)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonStr, err := configJSON(configFile)
		if err != nil {
			return err
		}

		// Booleans stay typed; everything else is a string.
		var value any = args[1]
		switch args[1] {
		case "true":
			value = true
		case "false":
			value = false
		}

		updated, err := sjson.SetBytes(jsonStr, args[0], value)
		if err != nil {
			return fmt.Errorf("unable to set %s: %w", args[0], err)
		}
		yamlStr, err := sigsyaml.JSONToYAML(updated)
		if err != nil {
			return fmt.Errorf("unable to render configuration: %w", err)
		}

		// Reject values that break the file before touching it.
		if _, err := parseConfig(yamlStr); err != nil {
			return err
		}
		if err := os.WriteFile(configFile, yamlStr, os.FileMode(0600)); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"key": args[0], "value": args[1]})
		} else {
			fmt.Printf("%s = %s\n", args[0], args[1])
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("server", "", "Worker URL (e.g. http://localhost:8083)")
	configInitCmd.Flags().String("username", "", "Basic auth username")
	configInitCmd.Flags().String("password", "", "Basic auth password")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
