package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIRoot is the public v4 API endpoint.
	DefaultAPIRoot = "https://api.linode.com/v4"
	// DefaultCloudManagerURL is the web console used for "open in browser".
	DefaultCloudManagerURL = "https://cloud.linode.com"

	configName = "lazylinode"
	envPrefix  = "LAZYLINODE"
)

// Config holds the application configuration
type Config struct {
	APIRoot         string        `mapstructure:"api_root"`
	Token           string        `mapstructure:"token"`
	Timeout         time.Duration `mapstructure:"timeout"`
	PageSize        int           `mapstructure:"page_size"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	CloudManagerURL string        `mapstructure:"cloud_manager_url"`
}

// fileConfig is the on-disk shape written by Write.
type fileConfig struct {
	APIRoot         string `yaml:"api_root"`
	Token           string `yaml:"token,omitempty"`
	Timeout         string `yaml:"timeout"`
	PageSize        int    `yaml:"page_size"`
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file,omitempty"`
	CloudManagerURL string `yaml:"cloud_manager_url"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"api-root":  "api_root",
	"token":     "token",
	"timeout":   "timeout",
	"page-size": "page_size",
	"log-level": "log_level",
	"log-file":  "log_file",
}

// Defaults returns the built-in value of every configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"api_root":          DefaultAPIRoot,
		"token":             "",
		"timeout":           "30s",
		"page_size":         100,
		"log_level":         "info",
		"log_file":          "",
		"cloud_manager_url": DefaultCloudManagerURL,
	}
}

// Path returns the user-level configuration file path.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, configName, configName+".yaml"), nil
}

// Load resolves the configuration from defaults, the config file, the
// environment and the flags of cmd, in increasing order of precedence.
// configFile may be empty, in which case the standard locations are searched.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if userPath, err := Path(); err == nil {
		v.AddConfigPath(filepath.Dir(userPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// LINODE_TOKEN is what the official CLI and SDKs read.
	if err := v.BindEnv("token", envPrefix+"_TOKEN", "LINODE_TOKEN"); err != nil {
		return nil, err
	}

	if cmd != nil {
		for name, key := range flagKeys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if c.APIRoot == "" {
		return fmt.Errorf("api_root cannot be empty")
	}
	if !strings.HasPrefix(c.APIRoot, "http://") && !strings.HasPrefix(c.APIRoot, "https://") {
		return fmt.Errorf("api_root must start with http:// or https://")
	}
	if c.PageSize < 25 || c.PageSize > 500 {
		return fmt.Errorf("page_size must be between 25 and 500, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Encode renders c in the on-disk YAML format.
func Encode(c *Config) ([]byte, error) {
	return yaml.Marshal(fileConfig{
		APIRoot:         c.APIRoot,
		Token:           c.Token,
		Timeout:         c.Timeout.String(),
		PageSize:        c.PageSize,
		LogLevel:        c.LogLevel,
		LogFile:         c.LogFile,
		CloudManagerURL: c.CloudManagerURL,
	})
}

// Redacted returns a copy of c safe to print.
func (c Config) Redacted() *Config {
	if c.Token != "" {
		c.Token = "********"
	}
	return &c
}

// Write persists c as YAML at path, creating the directory if needed.
func Write(c *Config, path string) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	// 0600: the file may hold the API token.
	return os.WriteFile(path, data, 0o600)
}
