package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "rtl433"
	configFile = "config.yaml"
)

// Config is the root of the YAML configuration file.
type Config struct {
	// LogLevel sets zap verbosity (debug, info, warn, error). Empty
	// means silent; the RTL433_LOG_LEVEL environment variable wins
	// over this field.
	LogLevel string `yaml:"log_level,omitempty"`

	Server ServerConfig `yaml:"server"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// ServerConfig configures the live stream HTTP server.
type ServerConfig struct {
	Enabled bool `yaml:"enabled"`
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr"`
	// Advertise publishes the stream service over mDNS so monitors on
	// the local network can find it.
	Advertise bool `yaml:"advertise"`
}

// MQTTConfig configures the MQTT record publisher.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"` // e.g. tcp://localhost:1883
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// TopicPrefix is prepended to the per-record topic
	// <prefix>/<model>/<channel>.
	TopicPrefix string `yaml:"topic_prefix"`
	// Retain marks published records as retained so late subscribers
	// see the last reading per topic.
	Retain bool `yaml:"retain"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Enabled:   false,
			Addr:      "127.0.0.1:8433",
			Advertise: false,
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			Broker:      "tcp://localhost:1883",
			TopicPrefix: "rtl433",
		},
	}
}

// DefaultPath returns the platform-appropriate path of the
// configuration file:
//   - Linux: $XDG_CONFIG_HOME/rtl433 or $HOME/.config/rtl433
//   - macOS: $HOME/.config/rtl433
//   - Windows: %LOCALAPPDATA%\rtl433
func DefaultPath() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return filepath.Join(baseDir, configFile), nil
}

// Load reads the configuration from path. An empty path means the
// default location. A missing file is not an error; the defaults are
// returned.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set when the server is enabled")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker must be set when MQTT is enabled")
	}
	if c.MQTT.Enabled && c.MQTT.TopicPrefix == "" {
		return fmt.Errorf("mqtt.topic_prefix must be set when MQTT is enabled")
	}
	return nil
}

// Save writes the configuration to path (default location when empty)
// with an atomic rename so a crash cannot leave a torn file.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# rtl433 configuration file\n# Location: " + path + "\n\n")
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
