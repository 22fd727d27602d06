// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for config directory naming.
	AppName = "rftp"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. RFTP_HOST, RFTP_PORT, RFTP_UI_VERBOSE).
	EnvPrefix = "RFTP"

	// DefaultHost is the server dialed when no host is configured.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the standard FTP control port.
	DefaultPort = 21
	// DefaultUser is the login used when none is configured.
	DefaultUser = "anonymous"
	// DefaultPassword is the conventional anonymous password.
	DefaultPassword = "anonymous@"
	// DefaultTimeout bounds dial and per-command I/O.
	DefaultTimeout = TimeoutSpec("30s")
)

var (
	// configDirOverride allows tests to redirect the config directory.
	configDirOverride string
	// configFileOverride is set by the --config flag.
	configFileOverride string
)

// SetConfigDirOverride redirects ConfigDir, for tests. Pass "" to reset.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// SetConfigFileOverride makes Load read exactly the given file, for the
// --config flag. Pass "" to reset to the default search.
func SetConfigFileOverride(path string) { configFileOverride = path }

// ConfigDir returns the rftp configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on
// macOS, and $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path Load reads from: the --config override
// when set, otherwise <ConfigDir>/config.toml.
func ConfigFilePath() (string, error) {
	if configFileOverride != "" {
		return configFileOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// DefaultConfig returns the built-in defaults: anonymous login to
// localhost, passive binary transfers.
func DefaultConfig() *Config {
	return &Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		User:         DefaultUser,
		Password:     DefaultPassword,
		Passive:      true,
		TransferType: TransferBinary,
		Timeout:      DefaultTimeout,
	}
}

// Load reads the config file (if present), applies RFTP_* environment
// overrides, and returns the merged configuration. A missing file is not
// an error; an unreadable or invalid one is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("user", defaults.User)
	v.SetDefault("password", defaults.Password)
	v.SetDefault("passive", defaults.Passive)
	v.SetDefault("transfer_type", string(defaults.TransferType))
	v.SetDefault("timeout", string(defaults.Timeout))
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if configFileOverride != "" {
		// An explicitly requested file must exist.
		return nil, fmt.Errorf("config file not found: %s", configFileOverride)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
