// Package config provides configuration management for roowiz using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rooforge/roowiz/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "roowiz"

// DefaultRegistryURL is the connector catalog consulted when no override is set.
const DefaultRegistryURL = "https://registry.example.com/api/mcp"

// Default retry/timeout values for registry access.
const (
	DefaultRetryAttempts  = 2
	DefaultRetryDelay     = time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Options enumerates every recognized configuration option and its default.
// All workflow components receive their settings from here; there is no
// hidden option plumbing.
type Options struct {
	// ProjectPath is the project root containing the managed documents.
	ProjectPath string `mapstructure:"project_path" yaml:"project_path"`

	// ConfigPath is the server-configuration document path. When empty it is
	// derived from ProjectPath as .roo/mcp.json.
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`

	// RoomodesPath is the mode-registry document path. When empty it is
	// derived from ProjectPath as .roomodes.
	RoomodesPath string `mapstructure:"roomodes_path" yaml:"roomodes_path"`

	// RegistryURL is the base URL of the connector catalog.
	RegistryURL string `mapstructure:"registry_url" yaml:"registry_url"`

	// RegistryToken is an optional bearer token for the catalog.
	RegistryToken string `mapstructure:"registry_token" yaml:"registry_token"`

	// CacheEnabled toggles client-side caching of registry responses.
	CacheEnabled bool `mapstructure:"cache_enabled" yaml:"cache_enabled"`

	// BackupDir overrides where document backups are written. Empty means
	// alongside the documents themselves.
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir"`

	// RetryAttempts is the number of retries after a failed registry request.
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts"`

	// RetryDelay is the fixed delay between registry retries, unless the
	// server supplies a Retry-After.
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`

	// RequestTimeout bounds each registry HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// AutoFix applies the security auditor's rewrites during audits.
	AutoFix bool `mapstructure:"auto_fix" yaml:"auto_fix"`
}

// Default returns Options populated with every default value.
func Default() Options {
	return Options{
		ProjectPath:    ".",
		RegistryURL:    DefaultRegistryURL,
		CacheEnabled:   true,
		RetryAttempts:  DefaultRetryAttempts,
		RetryDelay:     DefaultRetryDelay,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// MCPConfigPath returns the effective server-configuration document path.
func (o Options) MCPConfigPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return paths.MCPConfigPath(o.ProjectPath)
}

// ModesPath returns the effective mode-registry document path.
func (o Options) ModesPath() string {
	if o.RoomodesPath != "" {
		return o.RoomodesPath
	}
	return paths.RoomodesPath(o.ProjectPath)
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.AppConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("ROOWIZ")
	viper.AutomaticEnv()

	// Defaults
	def := Default()
	viper.SetDefault("project_path", def.ProjectPath)
	viper.SetDefault("registry_url", def.RegistryURL)
	viper.SetDefault("cache_enabled", def.CacheEnabled)
	viper.SetDefault("retry_attempts", def.RetryAttempts)
	viper.SetDefault("retry_delay", def.RetryDelay)
	viper.SetDefault("request_timeout", def.RequestTimeout)
	viper.SetDefault("auto_fix", def.AutoFix)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded options or default values if no file is found (when path is empty).
func Load(path string) (*Options, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var opts Options
	if err := viper.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &opts, nil
}
