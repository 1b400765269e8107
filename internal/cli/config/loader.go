package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Context keys for the values the root command prepares for its subcommands.
type (
	loggerKey   struct{}
	configKey   struct{}
	rendererKey struct{}
)

// envPrefix marks the environment variables read into the configuration.
const envPrefix = "AUTOUPDATE_"

// configNames are searched in the working directory when no file is given.
var configNames = []string{"autoupdate.yaml", "autoupdate.yml"}

// flagKeys maps flags whose config key is not the snake_case flag name.
var flagKeys = map[string]string{
	"python-major":     "python.major",
	"python-min":       "python.min",
	"python-max":       "python.max",
	"maintainer-name":  "fork_maintainer.name",
	"maintainer-email": "fork_maintainer.email",
	"title":            "readme.title",
	"upstream-url":     "readme.upstream_url",
	"strip":            "readme.strip",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > autoupdate.yaml > autoupdate.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"verbose":               d.Verbose,
		"output":                d.OutputFormat,
		"license_url":           d.LicenseURL,
		"license_retries":       d.LicenseRetries,
		"license_backoff":       d.LicenseBackoff.String(),
		"license_timeout":       d.LicenseTimeout.String(),
		"stub":                  d.Stub,
		"python.major":          d.Python.Major,
		"python.min":            d.Python.Min,
		"python.max":            d.Python.Max,
		"requires_python":       d.RequiresPython,
		"homepage":              d.Homepage,
		"fork_maintainer.name":  d.ForkMaintainer.Name,
		"fork_maintainer.email": d.ForkMaintainer.Email,
		"readme.title":          d.Readme.Title,
		"readme.upstream_url":   d.Readme.UpstreamURL,
		"readme.strip":          d.Readme.Strip,
	}
}

// envKey maps AUTOUPDATE_PYTHON__MIN to python.min.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (AUTOUPDATE_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.LicenseURL = expandEnvVars(cfg.LicenseURL)
	cfg.Homepage = expandEnvVars(cfg.Homepage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// ConfigKey returns the context key used for storing the loaded configuration.
func ConfigKey() interface{} {
	return configKey{}
}

// RendererKey returns the context key used for storing the output renderer.
func RendererKey() interface{} {
	return rendererKey{}
}

// FromContext returns the configuration stored in ctx, or nil.
func FromContext(ctx context.Context) *Config {
	c, _ := ctx.Value(configKey{}).(*Config)
	return c
}

// GetRenderer returns the renderer stored in ctx, or nil.
func GetRenderer(ctx context.Context) *output.Renderer {
	r, _ := ctx.Value(rendererKey{}).(*output.Renderer)
	return r
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
