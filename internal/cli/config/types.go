// Package config loads the autoupdate CLI configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file, then AUTOUPDATE_ environment variables, then explicitly set flags.
package config

import (
	"time"

	"github.com/ProsePal/ebooklib-autoupdate/internal/authors"
	"github.com/ProsePal/ebooklib-autoupdate/internal/license"
	"github.com/ProsePal/ebooklib-autoupdate/internal/migrate"
	"github.com/ProsePal/ebooklib-autoupdate/internal/readme"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
)

// PythonConfig is the supported Python release range.
type PythonConfig struct {
	Major int `koanf:"major"`
	Min   int `koanf:"min"`
	Max   int `koanf:"max"`
}

// MaintainerConfig names the fork maintainer.
type MaintainerConfig struct {
	Name  string `koanf:"name"`
	Email string `koanf:"email"`
}

// ReadmeConfig configures the README rewrite.
type ReadmeConfig struct {
	Title       string `koanf:"title"`
	UpstreamURL string `koanf:"upstream_url"`
	Strip       string `koanf:"strip"`
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose        bool             `koanf:"verbose"`
	OutputFormat   string           `koanf:"output"`
	LicenseURL     string           `koanf:"license_url"`
	LicenseRetries int              `koanf:"license_retries"`
	LicenseBackoff time.Duration    `koanf:"license_backoff"`
	LicenseTimeout time.Duration    `koanf:"license_timeout"`
	Stub           string           `koanf:"stub"`
	Python         PythonConfig     `koanf:"python"`
	RequiresPython string           `koanf:"requires_python"`
	Homepage       string           `koanf:"homepage"`
	ForkMaintainer MaintainerConfig `koanf:"fork_maintainer"`
	Readme         ReadmeConfig     `koanf:"readme"`
}

// Default configuration values.
const (
	DefaultOutput  = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLicense = "licenses.json"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := migrate.DefaultVersions()
	return &Config{
		OutputFormat:   DefaultOutput,
		LicenseURL:     license.DefaultURL,
		LicenseRetries: license.DefaultRetries,
		LicenseBackoff: license.DefaultBaseDelay,
		LicenseTimeout: license.DefaultTimeout,
		Stub:           setuppy.Stub,
		Python:         PythonConfig{Major: v.Major, Min: v.Min, Max: v.Max},
		ForkMaintainer: MaintainerConfig{
			Name:  migrate.DefaultForkMaintainer.Name,
			Email: migrate.DefaultForkMaintainer.Email,
		},
		Readme: ReadmeConfig{
			Title:       readme.DefaultTitle,
			UpstreamURL: readme.DefaultUpstreamURL,
			Strip:       readme.DefaultStrip,
		},
	}
}

// Versions returns the configured Python range.
func (c *Config) Versions() migrate.Versions {
	return migrate.Versions{Major: c.Python.Major, Min: c.Python.Min, Max: c.Python.Max}
}

// ForkMaintainerEntry returns the fork maintainer as an authors entry.
func (c *Config) ForkMaintainerEntry() authors.Entry {
	return authors.Entry{Name: c.ForkMaintainer.Name, Email: c.ForkMaintainer.Email}
}

// ReadmeOptions returns the README rewrite options.
func (c *Config) ReadmeOptions() readme.Options {
	return readme.Options{Title: c.Readme.Title, UpstreamURL: c.Readme.UpstreamURL, Strip: c.Readme.Strip}
}

// MigrateOptions returns the pipeline options. dryRun comes from the command line.
func (c *Config) MigrateOptions(dryRun bool) migrate.Options {
	return migrate.Options{
		Versions:       c.Versions(),
		ForkMaintainer: c.ForkMaintainerEntry(),
		RequiresPython: c.RequiresPython,
		Homepage:       c.Homepage,
		Stub:           c.Stub,
		DryRun:         dryRun,
	}
}
