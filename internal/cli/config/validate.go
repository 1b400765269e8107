package config

import (
	"fmt"
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !output.OutputMode(c.OutputFormat).Valid() {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(modes, ", "))
	}
	if err := c.Versions().Validate(); err != nil {
		return fmt.Errorf("invalid python range: %w", err)
	}
	if c.LicenseRetries < 0 {
		return fmt.Errorf("license_retries must not be negative, got %d", c.LicenseRetries)
	}
	if c.LicenseBackoff <= 0 {
		return fmt.Errorf("license_backoff must be positive, got %s", c.LicenseBackoff)
	}
	if c.LicenseTimeout <= 0 {
		return fmt.Errorf("license_timeout must be positive, got %s", c.LicenseTimeout)
	}
	if c.ForkMaintainer.Email != "" && c.ForkMaintainer.Name == "" {
		return fmt.Errorf("fork_maintainer.email is set without fork_maintainer.name")
	}
	return nil
}
