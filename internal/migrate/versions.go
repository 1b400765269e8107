package migrate

import (
	"errors"
	"fmt"
)

// Versions is the supported Python release range, Major.Min through Major.Max.
type Versions struct {
	Major int
	Min   int
	Max   int
}

// DefaultVersions is the range supported by the fork.
func DefaultVersions() Versions {
	return Versions{Major: 3, Min: 9, Max: 12}
}

// Validate checks that the range is well formed.
func (v Versions) Validate() error {
	if v.Major <= 0 {
		return fmt.Errorf("python major version must be positive, got %d", v.Major)
	}
	if v.Min < 0 || v.Max < 0 {
		return errors.New("python minor versions must not be negative")
	}
	if v.Min > v.Max {
		return fmt.Errorf("python minimum version %d.%d is above maximum %d.%d", v.Major, v.Min, v.Major, v.Max)
	}
	return nil
}

// List returns every supported version, e.g. "3.9" through "3.12".
func (v Versions) List() []string {
	out := make([]string, 0, v.Max-v.Min+1)
	for minor := v.Min; minor <= v.Max; minor++ {
		out = append(out, fmt.Sprintf("%d.%d", v.Major, minor))
	}
	return out
}

// Classifiers returns one trove classifier per supported version.
func (v Versions) Classifiers() []string {
	versions := v.List()
	out := make([]string, len(versions))
	for i, version := range versions {
		out[i] = pythonClassifierPrefix + version
	}
	return out
}

// RequiresPython returns the requires-python specifier for the range floor.
func (v Versions) RequiresPython() string {
	return fmt.Sprintf(">=%d.%d", v.Major, v.Min)
}
