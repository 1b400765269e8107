package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/pyproject"
)

// ErrDependencyNotFound is returned when a legacy requirement has no
// counterpart in the existing dependency list.
var ErrDependencyNotFound = errors.New("dependency not found")

// homepageKey is the URL entry that always leads the urls table.
const homepageKey = "Homepage"

// RequirementName returns the distribution name of a requirement specifier,
// the text before the first comparison operator.
func RequirementName(spec string) string {
	if i := strings.IndexAny(spec, "<>=!~"); i >= 0 {
		spec = spec[:i]
	}
	return strings.TrimSpace(spec)
}

// ResolveDependencies returns, in requirements order, the full specifier from
// existing that matches each requirement by name.
func ResolveDependencies(requirements, existing []string) ([]string, error) {
	byName := make(map[string]string, len(existing))
	for _, spec := range existing {
		byName[RequirementName(spec)] = spec
	}

	out := make([]string, 0, len(requirements))
	var missing []string
	for _, req := range requirements {
		spec, ok := byName[RequirementName(req)]
		if !ok {
			missing = append(missing, req)
			continue
		}
		out = append(out, spec)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDependencyNotFound, strings.Join(missing, ", "))
	}
	return out, nil
}

// RebuildURLs returns a urls table with Homepage first, followed by every
// other entry of existing in order. existing may be nil.
func RebuildURLs(existing *pyproject.Table, homepage string) *pyproject.Table {
	urls := pyproject.NewTable(false)
	urls.Set(homepageKey, pyproject.String(homepage))
	if existing == nil {
		return urls
	}
	for _, e := range existing.Entries {
		if e.Blank() || e.Key == homepageKey {
			continue
		}
		urls.Set(e.Key, e.Value)
	}
	return urls
}
