// Package readme rewrites the upstream README for the fork: headings move
// one level down under a fork preamble.
package readme

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/creachadair/atomicfile"
)

// Defaults for Options.
const (
	DefaultTitle       = "EbookLib-autoupdate"
	DefaultUpstreamURL = "https://github.com/aerkalov/ebooklib"
	DefaultStrip       = "and kindle "
)

var (
	fencedBlock = regexp.MustCompile("(?s)```.*?```")
	atxHeading  = regexp.MustCompile(`(?m)^(#+)(\s)`)
)

// Options configures Rewrite.
type Options struct {
	// Title is the top level heading of the preamble. Its presence at the
	// start of a README marks it as already rewritten.
	Title string
	// UpstreamURL is the repository the fork tracks.
	UpstreamURL string
	// Strip is removed from prose outside code fences.
	Strip string
}

// DefaultOptions returns the options used for the EbookLib fork.
func DefaultOptions() Options {
	return Options{Title: DefaultTitle, UpstreamURL: DefaultUpstreamURL, Strip: DefaultStrip}
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.UpstreamURL == "" {
		o.UpstreamURL = DefaultUpstreamURL
	}
	return o
}

// Marker returns the heading that starts a rewritten README.
func (o Options) Marker() string {
	return "# " + o.withDefaults().Title
}

// Preamble returns the text placed before the upstream README.
func (o Options) Preamble() string {
	o = o.withDefaults()
	return fmt.Sprintf("%s\n\n"+
		"This is a fork of the popular Ebooklib library that aims to keep a package updated "+
		"with changes from the original codebase. Any changes to [%s] are merged into this "+
		"package on a weekly basis.\n\n", o.Marker(), o.UpstreamURL)
}

// Rewrite shifts every heading outside fenced code blocks one level down,
// removes opts.Strip from the same text and prepends the preamble. Content
// already starting with the marker heading is returned unchanged with false.
func Rewrite(content string, opts Options) (string, bool) {
	if strings.HasPrefix(content, opts.Marker()) {
		return content, false
	}

	var b strings.Builder
	b.WriteString(opts.Preamble())

	last := 0
	for _, loc := range fencedBlock.FindAllStringIndex(content, -1) {
		b.WriteString(rewriteProse(content[last:loc[0]], opts.Strip))
		b.WriteString(content[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(rewriteProse(content[last:], opts.Strip))

	return b.String(), true
}

func rewriteProse(s, strip string) string {
	s = atxHeading.ReplaceAllString(s, "#${1}${2}")
	if strip != "" {
		s = strings.ReplaceAll(s, strip, "")
	}
	return s
}

// RewriteFile rewrites the README at path in place. It reports whether the
// file changed.
func RewriteFile(path string, opts Options) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, changed := Rewrite(string(data), opts)
	if !changed {
		return false, nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomicfile.WriteData(path, []byte(out), mode); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
