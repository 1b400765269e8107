package readme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamReadme = "# About EbookLib\n\n" +
	"EbookLib is a Python library for managing EPUB2/EPUB3 and kindle files.\n\n" +
	"## Usage\n\n" +
	"```python\n" +
	"# read the book\n" +
	"book = epub.read_epub('test.epub')  # and kindle too\n" +
	"```\n\n" +
	"#hashtag is not a heading\n"

func TestRewrite(t *testing.T) {
	got, changed := Rewrite(upstreamReadme, DefaultOptions())
	require.True(t, changed)

	want := DefaultOptions().Preamble() +
		"## About EbookLib\n\n" +
		"EbookLib is a Python library for managing EPUB2/EPUB3 files.\n\n" +
		"### Usage\n\n" +
		"```python\n" +
		"# read the book\n" +
		"book = epub.read_epub('test.epub')  # and kindle too\n" +
		"```\n\n" +
		"#hashtag is not a heading\n"
	assert.Equal(t, want, got)
}

func TestRewrite_Preamble(t *testing.T) {
	want := "# EbookLib-autoupdate\n\n" +
		"This is a fork of the popular Ebooklib library that aims to keep a package updated " +
		"with changes from the original codebase. Any changes to [https://github.com/aerkalov/ebooklib] " +
		"are merged into this package on a weekly basis.\n\n"
	assert.Equal(t, want, DefaultOptions().Preamble())
	assert.Equal(t, want, Options{}.Preamble(), "empty options fall back to defaults")
}

func TestRewrite_Idempotent(t *testing.T) {
	once, changed := Rewrite(upstreamReadme, DefaultOptions())
	require.True(t, changed)

	twice, changed := Rewrite(once, DefaultOptions())
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestRewrite_UnbalancedFence(t *testing.T) {
	in := "# Title\n```\n# not closed\n"
	got, _ := Rewrite(in, Options{Title: "Fork"})
	assert.True(t, strings.HasPrefix(got, "# Fork\n\n"))
	assert.Contains(t, got, "## Title\n```\n## not closed\n")
}

func TestRewrite_CustomOptions(t *testing.T) {
	opts := Options{Title: "Fork", UpstreamURL: "https://example.org/up", Strip: "legacy "}
	got, changed := Rewrite("# A legacy lib\n", opts)
	require.True(t, changed)
	assert.Equal(t, opts.Preamble()+"## A lib\n", got)
	assert.Contains(t, got, "[https://example.org/up]")
}

func TestRewriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(upstreamReadme), 0o600))

	changed, err := RewriteFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# EbookLib-autoupdate\n"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	changed, err = RewriteFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = RewriteFile(filepath.Join(t.TempDir(), "missing.md"), DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
