// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
)

// SetupPy is a legacy setup.py in the shape upstream ships it.
const SetupPy = `import io
from setuptools import setup


def read(fname):
    return io.open(fname, encoding='utf-8').read()


setup(
    name = 'EbookLib',
    version = '0.18',
    author = 'Aleksandar Erkalovic',
    author_email = 'aerkalov@gmail.com',
    url = 'https://github.com/aerkalov/ebooklib',
    license = 'GNU Affero General Public License',
    description = 'Ebook library which can handle EPUB2/EPUB3 and Kindle format',
    long_description = read('README.md'),
    keywords = ['ebook', 'epub', 'kindle'],
    classifiers = [
        "License :: OSI Approved :: GNU Affero General Public License v3",
        "Programming Language :: Python :: 2.7",
        "Topic :: Software Development :: Libraries :: Python Modules",
    ],
    install_requires = ["lxml", "six"],
)
`

// Authors is an AUTHORS.txt file.
const Authors = `Listed in order of first contribution:

Aleksandar Erkalovic <aerkalov@gmail.com>
`

// PyProject is the fork's pyproject.toml before migration.
const PyProject = `[build-system]
requires = ["setuptools>=61.0"]
build-backend = "setuptools.build_meta"

[project]
name = "ebooklib-autoupdate"
version = "0.17"
dependencies = ["lxml>=4.0", "six"]

[tool.setuptools]
packages = ["ebooklib"]
`

// Licenses is a trimmed SPDX license list.
const Licenses = `{"licenseListVersion": "3.25", "licenses": [
  {"name": "GNU Affero General Public License v3.0", "licenseId": "AGPL-3.0"},
  {"name": "MIT License", "licenseId": "MIT"}
]}`

// Readme is an upstream README.md.
const Readme = "# About EbookLib\n\nSupports EPUB and kindle files.\n\n```\n# comment\n```\n"

// Project holds the paths of a temporary project.
type Project struct {
	Dir       string
	Setup     string
	Authors   string
	PyProject string
	Licenses  string
	Readme    string
}

// SetupTestProject creates a temporary project with every file the
// commands operate on.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		return path
	}

	return &Project{
		Dir:       tmpDir,
		Setup:     write("setup.py", SetupPy),
		Authors:   write("AUTHORS.txt", Authors),
		PyProject: write("pyproject.toml", PyProject),
		Licenses:  write("licenses.json", Licenses),
		Readme:    write("README.md", Readme),
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
