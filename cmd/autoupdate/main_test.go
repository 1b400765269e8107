// Package main provides tests for the autoupdate CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli"
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/config"
)

// upstreamProject copies testdata/upstream into a temporary directory and
// changes into it.
func upstreamProject(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	src := filepath.Join(wd, "..", "..", "testdata", "upstream")

	dir := t.TempDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("failed to read testdata: %v", err)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", e.Name(), err)
		}
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s command error = %v\n%s", args[0], err, buf.String())
	}
	return buf.String()
}

func TestVersionCommand(t *testing.T) {
	output := execute(t, "version")
	if !strings.Contains(output, "autoupdate") {
		t.Errorf("version output should contain 'autoupdate', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output := execute(t, "--help")
	expectedCommands := []string{"migrate", "detect", "extract", "licenses", "readme", "completion", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestUpstreamUpdate(t *testing.T) {
	dir := upstreamProject(t)

	if out := execute(t, "detect", "setup.py"); !strings.Contains(out, "setup.py") {
		t.Errorf("detect should report setup.py, got: %s", out)
	}

	execute(t, "migrate", "setup.py", "AUTHORS.txt", "pyproject.toml", "licenses.json")
	execute(t, "readme", "README.md")

	if out := execute(t, "detect", "setup.py"); !strings.Contains(out, "pyproject.toml") {
		t.Errorf("detect should report pyproject.toml after migration, got: %s", out)
	}

	pyproject, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`name = "ebooklib-autoupdate"`,
		`version = "0.18"`,
		`description = "Ebook library which can handle EPUB2/EPUB3 format"`,
		`license = {text = "AGPL-3.0"}`,
		`"lxml>=4.0",`,
		`{name = "Ashlynn Antrobus", email = "ashlynn@prosepal.io"}`,
		"# Packaging\n[tool.setuptools]",
	} {
		if !strings.Contains(string(pyproject), want) {
			t.Errorf("pyproject.toml should contain %q, got:\n%s", want, pyproject)
		}
	}

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(readme), "# EbookLib-autoupdate\n") {
		t.Errorf("README should start with the fork preamble, got:\n%s", readme)
	}

	// A second run over the migrated tree changes nothing.
	execute(t, "migrate", "setup.py", "AUTHORS.txt", "pyproject.toml")
	again, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(pyproject) {
		t.Errorf("second migration changed pyproject.toml:\n%s", again)
	}
}
