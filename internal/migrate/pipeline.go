package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ProsePal/ebooklib-autoupdate/internal/authors"
	"github.com/ProsePal/ebooklib-autoupdate/internal/license"
	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/ProsePal/ebooklib-autoupdate/internal/pyproject"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
	"golang.org/x/sync/errgroup"
)

// DefaultForkMaintainer leads the maintainers array of the fork.
var DefaultForkMaintainer = authors.Entry{
	Name:  "Ashlynn Antrobus",
	Email: "ashlynn@prosepal.io",
}

// LicenseSource loads the SPDX license table. It is only called when the
// license of a setup.py configuration has to be resolved.
type LicenseSource func(ctx context.Context) (*license.Table, error)

// FileLicenses returns a LicenseSource reading path.
func FileLicenses(path string) LicenseSource {
	return func(context.Context) (*license.Table, error) {
		return license.Load(path)
	}
}

// FetchedLicenses returns a LicenseSource downloading the table with f.
func FetchedLicenses(f *license.Fetcher) LicenseSource {
	return func(ctx context.Context) (*license.Table, error) {
		_, table, err := f.Fetch(ctx)
		return table, err
	}
}

// Options configures a migration.
type Options struct {
	Versions       Versions
	ForkMaintainer authors.Entry
	// RequiresPython overrides the requires-python specifier.
	RequiresPython string
	// Homepage overrides the homepage URL.
	Homepage string
	// Stub is the setup.py content written after migration. Empty means setuppy.Stub.
	Stub string
	// DryRun computes the new document without writing any file.
	DryRun bool
}

// Paths names the files a migration reads and writes.
type Paths struct {
	Setup     string
	Authors   string
	PyProject string
}

// Result summarizes a migration.
type Result struct {
	Format   setuppy.Format `json:"format"`
	Changes  []Change       `json:"changes"`
	Document []byte         `json:"-"`
	Written  bool           `json:"written"`
}

// Pipeline migrates setup.py configuration into pyproject.toml.
type Pipeline struct {
	Options
	Licenses LicenseSource
	Logger   *slog.Logger
}

// Run executes the migration. pyproject.toml is written only after every step
// succeeded, and setup.py is replaced with the stub afterwards.
func (p *Pipeline) Run(ctx context.Context, paths Paths) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := p.Versions.Validate(); err != nil {
		return nil, err
	}

	format, src, err := setuppy.DetectFile(paths.Setup, p.Stub)
	if err != nil {
		return nil, err
	}
	logger.Info("detected format", "format", format.String(), "path", paths.Setup)

	doc, err := pyproject.ReadFile(paths.PyProject)
	if err != nil {
		return nil, err
	}

	registry, err := authors.Load(paths.Authors)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded authors", "count", registry.Len())

	normalizer := &Normalizer{
		Authors:  registry,
		Versions: p.Versions,
		Logger:   logger,
	}

	var raw *metadata.Config
	switch format {
	case setuppy.FormatSetup:
		if p.Licenses == nil {
			return nil, errors.New("no license source configured")
		}

		// The license list may come over the network; parse setup.py meanwhile.
		eg, egctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			x := &setuppy.Extractor{Logger: logger}
			var err error
			if raw, err = x.Extract(paths.Setup, src); err != nil {
				return err
			}
			logger.Debug("extracted setup() keywords", "count", raw.Len())
			return nil
		})
		eg.Go(func() error {
			table, err := p.Licenses(egctx)
			if err != nil {
				return fmt.Errorf("failed to load license data: %w", err)
			}
			normalizer.Licenses = table
			return nil
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	case setuppy.FormatPyProject:
		raw = ReadProject(doc.Project())
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}

	cfg, err := normalizer.Normalize(raw, format)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		Versions:       p.Versions,
		ForkMaintainer: p.ForkMaintainer,
		Authors:        registry,
		RequiresPython: p.RequiresPython,
		Homepage:       p.Homepage,
		Logger:         logger,
	}
	changes, err := w.Apply(doc, cfg, format)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", paths.PyProject, err)
	}

	res := &Result{Format: format, Changes: changes, Document: doc.Bytes()}
	if p.DryRun {
		logger.Info("dry run, no files written")
		return res, nil
	}

	if err := doc.WriteFile(paths.PyProject); err != nil {
		return nil, err
	}
	logger.Info("wrote pyproject.toml", "path", paths.PyProject)

	if err := setuppy.Replace(paths.Setup, p.Stub); err != nil {
		return nil, err
	}
	logger.Info("replaced setup.py with stub", "path", paths.Setup)

	res.Written = true
	return res, nil
}
