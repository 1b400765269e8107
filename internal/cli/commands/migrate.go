package commands

import (
	"fmt"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/migrate"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <setup.py> <authors> <pyproject.toml> [licenses.json]",
		Short: "Migrate setup.py metadata into pyproject.toml",
		Long: `Migrate packaging metadata into the fork's pyproject.toml.

When setup.py still carries the configuration, the keyword arguments of its
setup() call are extracted, normalized and written into the [project] table,
and setup.py is replaced with a minimal stub. When setup.py already is the
stub, the [project] table itself is normalized.

The license name is resolved against the SPDX license list, read from
licenses.json when given and downloaded otherwise.`,
		Example: `  # Migrate using a local copy of the SPDX license list
  autoupdate migrate setup.py AUTHORS.txt pyproject.toml licenses.json

  # Download the license list and preview the result
  autoupdate migrate setup.py AUTHORS.txt pyproject.toml --dry-run`,
		Args: cobra.RangeArgs(3, 4),
		RunE: runMigrate,
	}

	cmd.Flags().Bool("dry-run", false, "Print the resulting pyproject.toml without writing any file")
	cmd.Flags().String("homepage", "", "Homepage URL written to [project.urls]")
	cmd.Flags().String("requires-python", "", "requires-python specifier (default: >=<major>.<min>)")
	cmd.Flags().Int("python-major", 0, "Supported Python major version")
	cmd.Flags().Int("python-min", 0, "Lowest supported Python minor version")
	cmd.Flags().Int("python-max", 0, "Highest supported Python minor version")
	cmd.Flags().String("maintainer-name", "", "Fork maintainer listed first in maintainers")
	cmd.Flags().String("maintainer-email", "", "Email of the fork maintainer")
	cmd.Flags().String("license-url", "", "URL of the SPDX license list")

	return cmd
}

// migrateOutput is the JSON form of a migration result.
type migrateOutput struct {
	*migrate.Result
	DryRun   bool   `json:"dry_run"`
	Document string `json:"document,omitempty"`
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	source := migrate.FetchedLicenses(cc.newFetcher())
	if len(args) == 4 {
		source = migrate.FileLicenses(args[3])
	}

	p := &migrate.Pipeline{
		Options:  cc.Cfg.MigrateOptions(dryRun),
		Licenses: source,
		Logger:   cc.Logger,
	}
	res, err := p.Run(cmd.Context(), migrate.Paths{Setup: args[0], Authors: args[1], PyProject: args[2]})
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := migrateOutput{Result: res, DryRun: dryRun}
		if dryRun {
			out.Document = string(res.Document)
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		migrateMarkdown(r, res, args, dryRun)
	default:
		migrateText(r, res, args, dryRun)
	}
	return nil
}

func changeRows(changes []migrate.Change) [][]string {
	rows := make([][]string, len(changes))
	for i, c := range changes {
		rows[i] = []string{c.Key, string(c.Action)}
	}
	return rows
}

func migrateText(r *output.Renderer, res *migrate.Result, args []string, dryRun bool) {
	r.Header(1, "Migration")
	r.KeyValue("Detected format", res.Format.String())
	r.Table([]string{"Key", "Source"}, changeRows(res.Changes))

	if dryRun {
		r.Muted("Dry run, nothing written:")
		r.Printf("%s", res.Document)
		return
	}
	r.StatusLine(args[2], "written", fmt.Sprintf("%d keys", len(res.Changes)))
	r.StatusLine(args[0], "written", "stub")
	r.Success("Migration complete")
}

func migrateMarkdown(r *output.Renderer, res *migrate.Result, args []string, dryRun bool) {
	r.Header(1, "Migration")
	r.Println(output.FormatKeyValue("Detected format", res.Format.String()))
	r.Println("")
	r.Table([]string{"Key", "Source"}, changeRows(res.Changes))
	r.Println("")

	if dryRun {
		r.Println(output.FormatCodeBlock("toml", string(res.Document)))
		return
	}
	r.Println(output.FormatKeyValue("Written", args[2]+", "+args[0]))
}
