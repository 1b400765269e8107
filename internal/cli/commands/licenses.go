package commands

import (
	"fmt"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/config"
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewLicensesCommand creates the licenses command.
func NewLicensesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licenses [output-path]",
		Short: "Download the SPDX license list",
		Long: `Download the SPDX license list used to resolve license names.

Failed requests are retried with exponential backoff. The file is only
replaced once a complete, valid list was received.`,
		Example: `  autoupdate licenses
  autoupdate licenses .scripts/licenses.json --license-url https://mirror.example.org/licenses.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLicenses,
	}

	cmd.Flags().String("license-url", "", "URL of the SPDX license list")
	cmd.Flags().Int("license-retries", 0, "Number of retries after a failed download")

	return cmd
}

func runLicenses(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	path := config.DefaultLicense
	if len(args) == 1 {
		path = args[0]
	}

	f := cc.newFetcher()
	table, err := f.Download(cmd.Context(), path)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(struct {
			Path     string `json:"path"`
			URL      string `json:"url"`
			Licenses int    `json:"licenses"`
		}{path, f.URL, table.Len()})
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue("Licenses", fmt.Sprintf("%d", table.Len())))
		r.Println(output.FormatKeyValue("Written", path))
	default:
		r.Success(fmt.Sprintf("Downloaded %d licenses to %s", table.Len(), path))
		r.Muted(f.URL)
	}
	return nil
}
