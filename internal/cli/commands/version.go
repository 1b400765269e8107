package commands

import (
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/spf13/cobra"
)

// BuildInfo identifies the running binary. The fields are set at link time.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Long:  `Display the autoupdate version and the commit and date it was built from.`,
		Example: `  autoupdate version
  autoupdate version --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}
			r.Printf("autoupdate v%s\n", info.Version)
			r.KeyValue("Commit", info.Commit)
			r.KeyValue("Built", info.Date)
			r.Muted("Packaging maintenance for the EbookLib fork")
			return nil
		},
	}
}
