package commands

import (
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/readme"
	"github.com/spf13/cobra"
)

// NewReadmeCommand creates the readme command.
func NewReadmeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readme <README.md>",
		Short: "Rewrite the upstream README for the fork",
		Long: `Prepend the fork preamble to README.md and move every heading outside
fenced code blocks one level down. A README that already starts with the
preamble heading is left alone.`,
		Example: `  autoupdate readme README.md`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			changed, err := readme.RewriteFile(args[0], cc.Cfg.ReadmeOptions())
			if err != nil {
				return err
			}
			cc.Logger.Debug("readme rewrite finished", "path", args[0], "changed", changed)

			status := "unchanged"
			if changed {
				status = "rewritten"
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(struct {
					Path    string `json:"path"`
					Changed bool   `json:"changed"`
				}{args[0], changed})
			}
			r.StatusLine(args[0], status, "")
			return nil
		},
	}

	cmd.Flags().String("title", "", "Heading of the fork preamble")
	cmd.Flags().String("upstream-url", "", "Upstream repository named in the preamble")
	cmd.Flags().String("strip", "", "Text removed from the README prose")

	return cmd
}
