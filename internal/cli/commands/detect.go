package commands

import (
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
	"github.com/spf13/cobra"
)

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <setup.py>",
		Short: "Report where the packaging configuration lives",
		Long: `Report whether setup.py still carries the packaging configuration
or is the stub left behind by a migration, in which case pyproject.toml
is authoritative.`,
		Example: `  autoupdate detect setup.py
  autoupdate detect setup.py --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			format, _, err := setuppy.DetectFile(args[0], cc.Cfg.Stub)
			if err != nil {
				return err
			}

			r := cc.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(struct {
					Path   string         `json:"path"`
					Format setuppy.Format `json:"format"`
				}{args[0], format})
			case output.ModeMarkdown:
				r.Println(output.FormatKeyValue("Detected format", format.String()))
			default:
				r.Printf("Detected format: %s\n", r.Styles().Bold.Render(format.String()))
			}
			return nil
		},
	}
}
