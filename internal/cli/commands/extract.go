package commands

import (
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
	"github.com/spf13/cobra"
)

// keyword is the JSON form of one extracted setup() argument.
type keyword struct {
	Key   string         `json:"key"`
	Value metadata.Value `json:"value"`
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <setup.py>",
		Short: "List the keyword arguments of the setup() call",
		Long: `Statically read the setup() call of a setup.py file and list its keyword
arguments in source order, as a migration would see them. Nothing is written
and setup.py is never executed.`,
		Example: `  autoupdate extract setup.py
  autoupdate extract setup.py --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			x := &setuppy.Extractor{Logger: cc.Logger}
			cfg, err := x.ExtractFile(args[0])
			if err != nil {
				return err
			}

			r := cc.Renderer
			if cfg.Len() == 0 {
				r.Warning("setup() has no keyword arguments; the configuration may already live in pyproject.toml")
			}
			if r.EffectiveMode() == output.ModeJSON {
				out := make([]keyword, 0, cfg.Len())
				for _, k := range cfg.Keys() {
					v, _ := cfg.Get(k)
					out = append(out, keyword{Key: k, Value: v})
				}
				return r.JSON(out)
			}

			rows := make([][]string, 0, cfg.Len())
			for _, k := range cfg.Keys() {
				v, _ := cfg.Get(k)
				rows = append(rows, []string{k, metadata.Describe(v)})
			}
			r.Header(1, "setup() keywords")
			r.Table([]string{"Key", "Value"}, rows)
			return nil
		},
	}
}
