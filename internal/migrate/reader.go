package migrate

import (
	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/ProsePal/ebooklib-autoupdate/internal/pyproject"
)

// ReadProject converts the scalar and string-array fields of a [project]
// table into raw configuration. License and readme tables contribute their
// text or file entry; other tables are left to the writer.
func ReadProject(project *pyproject.Table) *metadata.Config {
	cfg := metadata.New()
	for _, e := range project.Entries {
		if e.Blank() {
			continue
		}
		switch v := e.Value.(type) {
		case pyproject.String:
			cfg.Set(e.Key, metadata.Scalar(v))
		case pyproject.Raw:
			cfg.Set(e.Key, metadata.Scalar(v))
		case *pyproject.Array:
			if len(v.StringItems()) != len(v.Items) {
				continue
			}
			cfg.Set(e.Key, metadata.List(v.StringItems()))
		case *pyproject.Table:
			for _, key := range []string{"text", "file"} {
				if s, ok := v.GetString(key); ok {
					cfg.Set(e.Key, metadata.Scalar(s))
					break
				}
			}
		}
	}
	return cfg
}
