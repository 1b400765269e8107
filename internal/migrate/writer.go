package migrate

import (
	"log/slog"
	"slices"

	"github.com/ProsePal/ebooklib-autoupdate/internal/authors"
	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/ProsePal/ebooklib-autoupdate/internal/pyproject"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
)

// Markers in canonicalOrder that are not keys.
const (
	orderBlank  = "\n"
	orderExtras = "*"
)

// canonicalOrder is the key order of the rebuilt [project] table. Keys the
// table already had that are not listed here go at orderExtras.
var canonicalOrder = []string{
	"name",
	"version",
	"description",
	"readme",
	"requires-python",
	"license",
	"keywords",
	"classifiers",
	"maintainers",
	"authors",
	orderBlank,
	"dependencies",
	orderExtras,
	"urls",
}

// multilineKeys are written one item per line.
var multilineKeys = map[string]bool{
	"classifiers":  true,
	"dependencies": true,
	"authors":      true,
	"maintainers":  true,
}

// Action tells where a key of the rebuilt table came from.
type Action string

// Actions reported by Writer.Apply.
const (
	ActionUpdated Action = "updated"
	ActionKept    Action = "kept"
	ActionExtra   Action = "extra"
)

// Change describes one key of the rebuilt [project] table.
type Change struct {
	Key    string `json:"key"`
	Action Action `json:"action"`
}

type ruleInput struct {
	cfg      *metadata.Config
	existing *pyproject.Table
	format   setuppy.Format
}

// ruleFunc computes the new value of a key. A nil value keeps the existing one.
type ruleFunc func(w *Writer, in ruleInput) (pyproject.Value, error)

// rules maps each canonical key to the function computing its new value.
// Keys without a rule, such as name, always keep their existing value.
var rules = map[string]ruleFunc{
	"version":         configRule(FieldVersion),
	"description":     configRule(FieldDescription),
	"readme":          configRule(FieldReadme),
	"requires-python": requiresPythonRule,
	"license":         licenseRule,
	"keywords":        configRule(FieldKeywords),
	"classifiers":     configRule(FieldClassifiers),
	"maintainers":     maintainersRule,
	"authors":         authorsRule,
	"dependencies":    dependenciesRule,
	"urls":            urlsRule,
}

// Writer rebuilds the [project] table of a document from normalized configuration.
type Writer struct {
	Versions Versions
	// ForkMaintainer always leads the maintainers array.
	ForkMaintainer authors.Entry
	// Authors fills the authors array.
	Authors *authors.Registry
	// RequiresPython overrides the specifier derived from Versions.
	RequiresPython string
	// Homepage overrides the homepage URL.
	Homepage string
	Logger   *slog.Logger
}

// Apply replaces the [project] table of doc. The document is only modified
// when every rule succeeds.
func (w *Writer) Apply(doc *pyproject.Document, cfg *metadata.Config, format setuppy.Format) ([]Change, error) {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	in := ruleInput{cfg: cfg, existing: doc.Project(), format: format}
	table := pyproject.NewTable(false)
	var changes []Change

	for _, key := range canonicalOrder {
		switch key {
		case orderBlank:
			table.AddBlank()
			continue
		case orderExtras:
			for _, e := range in.existing.Entries {
				if e.Blank() || slices.Contains(canonicalOrder, e.Key) {
					continue
				}
				table.Set(e.Key, e.Value)
				changes = append(changes, Change{Key: e.Key, Action: ActionExtra})
			}
			continue
		}

		var (
			v      pyproject.Value
			action = ActionUpdated
		)
		if rule, ok := rules[key]; ok {
			var err error
			if v, err = rule(w, in); err != nil {
				return nil, err
			}
		}
		if v == nil {
			existing, ok := in.existing.Get(key)
			if !ok {
				logger.Debug("omitting key", "key", key)
				continue
			}
			v, action = existing, ActionKept
		}
		if arr, ok := v.(*pyproject.Array); ok && multilineKeys[key] {
			v = &pyproject.Array{Items: arr.Items, Multiline: true}
		}
		table.Set(key, v)
		changes = append(changes, Change{Key: key, Action: action})
	}

	doc.SetProject(table)
	return changes, nil
}

// configRule takes the value straight from the normalized configuration.
// For pyproject.toml input only transformed fields are rewritten, so the rest
// keep their original form.
func configRule(f Field) ruleFunc {
	return func(_ *Writer, in ruleInput) (pyproject.Value, error) {
		if in.format == setuppy.FormatPyProject {
			if _, transformed := transforms[f]; !transformed {
				return nil, nil
			}
		}
		v, ok := in.cfg.Get(string(f))
		if !ok || v.IsEmpty() {
			return nil, nil
		}
		switch v := v.(type) {
		case metadata.Scalar:
			return pyproject.String(v), nil
		case metadata.List:
			return pyproject.Strings(v, false), nil
		default:
			return nil, nil
		}
	}
}

func requiresPythonRule(w *Writer, _ ruleInput) (pyproject.Value, error) {
	if w.RequiresPython != "" {
		return pyproject.String(w.RequiresPython), nil
	}
	return pyproject.String(w.Versions.RequiresPython()), nil
}

func licenseRule(_ *Writer, in ruleInput) (pyproject.Value, error) {
	if in.format != setuppy.FormatSetup {
		return nil, nil
	}
	id := in.cfg.String(string(FieldLicense))
	if id == "" {
		return nil, nil
	}
	t := pyproject.NewTable(true)
	t.Set("text", pyproject.String(id))
	return t, nil
}

func maintainersRule(w *Writer, in ruleInput) (pyproject.Value, error) {
	reg := authors.NewRegistry()
	if w.ForkMaintainer.Name != "" {
		reg.Add(w.ForkMaintainer.Name, w.ForkMaintainer.Email)
	}

	switch in.format {
	case setuppy.FormatSetup:
		if name := in.cfg.String(string(FieldMaintainer)); name != "" {
			reg.Add(name, in.cfg.String(string(FieldMaintainerEmail)))
		}
	case setuppy.FormatPyProject:
		for _, p := range people(in.existing, "maintainers") {
			if p.Name == w.ForkMaintainer.Name {
				continue
			}
			reg.Add(p.Name, p.Email)
		}
	}

	if reg.Len() == 0 {
		return nil, nil
	}
	return peopleArray(reg.Entries()), nil
}

func authorsRule(w *Writer, _ ruleInput) (pyproject.Value, error) {
	if w.Authors == nil || w.Authors.Len() == 0 {
		return nil, nil
	}
	return peopleArray(w.Authors.Entries()), nil
}

func dependenciesRule(_ *Writer, in ruleInput) (pyproject.Value, error) {
	if in.format != setuppy.FormatSetup {
		return nil, nil
	}
	var existing []string
	if arr, ok := in.existing.GetArray("dependencies"); ok {
		existing = arr.StringItems()
	}
	deps, err := ResolveDependencies(in.cfg.List(string(FieldInstallRequires)), existing)
	if err != nil {
		return nil, err
	}
	return pyproject.Strings(deps, true), nil
}

func urlsRule(w *Writer, in ruleInput) (pyproject.Value, error) {
	existing, _ := in.existing.GetTable("urls")

	homepage := w.Homepage
	if homepage == "" && in.format == setuppy.FormatSetup {
		homepage = in.cfg.String(string(FieldURL))
	}
	if homepage == "" && existing != nil {
		homepage, _ = existing.GetString(homepageKey)
	}
	if homepage == "" {
		return nil, nil
	}
	return RebuildURLs(existing, homepage), nil
}

// people reads an array of {name, email} tables.
func people(t *pyproject.Table, key string) []authors.Entry {
	arr, ok := t.GetArray(key)
	if !ok {
		return nil
	}
	var out []authors.Entry
	for _, item := range arr.Items {
		p, ok := item.(*pyproject.Table)
		if !ok {
			continue
		}
		name, _ := p.GetString("name")
		email, _ := p.GetString("email")
		if name == "" {
			continue
		}
		out = append(out, authors.Entry{Name: name, Email: email})
	}
	return out
}

func peopleArray(entries []authors.Entry) *pyproject.Array {
	arr := &pyproject.Array{Multiline: true}
	for _, e := range entries {
		t := pyproject.NewTable(true)
		t.Set("name", pyproject.String(e.Name))
		if e.Email != "" {
			t.Set("email", pyproject.String(e.Email))
		}
		arr.Items = append(arr.Items, t)
	}
	return arr
}
