package migrate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/authors"
	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/ProsePal/ebooklib-autoupdate/internal/setuppy"
)

// ErrMissingField is returned when a required field is absent or empty.
var ErrMissingField = errors.New("missing required field")

// requiredFields lists the fields each format must provide.
var requiredFields = map[setuppy.Format][]Field{
	setuppy.FormatSetup: {
		FieldVersion, FieldLicense, FieldDescription, FieldKeywords, FieldClassifiers,
		FieldAuthor, FieldAuthorEmail, FieldLongDescription, FieldURL, FieldInstallRequires,
	},
	setuppy.FormatPyProject: {
		FieldVersion, FieldDescription, FieldClassifiers, FieldReadme,
	},
}

// mayBeNone lists required fields that must be present but may be None. A
// missing author email is looked up in the authors file.
var mayBeNone = map[Field]bool{
	FieldAuthorEmail: true,
}

// LicenseResolver maps a license name to an SPDX identifier.
type LicenseResolver interface {
	Resolve(name string) (string, error)
}

// Normalizer turns raw setup.py or [project] configuration into the fields
// the document writer consumes.
type Normalizer struct {
	// Licenses is consulted for setup.py configuration only.
	Licenses LicenseResolver
	// Authors supplies the maintainer email when the configuration has none.
	Authors  *authors.Registry
	Versions Versions
	Logger   *slog.Logger
}

// Normalize validates raw, applies the field transforms and, for setup.py
// configuration, renames legacy fields and converts the license.
func (n *Normalizer) Normalize(raw *metadata.Config, format setuppy.Format) (*metadata.Config, error) {
	logger := n.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := CheckRequired(raw, format); err != nil {
		return nil, err
	}

	out := raw.Clone()
	for _, key := range out.Keys() {
		transform, ok := transforms[Field(key)]
		if !ok {
			continue
		}
		v, _ := out.Get(key)
		next := transform(v, n.Versions)
		out.Set(key, next)
		logger.Debug("transformed field", "field", key, "from", metadata.Describe(v), "to", metadata.Describe(next))
	}

	if format != setuppy.FormatSetup {
		return out, nil
	}

	out.Rename(string(FieldLongDescription), string(FieldReadme))

	if n.Licenses == nil {
		return nil, errors.New("no license table to resolve the license with")
	}
	name := out.String(string(FieldLicense))
	id, err := n.Licenses.Resolve(name)
	if err != nil {
		return nil, err
	}
	out.Set(string(FieldLicense), metadata.Scalar(id))
	logger.Debug("resolved license", "name", name, "spdx", id)

	out.Rename(string(FieldAuthor), string(FieldMaintainer))
	out.Rename(string(FieldAuthorEmail), string(FieldMaintainerEmail))

	if out.String(string(FieldMaintainerEmail)) == "" && n.Authors != nil {
		maintainer := out.String(string(FieldMaintainer))
		if email, ok := n.Authors.Email(maintainer); ok && email != "" {
			out.Set(string(FieldMaintainerEmail), metadata.Scalar(email))
		}
	}

	return out, nil
}

// CheckRequired reports every required field of format that raw lacks or
// that is None. Empty lists count as present.
func CheckRequired(raw *metadata.Config, format setuppy.Format) error {
	var missing []string
	for _, f := range requiredFields[format] {
		v, ok := raw.Get(string(f))
		if !ok || v == nil || isNone(v) && !mayBeNone[f] {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: %s", ErrMissingField, format, strings.Join(missing, ", "))
	}
	return nil
}

// isNone reports whether v is the empty scalar None and ” evaluate to.
func isNone(v metadata.Value) bool {
	s, ok := v.(metadata.Scalar)
	return ok && s == ""
}
