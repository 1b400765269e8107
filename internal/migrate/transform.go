package migrate

import (
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
)

// Field names a configuration field.
type Field string

// Fields read from setup.py keywords or the [project] table.
const (
	FieldVersion         Field = "version"
	FieldLicense         Field = "license"
	FieldDescription     Field = "description"
	FieldKeywords        Field = "keywords"
	FieldClassifiers     Field = "classifiers"
	FieldAuthor          Field = "author"
	FieldAuthorEmail     Field = "author_email"
	FieldLongDescription Field = "long_description"
	FieldURL             Field = "url"
	FieldInstallRequires Field = "install_requires"
	FieldReadme          Field = "readme"
	FieldMaintainer      Field = "maintainer"
	FieldMaintainerEmail Field = "maintainer_email"
)

const pythonClassifierPrefix = "Programming Language :: Python :: "

// brandPhrases are removed from descriptions; the fork targets EPUB only.
var brandPhrases = []string{"and kindle ", "and Kindle "}

// Keywords replaces the upstream keywords.
var Keywords = []string{"ebook", "epub"}

// transformFunc rewrites one field value. Transforms are pure.
type transformFunc func(v metadata.Value, versions Versions) metadata.Value

// transforms lists the per-field value rewrites applied to every format.
var transforms = map[Field]transformFunc{
	FieldDescription: func(v metadata.Value, _ Versions) metadata.Value {
		s, ok := v.(metadata.Scalar)
		if !ok {
			return v
		}
		return metadata.Scalar(CleanDescription(string(s)))
	},
	FieldKeywords: func(metadata.Value, Versions) metadata.Value {
		return metadata.List(append([]string(nil), Keywords...))
	},
	FieldClassifiers: func(v metadata.Value, versions Versions) metadata.Value {
		l, ok := v.(metadata.List)
		if !ok {
			return v
		}
		return metadata.List(RewriteClassifiers(l, versions))
	},
}

// CleanDescription removes the Kindle references from a description.
func CleanDescription(s string) string {
	for _, phrase := range brandPhrases {
		s = strings.ReplaceAll(s, phrase, "")
	}
	return s
}

// IsPythonVersionClassifier reports whether c pins a Python version, such as
// "Programming Language :: Python :: 3.8".
func IsPythonVersionClassifier(c string) bool {
	rest, ok := strings.CutPrefix(c, pythonClassifierPrefix)
	return ok && rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

// RewriteClassifiers drops license classifiers and replaces the Python version
// classifiers with the supported range. The range is inserted where the first
// version classifier was; later ones are dropped.
func RewriteClassifiers(classifiers []string, versions Versions) []string {
	out := make([]string, 0, len(classifiers))
	inserted := false
	for _, c := range classifiers {
		switch {
		case strings.Contains(c, "License"):
		case IsPythonVersionClassifier(c):
			if !inserted {
				out = append(out, versions.Classifiers()...)
				inserted = true
			}
		default:
			out = append(out, c)
		}
	}
	return out
}
