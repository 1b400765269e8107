package migrate

import (
	"testing"

	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"github.com/stretchr/testify/assert"
)

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Ebook library which can handle EPUB2/EPUB3 format",
		CleanDescription("Ebook library which can handle EPUB2/EPUB3 and Kindle format"))
	assert.Equal(t, "EPUB format", CleanDescription("EPUB and kindle format"))
	assert.Equal(t, "unchanged", CleanDescription("unchanged"))
}

func TestIsPythonVersionClassifier(t *testing.T) {
	assert.True(t, IsPythonVersionClassifier("Programming Language :: Python :: 2.7"))
	assert.True(t, IsPythonVersionClassifier("Programming Language :: Python :: 3"))
	assert.False(t, IsPythonVersionClassifier("Programming Language :: Python"))
	assert.False(t, IsPythonVersionClassifier("Programming Language :: Python :: Implementation :: CPython"))
	assert.False(t, IsPythonVersionClassifier("Topic :: Utilities"))
}

func TestRewriteClassifiers(t *testing.T) {
	in := []string{
		"Development Status :: 4 - Beta",
		"License :: OSI Approved :: GNU Affero General Public License v3",
		"Programming Language :: Python",
		"Programming Language :: Python :: 2.7",
		"Programming Language :: Python :: 3",
		"Topic :: Software Development :: Libraries :: Python Modules",
	}

	got := RewriteClassifiers(in, DefaultVersions())
	assert.Equal(t, []string{
		"Development Status :: 4 - Beta",
		"Programming Language :: Python",
		"Programming Language :: Python :: 3.9",
		"Programming Language :: Python :: 3.10",
		"Programming Language :: Python :: 3.11",
		"Programming Language :: Python :: 3.12",
		"Topic :: Software Development :: Libraries :: Python Modules",
	}, got)
}

func TestRewriteClassifiers_Ranges(t *testing.T) {
	in := []string{
		"Intended Audience :: Developers",
		"Programming Language :: Python :: 3.6",
		"License :: Other",
		"Programming Language :: Python :: 3.7",
		"Operating System :: OS Independent",
	}

	for _, v := range []Versions{
		{Major: 3, Min: 9, Max: 9},
		{Major: 3, Min: 8, Max: 13},
		{Major: 4, Min: 0, Max: 2},
	} {
		got := RewriteClassifiers(in, v)

		var versions, others []string
		for _, c := range got {
			assert.NotContains(t, c, "License")
			if IsPythonVersionClassifier(c) {
				versions = append(versions, c)
			} else {
				others = append(others, c)
			}
		}
		assert.Equal(t, v.Classifiers(), versions)
		assert.Equal(t, []string{"Intended Audience :: Developers", "Operating System :: OS Independent"}, others)
		assert.Len(t, got, v.Max-v.Min+3)
	}
}

func TestRewriteClassifiers_NoVersionClassifier(t *testing.T) {
	got := RewriteClassifiers([]string{"Topic :: Utilities"}, DefaultVersions())
	assert.Equal(t, []string{"Topic :: Utilities"}, got)
}

func TestTransforms(t *testing.T) {
	versions := DefaultVersions()

	kw := transforms[FieldKeywords](metadata.List{"kindle"}, versions)
	assert.Equal(t, metadata.List{"ebook", "epub"}, kw)

	desc := transforms[FieldDescription](metadata.Scalar("A and kindle reader"), versions)
	assert.Equal(t, metadata.Scalar("A reader"), desc)

	// Non-list classifiers pass through untouched.
	cls := transforms[FieldClassifiers](metadata.Scalar("x"), versions)
	assert.Equal(t, metadata.Scalar("x"), cls)
}
