package pyproject

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forkPyproject = `# Fork packaging
[build-system]
requires = ["setuptools>=61.0"]
build-backend = "setuptools.build_meta"

[project]
name = "ebooklib-autoupdate"
version = "0.18"
description = 'Ebook library'
dependencies = [
    "lxml>=4.0",  # parser
    "six",
]
license = { text = "AGPL-3.0" }
zip-safe = true
keywords = ["ebook"]

[project.urls]
Homepage = "https://example.org"
"Bug Tracker" = "https://example.org/issues"

[tool.setuptools]
packages = ["ebooklib", "ebooklib.plugins"]
`

func TestParse_ProjectModel(t *testing.T) {
	doc, err := Parse([]byte(forkPyproject))
	require.NoError(t, err)

	p := doc.Project()
	assert.Equal(t, []string{"name", "version", "description", "dependencies", "license", "zip-safe", "keywords", "urls"}, p.Keys())

	name, ok := p.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "ebooklib-autoupdate", name)

	deps, ok := p.GetArray("dependencies")
	require.True(t, ok)
	assert.True(t, deps.Multiline)
	assert.Equal(t, []string{"lxml>=4.0", "six"}, deps.StringItems())

	keywords, ok := p.GetArray("keywords")
	require.True(t, ok)
	assert.False(t, keywords.Multiline)

	license, ok := p.GetTable("license")
	require.True(t, ok)
	assert.True(t, license.Inline)
	text, _ := license.GetString("text")
	assert.Equal(t, "AGPL-3.0", text)

	zipSafe, _ := p.Get("zip-safe")
	assert.Equal(t, Raw("true"), zipSafe)

	urls, ok := p.GetTable("urls")
	require.True(t, ok)
	assert.False(t, urls.Inline)
	assert.Equal(t, []string{"Homepage", "Bug Tracker"}, urls.Keys())
}

func TestDocument_BytesRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(forkPyproject))
	require.NoError(t, err)

	want := `# Fork packaging
[build-system]
requires = ["setuptools>=61.0"]
build-backend = "setuptools.build_meta"

[project]
name = "ebooklib-autoupdate"
version = "0.18"
description = "Ebook library"
dependencies = [
    "lxml>=4.0",
    "six",
]
license = {text = "AGPL-3.0"}
zip-safe = true
keywords = ["ebook"]

[project.urls]
Homepage = "https://example.org"
"Bug Tracker" = "https://example.org/issues"

[tool.setuptools]
packages = ["ebooklib", "ebooklib.plugins"]
`
	assert.Equal(t, want, string(doc.Bytes()))

	again, err := Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, string(again.Bytes()))
}

func TestDocument_DottedKeysBecomeSubTables(t *testing.T) {
	doc, err := Parse([]byte("[project]\nname = \"x\"\nurls.Homepage = \"https://a\"\nauthors = [{name = \"A\"}]\n"))
	require.NoError(t, err)

	want := "[project]\nname = \"x\"\nauthors = [{name = \"A\"}]\n\n[project.urls]\nHomepage = \"https://a\"\n"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestDocument_KeepsTrailingComments(t *testing.T) {
	doc, err := Parse([]byte("[project]\nname = \"x\"\n# keep me\n\n[tool.a]\nb = 1\n"))
	require.NoError(t, err)

	doc.Project().Set("version", String("1.0"))

	want := "[project]\nname = \"x\"\nversion = \"1.0\"\n# keep me\n\n[tool.a]\nb = 1\n"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestDocument_SeparatesRebuiltProjectFromNextTable(t *testing.T) {
	doc, err := Parse([]byte("[project]\nname = \"x\"\n[tool.a]\nb = 1\n"))
	require.NoError(t, err)

	assert.Equal(t, "[project]\nname = \"x\"\n\n[tool.a]\nb = 1\n", string(doc.Bytes()))
}

func TestDocument_BytesCollapsesBlankLines(t *testing.T) {
	doc, err := Parse([]byte("[project]\nname = \"x\"\n"))
	require.NoError(t, err)

	p := doc.Project()
	p.AddBlank()
	p.AddBlank()
	p.AddBlank()
	p.Set("version", String("1"))

	assert.Equal(t, "[project]\nname = \"x\"\n\nversion = \"1\"\n", string(doc.Bytes()))
}

func TestParse_NoProjectTable(t *testing.T) {
	_, err := Parse([]byte("[tool.a]\nb = 1\n"))
	assert.ErrorIs(t, err, ErrNoProjectTable)

	_, err = Parse([]byte("[project.urls]\nHomepage = \"x\"\n"))
	assert.ErrorIs(t, err, ErrNoProjectTable)
}

func TestParse_InvalidTOML(t *testing.T) {
	_, err := Parse([]byte("[project]\nname = \n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)

	_, err = Parse([]byte("[project]\nname = \"a\"\nname = \"b\"\n"))
	require.ErrorAs(t, err, &perr)
}

func TestWriteArray(t *testing.T) {
	maintainers := &Array{Multiline: true}
	for _, name := range []string{"A", "B"} {
		m := NewTable(true)
		m.Set("name", String(name))
		maintainers.Items = append(maintainers.Items, m)
	}

	p := NewTable(false)
	p.Set("maintainers", maintainers)
	p.Set("keywords", Strings([]string{"ebook", "epub"}, false))
	p.Set("classifiers", Strings(nil, true))

	doc := &Document{project: p, sections: []section{{kind: sectionProject}}}
	want := `[project]
maintainers = [
    {name = "A"},
    {name = "B"},
]
keywords = ["ebook", "epub"]
classifiers = []
`
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: `"plain"`},
		{in: `a"b\c`, want: `"a\"b\\c"`},
		{in: "tab\there\n", want: `"tab\there\n"`},
		{in: "\x01\x7f", want: `"\u0001\u007F"`},
		{in: "ünïcode", want: `"ünïcode"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in))
	}
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "requires-python", formatKey("requires-python"))
	assert.Equal(t, `"Bug Tracker"`, formatKey("Bug Tracker"))
	assert.Equal(t, `"a.b"`, formatKey("a.b"))
	assert.Equal(t, `""`, formatKey(""))
}

func TestTable_Editing(t *testing.T) {
	tbl := NewTable(false)
	tbl.Set("a", String("1"))
	tbl.AddBlank()
	tbl.Set("b", String("2"))
	tbl.Set("a", String("3"))
	tbl.Delete("b")

	assert.Equal(t, []string{"a"}, tbl.Keys())
	assert.Equal(t, 1, tbl.Len())
	assert.Len(t, tbl.Entries, 2)
	v, _ := tbl.GetString("a")
	assert.Equal(t, "3", v)

	_, ok := tbl.GetArray("a")
	assert.False(t, ok)
}

func TestReadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(forkPyproject), 0o600))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	doc.Project().Set("version", String("0.19"))
	require.NoError(t, doc.WriteFile(path))

	reread, err := ReadFile(path)
	require.NoError(t, err)
	version, _ := reread.Project().GetString("version")
	assert.Equal(t, "0.19", version)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = ReadFile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestDocument_EndsWithSingleNewline(t *testing.T) {
	doc, err := Parse([]byte("[project]\nname = \"x\"\n\n[project.urls]\nHomepage = \"https://a\"\n\n\n"))
	require.NoError(t, err)

	assert.Equal(t, "[project]\nname = \"x\"\n\n[project.urls]\nHomepage = \"https://a\"\n", string(doc.Bytes()))
}

const arrayTablePyproject = `[project]
name = "x"

[[project.authors]]
name = "A"
email = "a@example.org"

[[project.authors]]
name = "B"
# tail

[tool.a]
b = 1
`

func TestParse_ArrayTablesBecomeArrays(t *testing.T) {
	doc, err := Parse([]byte(arrayTablePyproject))
	require.NoError(t, err)

	arr, ok := doc.Project().GetArray("authors")
	require.True(t, ok)
	require.Len(t, arr.Items, 2)
	first := arr.Items[0].(*Table)
	email, _ := first.GetString("email")
	assert.Equal(t, "a@example.org", email)

	want := "[project]\nname = \"x\"\nauthors = [\n" +
		"    {name = \"A\", email = \"a@example.org\"},\n" +
		"    {name = \"B\"},\n" +
		"]\n\n# tail\n\n[tool.a]\nb = 1\n"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestDocument_ReplacingArrayTableStaysValid(t *testing.T) {
	doc, err := Parse([]byte(arrayTablePyproject))
	require.NoError(t, err)

	c := NewTable(true)
	c.Set("name", String("C"))
	doc.Project().Set("authors", &Array{Items: []Value{c}, Multiline: true})
	require.NoError(t, doc.Validate())

	again, err := Parse(doc.Bytes())
	require.NoError(t, err)
	arr, ok := again.Project().GetArray("authors")
	require.True(t, ok)
	assert.Len(t, arr.Items, 1)
	assert.NotContains(t, string(doc.Bytes()), "[[project.authors]]")
}

func TestDocument_WriteFileRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(forkPyproject), 0o600))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	p := doc.Project()
	p.Entries = append(p.Entries, Entry{Key: "name", Value: String("duplicate")})

	require.Error(t, doc.Validate())
	require.Error(t, doc.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, forkPyproject, string(data))
}
