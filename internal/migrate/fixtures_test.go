package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProsePal/ebooklib-autoupdate/internal/authors"
	"github.com/ProsePal/ebooklib-autoupdate/internal/license"
	"github.com/stretchr/testify/require"
)

const upstreamSetup = `import io
from setuptools import setup


def read(fname):
    return open(fname).read()


setup(
    name = 'EbookLib',
    version = '0.18',
    author = 'Aleksandar Erkalovic',
    author_email = 'aerkalov@gmail.com',
    packages = ['ebooklib', 'ebooklib.plugins'],
    url = 'https://github.com/aerkalov/ebooklib',
    license = 'GNU Affero General Public License',
    description = 'Ebook library which can handle EPUB2/EPUB3 and Kindle format',
    long_description = read('README.md'),
    keywords = ['ebook', 'epub', 'kindle'],
    classifiers = [
        "Development Status :: 4 - Beta",
        "Intended Audience :: Developers",
        "License :: OSI Approved :: GNU Affero General Public License v3",
        "Operating System :: OS Independent",
        "Programming Language :: Python",
        "Programming Language :: Python :: 2.7",
        "Programming Language :: Python :: 3",
        "Topic :: Software Development :: Libraries :: Python Modules"
    ],
    include_package_data = True,
    zip_safe = False,
    install_requires = [
        "lxml",
        "six"
        ]
)
`

const authorsFile = `Listed in order of first contribution:

Aleksandar Erkalovic <aerkalov@gmail.com>
Jane Doe
`

const forkPyproject = `[build-system]
requires = ["setuptools>=61.0"]
build-backend = "setuptools.build_meta"

[project]
name = "ebooklib-autoupdate"
version = "0.17"
description = "old"
dependencies = [
    "lxml>=4.0",
    "six>=1.16",
]
license = { text = "AGPL-3.0" }
zip-safe = true

[project.urls]
Homepage = "https://example.org"
"Bug Tracker" = "https://example.org/issues"

[tool.setuptools]
packages = ["ebooklib"]
`

// migratedPyproject is forkPyproject after migrating upstreamSetup.
const migratedPyproject = `[build-system]
requires = ["setuptools>=61.0"]
build-backend = "setuptools.build_meta"

[project]
name = "ebooklib-autoupdate"
version = "0.18"
description = "Ebook library which can handle EPUB2/EPUB3 format"
readme = "README.md"
requires-python = ">=3.9"
license = {text = "AGPL-3.0"}
keywords = ["ebook", "epub"]
classifiers = [
    "Development Status :: 4 - Beta",
    "Intended Audience :: Developers",
    "Operating System :: OS Independent",
    "Programming Language :: Python",
    "Programming Language :: Python :: 3.9",
    "Programming Language :: Python :: 3.10",
    "Programming Language :: Python :: 3.11",
    "Programming Language :: Python :: 3.12",
    "Topic :: Software Development :: Libraries :: Python Modules",
]
maintainers = [
    {name = "Ashlynn Antrobus", email = "ashlynn@prosepal.io"},
    {name = "Aleksandar Erkalovic", email = "aerkalov@gmail.com"},
]
authors = [
    {name = "Aleksandar Erkalovic", email = "aerkalov@gmail.com"},
    {name = "Jane Doe"},
]

dependencies = [
    "lxml>=4.0",
    "six>=1.16",
]
zip-safe = true

[project.urls]
Homepage = "https://github.com/aerkalov/ebooklib"
"Bug Tracker" = "https://example.org/issues"

[tool.setuptools]
packages = ["ebooklib"]
`

const upstreamPyproject = `[build-system]
requires = ["setuptools"]

[project]
name = "EbookLib"
version = "0.18"
description = "Ebook library which can handle EPUB2/EPUB3 and Kindle format"
readme = {file = "README.md", content-type = "text/markdown"}
license = "AGPL-3.0-or-later"
keywords = ["ebook", "epub", "kindle"]
classifiers = ["Programming Language :: Python :: 3.8", "License :: OSI Approved", "Topic :: Text Processing"]
maintainers = [{name = "Ashlynn Antrobus", email = "old@example.org"}, {name = "Upstream Dev", email = "dev@example.org"}]
dependencies = ["lxml", "six"]

[project.urls]
Homepage = "https://github.com/aerkalov/ebooklib"
`

// migratedUpstreamPyproject is upstreamPyproject after a pyproject.toml migration.
const migratedUpstreamPyproject = `[build-system]
requires = ["setuptools"]

[project]
name = "EbookLib"
version = "0.18"
description = "Ebook library which can handle EPUB2/EPUB3 format"
readme = {file = "README.md", content-type = "text/markdown"}
requires-python = ">=3.9"
license = "AGPL-3.0-or-later"
keywords = ["ebook", "epub"]
classifiers = [
    "Programming Language :: Python :: 3.9",
    "Programming Language :: Python :: 3.10",
    "Programming Language :: Python :: 3.11",
    "Programming Language :: Python :: 3.12",
    "Topic :: Text Processing",
]
maintainers = [
    {name = "Ashlynn Antrobus", email = "ashlynn@prosepal.io"},
    {name = "Upstream Dev", email = "dev@example.org"},
]
authors = [
    {name = "Aleksandar Erkalovic", email = "aerkalov@gmail.com"},
    {name = "Jane Doe"},
]

dependencies = [
    "lxml",
    "six",
]

[project.urls]
Homepage = "https://github.com/aerkalov/ebooklib"
`

const licensesJSON = `{"licenses": [
  {"name": "BSD Zero Clause License", "licenseId": "0BSD"},
  {"name": "GNU Affero General Public License v3.0", "licenseId": "AGPL-3.0"},
  {"name": "GNU Affero General Public License v3.0 only", "licenseId": "AGPL-3.0-only"},
  {"name": "MIT License", "licenseId": "MIT"}
]}`

func testLicenses(t *testing.T) *license.Table {
	t.Helper()
	table, err := license.Decode(strings.NewReader(licensesJSON))
	require.NoError(t, err)
	return table
}

func testAuthors(t *testing.T) *authors.Registry {
	t.Helper()
	reg, err := authors.Parse(strings.NewReader(authorsFile))
	require.NoError(t, err)
	return reg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
