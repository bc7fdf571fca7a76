// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"grimm.is/supportmatrix/internal/errors"
)

func TestLoad(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "docs.hcl"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "source"), p.SourceDir)
	assert.Equal(t, filepath.Join("testdata", "build"), p.OutputDir)
	require.Len(t, p.Documents, 2)

	compute := p.Documents[0]
	assert.Equal(t, "compute", compute.Name)
	assert.Equal(t, "markdown", compute.Format)
	assert.Equal(t, "support/compute.md", compute.Output)
	assert.Equal(t, "Compute Support Matrix", compute.Title)
	assert.Equal(t, 10, compute.Weight)
	assert.Equal(t, filepath.Join("testdata", "build", "support", "compute.md"), p.OutputPath(compute))

	network, ok := p.Document("network")
	require.True(t, ok)
	assert.Equal(t, "html", network.Format)
	assert.Equal(t, "net/index.html", network.Output)
	assert.Equal(t, "/shared/network.ini", network.Matrix)

	_, ok = p.Document("storage")
	assert.False(t, ok)
}

func TestParseDefaults(t *testing.T) {
	src := `
output_dir = "/srv/docs"

document "a" {
  path   = "a.rst"
  matrix = "a.ini"
  format = "JSON"
}
`
	p, err := Parse(filepath.Join("proj", "docs.hcl"), []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "proj", p.SourceDir)
	assert.Equal(t, "/srv/docs", p.OutputDir)
	assert.Equal(t, "json", p.Documents[0].Format)
	assert.Equal(t, "a.json", p.Documents[0].Output)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     errors.Kind
		contains string
	}{
		{
			name:     "syntax",
			src:      `document "a" {`,
			kind:     errors.KindSyntax,
			contains: "failed to decode project file",
		},
		{
			name:     "missing output_dir",
			src:      "document \"a\" {\n  path = \"a.rst\"\n  matrix = \"a.ini\"\n}\n",
			kind:     errors.KindSyntax,
			contains: "output_dir",
		},
		{
			name:     "no documents",
			src:      `output_dir = "out"`,
			kind:     errors.KindValidation,
			contains: "no documents",
		},
		{
			name:     "unknown format",
			src:      "output_dir = \"out\"\ndocument \"a\" {\n  path = \"a.rst\"\n  matrix = \"a.ini\"\n  format = \"pdf\"\n}\n",
			kind:     errors.KindValidation,
			contains: "unknown format",
		},
		{
			name:     "duplicate name",
			src:      "output_dir = \"out\"\ndocument \"a\" {\n  path = \"a.rst\"\n  matrix = \"a.ini\"\n}\ndocument \"a\" {\n  path = \"b.rst\"\n  matrix = \"b.ini\"\n}\n",
			kind:     errors.KindValidation,
			contains: "declared twice",
		},
		{
			name:     "shared output",
			src:      "output_dir = \"out\"\ndocument \"a\" {\n  path = \"x/a.rst\"\n  matrix = \"a.ini\"\n  output = \"same.md\"\n}\ndocument \"b\" {\n  path = \"b.rst\"\n  matrix = \"b.ini\"\n  output = \"./same.md\"\n}\n",
			kind:     errors.KindValidation,
			contains: "both write same.md",
		},
		{
			name:     "empty matrix",
			src:      "output_dir = \"out\"\ndocument \"a\" {\n  path = \"a.rst\"\n  matrix = \"\"\n}\n",
			kind:     errors.KindValidation,
			contains: "'matrix' must not be empty",
		},
		{
			name:     "output escapes",
			src:      "output_dir = \"out\"\ndocument \"a\" {\n  path = \"a.rst\"\n  matrix = \"a.ini\"\n  output = \"../a.md\"\n}\n",
			kind:     errors.KindValidation,
			contains: "leaves the output directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("docs.hcl", []byte(tt.src))
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.GetKind(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.hcl"))
	require.Error(t, err)
	assert.Equal(t, errors.KindIO, errors.GetKind(err))
	assert.Equal(t, filepath.Join("testdata", "absent.hcl"), errors.GetAttributes(err)["path"])
}
