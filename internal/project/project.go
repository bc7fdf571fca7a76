// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package project loads the HCL file describing which documents embed a
// support matrix and where their rendered output goes.
//
// Example:
//
//	source_dir = "doc/source"
//	output_dir = "doc/build"
//
//	document "compute" {
//	  path   = "support/compute.rst"
//	  matrix = "support-matrix.ini"
//	  format = "markdown"
//	  title  = "Compute feature support"
//	}
package project

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"grimm.is/supportmatrix/internal/docwriter"
	"grimm.is/supportmatrix/internal/errors"
)

// Project is a decoded project file.
type Project struct {
	SourceDir string     `hcl:"source_dir,optional"`
	OutputDir string     `hcl:"output_dir"`
	Documents []Document `hcl:"document,block"`

	// Path is the project file the project was loaded from.
	Path string
}

// Document is one page embedding a support matrix.
type Document struct {
	Name string `hcl:"name,label"`

	// Path of the invoking document, relative to SourceDir.
	Path string `hcl:"path"`
	// Matrix is the directive argument: "/" prefixed names are relative to
	// SourceDir, others to the document.
	Matrix string `hcl:"matrix"`

	Format      string `hcl:"format,optional"`
	Output      string `hcl:"output,optional"` // relative to OutputDir
	Title       string `hcl:"title,optional"`
	Description string `hcl:"description,optional"`
	Weight      int    `hcl:"weight,optional"`
}

// Load reads and validates a project file. The file name must end in .hcl
// or .json.
func Load(filename string) (*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Attr(errors.Wrap(err, errors.KindIO, "failed to read project file"), "path", filename)
	}
	return Parse(filename, data)
}

// Parse decodes project source. Relative directories resolve against the
// directory of filename.
func Parse(filename string, data []byte) (*Project, error) {
	var p Project
	if err := hclsimple.Decode(filename, data, nil, &p); err != nil {
		return nil, errors.Attr(errors.Wrap(err, errors.KindSyntax, "failed to decode project file"), "path", filename)
	}
	p.Path = filename

	base := filepath.Dir(filename)
	p.SourceDir = resolve(base, p.SourceDir)
	p.OutputDir = resolve(base, p.OutputDir)

	if err := p.applyDefaults(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func resolve(base, dir string) string {
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

func (p *Project) applyDefaults() error {
	for i := range p.Documents {
		d := &p.Documents[i]
		if d.Format == "" {
			d.Format = string(docwriter.FormatMarkdown)
		}
		format, err := docwriter.ParseFormat(d.Format)
		if err != nil {
			return errors.Attr(err, "document", d.Name)
		}
		d.Format = string(format)

		if d.Output == "" && d.Path != "" {
			slashed := filepath.ToSlash(d.Path)
			d.Output = strings.TrimSuffix(slashed, path.Ext(slashed)) + format.Extension()
		}
	}
	return nil
}

// Validate checks required fields and rejects documents sharing a name or
// an output file.
func (p *Project) Validate() error {
	if len(p.Documents) == 0 {
		return errors.Attr(errors.New(errors.KindValidation, "project declares no documents"), "path", p.Path)
	}

	names := make(map[string]bool, len(p.Documents))
	outputs := make(map[string]string, len(p.Documents))
	for _, d := range p.Documents {
		fail := func(format string, args ...any) error {
			return errors.Attr(errors.Errorf(errors.KindValidation, format, args...), "document", d.Name)
		}

		if d.Name == "" {
			return fail("document name must not be empty")
		}
		if names[d.Name] {
			return fail("document %q is declared twice", d.Name)
		}
		names[d.Name] = true

		if strings.TrimSpace(d.Path) == "" {
			return fail("document %q: 'path' must not be empty", d.Name)
		}
		if strings.TrimSpace(d.Matrix) == "" {
			return fail("document %q: 'matrix' must not be empty", d.Name)
		}
		if _, err := docwriter.ParseFormat(d.Format); err != nil {
			return errors.Attr(err, "document", d.Name)
		}
		if escapes(d.Output) {
			return fail("document %q: output %q leaves the output directory", d.Name, d.Output)
		}

		out := path.Clean(filepath.ToSlash(d.Output))
		if other, ok := outputs[out]; ok {
			return fail("documents %q and %q both write %s", other, d.Name, out)
		}
		outputs[out] = d.Name
	}
	return nil
}

func escapes(rel string) bool {
	if filepath.IsAbs(rel) {
		return true
	}
	clean := path.Clean(filepath.ToSlash(rel))
	return clean == ".." || strings.HasPrefix(clean, "../")
}

// OutputPath is the file d is written to.
func (p *Project) OutputPath(d Document) string {
	return filepath.Join(p.OutputDir, filepath.FromSlash(d.Output))
}

// Document returns the document called name.
func (p *Project) Document(name string) (Document, bool) {
	for _, d := range p.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}
