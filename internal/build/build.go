// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package build renders every document of a project and keeps the output
// tree up to date.
//
// Build writes all outputs atomically and then installs the stylesheet.
// Check renders in memory and reports outputs that differ from disk.
// Watch rebuilds whenever a matrix file or the project file changes.
package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"grimm.is/supportmatrix/internal/assets"
	"grimm.is/supportmatrix/internal/directive"
	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/docwriter"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/logging"
	"grimm.is/supportmatrix/internal/metrics"
	"grimm.is/supportmatrix/internal/project"
)

// Builder builds the documents of one project.
type Builder struct {
	project  *project.Project
	registry *directive.Registry
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

// Result describes one rendered document.
type Result struct {
	Document string
	Output   string
	// Dependencies are the files the document was rendered from.
	Dependencies []string
	Content      []byte
}

// New returns a Builder for p. A nil logger uses the default logger.
func New(p *project.Project, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Builder{
		project:  p,
		registry: directive.NewRegistry(),
		logger:   logger.WithComponent("build"),
	}
}

// WithMetrics records every build and check in m.
func (b *Builder) WithMetrics(m *metrics.Metrics) *Builder {
	b.metrics = m
	return b
}

// Project returns the project being built.
func (b *Builder) Project() *project.Project {
	return b.project
}

// Render renders one document in memory.
func (b *Builder) Render(d project.Document) (*Result, error) {
	env := directive.NewEnv(b.project.SourceDir, d.Path)
	res := &Result{Document: d.Name, Output: b.project.OutputPath(d)}

	nodes, err := b.registry.Invoke(env, directive.SupportMatrixName, []string{d.Matrix})
	for _, dep := range env.Dependencies() {
		res.Dependencies = append(res.Dependencies, filepath.Join(b.project.SourceDir, dep))
	}
	if err != nil {
		return res, errors.Attr(err, "document", d.Name)
	}

	content, err := docwriter.Render(docwriter.Format(d.Format), document(d, nodes))
	if err != nil {
		return res, errors.Attr(err, "document", d.Name)
	}
	res.Content = content
	return res, nil
}

func document(d project.Document, nodes []*docnode.Node) docwriter.Document {
	return docwriter.Document{
		Title:       d.Title,
		Description: d.Description,
		Weight:      d.Weight,
		Stylesheet:  stylesheetHref(d.Output),
		Nodes:       nodes,
	}
}

// stylesheetHref is the stylesheet link as seen from output, both relative
// to the output directory.
func stylesheetHref(output string) string {
	target := filepath.FromSlash(assets.StylesheetPath())
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(output)), target)
	if err != nil {
		return assets.StylesheetPath()
	}
	return filepath.ToSlash(rel)
}

// Build renders and writes every document. The stylesheet is installed
// only once all documents succeeded. Results cover the documents attempted,
// including a failing one, so callers can still watch its dependencies.
func (b *Builder) Build(ctx context.Context) ([]*Result, error) {
	started := time.Now()
	logger := b.logger.With("build_id", uuid.NewString())

	results, err := b.build(ctx, logger)
	if b.metrics != nil {
		b.metrics.ObserveBuild(started, len(results), err)
	}
	if err == nil {
		logger.Info("build finished", "documents", len(results), "output_dir", b.project.OutputDir,
			"duration", time.Since(started).String())
	}
	return results, err
}

func (b *Builder) build(ctx context.Context, logger *logging.Logger) ([]*Result, error) {
	var results []*Result

	for _, d := range b.project.Documents {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := b.Render(d)
		results = append(results, res)
		if err != nil {
			return results, err
		}

		if err := WriteFile(res.Output, res.Content); err != nil {
			return results, errors.Attr(err, "document", d.Name)
		}
		logger.Debug("wrote document", "document", d.Name, "output", res.Output, "bytes", len(res.Content))
	}

	if err := WriteFile(b.StylesheetPath(), assets.Stylesheet()); err != nil {
		return results, err
	}
	return results, nil
}

// StylesheetPath is where Build installs the stylesheet.
func (b *Builder) StylesheetPath() string {
	return filepath.Join(b.project.OutputDir, filepath.FromSlash(assets.StylesheetPath()))
}

// WriteFile atomically replaces path with data, creating parent
// directories as needed. Unchanged files are left alone.
func WriteFile(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Attr(errors.Wrap(err, errors.KindIO, "failed to create output directory"), "path", path)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return errors.Attr(errors.Wrap(err, errors.KindIO, "failed to create pending file"), "path", path)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logging.WithComponent("build").Debug("cleanup pending file", "path", path, "error", err)
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return errors.Attr(errors.Wrap(err, errors.KindIO, "failed to write output"), "path", path)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return errors.Attr(errors.Wrap(err, errors.KindIO, "failed to replace output"), "path", path)
	}
	return nil
}
