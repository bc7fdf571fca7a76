// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"grimm.is/supportmatrix/internal/assets"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/metrics"
	"grimm.is/supportmatrix/internal/project"
	"grimm.is/supportmatrix/internal/testutil"
)

const projectSource = `
source_dir = "source"
output_dir = "build"

document "compute" {
  path   = "support/compute.rst"
  matrix = "support-matrix.ini"
  title  = "Compute Support Matrix"
}

document "compute-html" {
  path   = "support/compute.rst"
  matrix = "/support/support-matrix.ini"
  format = "html"
  output = "html/compute.html"
}
`

type fixture struct {
	dir     string
	matrix  string
	builder *Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	matrixPath := filepath.Join(dir, "source", "support", "support-matrix.ini")
	testutil.CopyFile(t, filepath.Join("testdata", "support-matrix.ini"), matrixPath)

	projectPath := filepath.Join(dir, "docs.hcl")
	testutil.WriteFile(t, projectPath, []byte(projectSource))
	p, err := project.Load(projectPath)
	require.NoError(t, err)

	return &fixture{dir: dir, matrix: matrixPath, builder: New(p, testutil.QuietLogger())}
}

func (f *fixture) output(t *testing.T, rel string) string {
	t.Helper()
	return testutil.ReadFile(t, filepath.Join(f.dir, "build", filepath.FromSlash(rel)))
}

func TestBuild(t *testing.T) {
	f := newFixture(t)

	results, err := f.builder.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{f.matrix}, results[0].Dependencies)
	assert.Equal(t, []string{f.matrix}, results[1].Dependencies)

	md := f.output(t, "support/compute.md")
	assert.True(t, strings.HasPrefix(md, "# Compute Support Matrix\n\n## Summary\n"), md)

	page := f.output(t, "html/compute.html")
	assert.Contains(t, page, `href="../_static/support-matrix.css"`)

	assert.Equal(t, string(assets.Stylesheet()), f.output(t, "_static/support-matrix.css"))
}

func TestBuildFailureSkipsStylesheet(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.matrix, []byte("[operation.x]\nstatus=optional\n"), 0o644))

	results, err := f.builder.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
	assert.Equal(t, "compute", errors.GetAttributes(err)["document"])

	require.Len(t, results, 1)
	assert.Equal(t, []string{f.matrix}, results[0].Dependencies, "failed documents still report dependencies")

	_, statErr := os.Stat(f.builder.StylesheetPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildMissingMatrix(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.matrix))

	_, err := f.builder.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindIO, errors.GetKind(err))
}

func TestBuildCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.builder.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.builder.Check(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.KindConflict, errors.GetKind(err))
	assert.Contains(t, err.Error(), "3 output(s) out of date")
	assert.Contains(t, err.Error(), "missing ")

	_, err = f.builder.Build(ctx)
	require.NoError(t, err)
	require.NoError(t, f.builder.Check(ctx))

	mdPath := filepath.Join(f.dir, "build", "support", "compute.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("# Compute Support Matrix\n\nhand edited\n"), 0o644))

	err = f.builder.Check(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.KindConflict, errors.GetKind(err))
	assert.Contains(t, err.Error(), "--- "+mdPath)
	assert.Contains(t, err.Error(), "+++ "+mdPath+" (rendered)")
	assert.Contains(t, err.Error(), "-hand edited")
	assert.Equal(t, []string{mdPath}, errors.GetAttributes(err)["stale"])
}

func TestStylesheetHref(t *testing.T) {
	tests := map[string]string{
		"index.html":            "_static/support-matrix.css",
		"support/compute.md":    "../_static/support-matrix.css",
		"a/b/c.html":            "../../_static/support-matrix.css",
		"_static/inner/page.md": "../support-matrix.css",
	}
	for output, want := range tests {
		assert.Equal(t, want, stylesheetHref(output), output)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.md")

	require.NoError(t, WriteFile(path, []byte("one\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))

	require.NoError(t, WriteFile(path, []byte("two\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWatchRebuildsOnChange(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan error, 16)
	done := make(chan error, 1)
	go func() {
		done <- f.builder.Watch(ctx, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnBuild:  func(_ []*Result, err error) { builds <- err },
		})
	}()

	// waitFor consumes build reports until ok accepts one.
	waitFor := func(ok func(error) bool) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case err := <-builds:
				if ok(err) {
					return
				}
			case <-deadline:
				t.Fatal("timed out waiting for build")
			}
		}
	}
	waitFor(func(err error) bool { return err == nil })
	assert.NotContains(t, f.output(t, "support/compute.md"), "Quux Driver")

	ini, err := os.ReadFile(f.matrix)
	require.NoError(t, err)
	updated := strings.Replace(string(ini), "title=Bar Driver", "title=Quux Driver", 1)
	require.NotEqual(t, string(ini), updated)
	require.NoError(t, os.WriteFile(f.matrix, []byte(updated), 0o644))

	waitFor(func(err error) bool {
		return err == nil && strings.Contains(f.output(t, "support/compute.md"), "Quux Driver")
	})

	// a broken matrix is logged, the watcher keeps running
	require.NoError(t, os.WriteFile(f.matrix, []byte("[operation.x]\n"), 0o644))
	waitFor(func(err error) bool { return errors.GetKind(err) == errors.KindValidation })

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestBuildRecordsMetrics(t *testing.T) {
	f := newFixture(t)
	m := metrics.New()
	f.builder.WithMetrics(m)
	ctx := context.Background()

	require.Error(t, f.builder.Check(ctx))
	assert.Equal(t, 3.0, promtest.ToFloat64(m.Stale))

	_, err := f.builder.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Builds.WithLabelValues("success")))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.Documents))

	require.NoError(t, f.builder.Check(ctx))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.Stale))

	require.NoError(t, os.Remove(f.matrix))
	_, err = f.builder.Build(ctx)
	require.Error(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.FailureKinds.WithLabelValues("io")))
}
