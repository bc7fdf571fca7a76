// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package build

import (
	"context"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"grimm.is/supportmatrix/internal/assets"
	"grimm.is/supportmatrix/internal/errors"
)

// Stale is an output whose content on disk differs from a fresh render.
type Stale struct {
	Document string
	Output   string
	Missing  bool
	Diff     string
}

// Check renders every document without writing and compares it with the
// existing output. It returns a KindConflict error listing every stale
// output, or nil when the tree is up to date.
func (b *Builder) Check(ctx context.Context) error {
	stale, err := b.Stale(ctx)
	if err != nil {
		return err
	}
	if b.metrics != nil {
		b.metrics.ObserveCheck(len(stale))
	}
	if len(stale) == 0 {
		b.logger.Info("outputs are up to date", "documents", len(b.project.Documents))
		return nil
	}

	var sb strings.Builder
	names := make([]string, 0, len(stale))
	for _, s := range stale {
		names = append(names, s.Output)
		if s.Missing {
			sb.WriteString("missing " + s.Output + "\n")
			continue
		}
		sb.WriteString(s.Diff)
	}

	err = errors.Errorf(errors.KindConflict, "%d output(s) out of date, rebuild to update:\n%s",
		len(stale), strings.TrimRight(sb.String(), "\n"))
	return errors.Attr(err, "stale", names)
}

// Stale returns the outputs, stylesheet included, that a build would change.
func (b *Builder) Stale(ctx context.Context) ([]Stale, error) {
	var stale []Stale

	for _, d := range b.project.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := b.Render(d)
		if err != nil {
			return nil, err
		}
		if s, ok, err := compare(d.Name, res.Output, res.Content); err != nil {
			return nil, err
		} else if ok {
			stale = append(stale, s)
		}
	}

	s, ok, err := compare("", b.StylesheetPath(), assets.Stylesheet())
	if err != nil {
		return nil, err
	}
	if ok {
		stale = append(stale, s)
	}
	return stale, nil
}

func compare(name, path string, want []byte) (Stale, bool, error) {
	got, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Stale{Document: name, Output: path, Missing: true}, true, nil
	}
	if err != nil {
		return Stale{}, false, errors.Attr(errors.Wrap(err, errors.KindIO, "failed to read output"), "path", path)
	}
	if string(got) == string(want) {
		return Stale{}, false, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(got)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path,
		ToFile:   path + " (rendered)",
		Context:  3,
	})
	if err != nil {
		return Stale{}, false, errors.Wrap(err, errors.KindInternal, "failed to diff output")
	}
	return Stale{Document: name, Output: path, Diff: diff}, true, nil
}
