// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package build

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/project"
)

// DefaultDebounce is how long Watch waits after the last change before
// rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions tune Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnBuild, when set, is called after every build attempt.
	OnBuild func(results []*Result, err error)
}

// Watch builds once, then rebuilds whenever a dependency or the project
// file changes. Build failures are logged and watching continues until ctx
// is done.
func (b *Builder) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.KindIO, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	w := &watchState{builder: b, watcher: watcher, opts: opts, files: map[string]bool{}, dirs: map[string]bool{}}
	w.rebuild(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			b.logger.Debug("dependency changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.rebuild(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Error("watcher error", "error", err)
		}
	}
}

type watchState struct {
	builder *Builder
	watcher *fsnotify.Watcher
	opts    WatchOptions
	files   map[string]bool
	dirs    map[string]bool
}

// rebuild reloads the project file when it changed, builds, and extends
// the watch set with the dependencies just noted.
func (w *watchState) rebuild(ctx context.Context) {
	b := w.builder
	if b.project.Path != "" {
		if p, err := project.Load(b.project.Path); err != nil {
			b.logger.Error("project reload failed, keeping previous project", "path", b.project.Path, "error", errors.Describe(err))
		} else {
			b.project = p
		}
	}

	results, err := b.Build(ctx)
	if err != nil {
		b.logger.Error("build failed", "error", errors.Describe(err))
	}

	paths := []string{}
	if b.project.Path != "" {
		paths = append(paths, b.project.Path)
	}
	for _, res := range results {
		paths = append(paths, res.Dependencies...)
	}
	w.track(paths)

	if w.opts.OnBuild != nil {
		w.opts.OnBuild(results, err)
	}
}

// track watches the parent directory of every path so editors that replace
// files by rename are still seen.
func (w *watchState) track(paths []string) {
	sort.Strings(paths)
	for _, p := range paths {
		p = filepath.Clean(p)
		w.files[p] = true

		dir := filepath.Dir(p)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.builder.logger.Warn("cannot watch directory", "path", dir, "error", err)
			continue
		}
		w.dirs[dir] = true
		w.builder.logger.Debug("watching directory", "path", dir)
	}
}
