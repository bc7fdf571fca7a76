// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package directive is the invocation surface documents use to embed a
// support matrix.
//
// A document invokes a directive by name with positional arguments:
//
//	.. support_matrix:: support-matrix.ini
//
// Arguments naming files are resolved against the invoking document through
// an Env, which also records every file read so the build can rebuild when
// it changes.
package directive

import (
	"path/filepath"
	"sort"
	"strings"

	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/errors"
)

// Directive produces document nodes from its arguments.
type Directive interface {
	Name() string
	RequiredArguments() int
	Run(env *Env, args []string) ([]*docnode.Node, error)
}

// Env is the environment of one document being built.
type Env struct {
	// SourceDir is the root all document paths are relative to.
	SourceDir string
	// DocName is the invoking document, relative to SourceDir.
	DocName string

	deps map[string]struct{}
}

// NewEnv returns an Env for the document docName under sourceDir.
func NewEnv(sourceDir, docName string) *Env {
	return &Env{SourceDir: sourceDir, DocName: docName, deps: make(map[string]struct{})}
}

// RelFn2Path resolves a file name given in a document. Names starting with
// "/" are relative to SourceDir, others to the invoking document's
// directory. It returns the path relative to SourceDir and the full path.
func (e *Env) RelFn2Path(name string) (rel, full string) {
	if strings.HasPrefix(name, "/") {
		rel = filepath.Clean(strings.TrimLeft(name, "/"))
	} else {
		rel = filepath.Join(filepath.Dir(e.DocName), name)
	}
	return rel, filepath.Join(e.SourceDir, rel)
}

// NoteDependency records a file, relative to SourceDir, the document
// depends on.
func (e *Env) NoteDependency(rel string) {
	if e.deps == nil {
		e.deps = make(map[string]struct{})
	}
	e.deps[filepath.Clean(rel)] = struct{}{}
}

// Dependencies returns the noted dependencies, sorted.
func (e *Env) Dependencies() []string {
	out := make([]string, 0, len(e.deps))
	for d := range e.deps {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Registry maps directive names to directives.
type Registry struct {
	directives map[string]Directive
}

// NewRegistry returns a registry holding the support_matrix directive.
func NewRegistry() *Registry {
	r := &Registry{directives: make(map[string]Directive)}
	r.Register(SupportMatrix{})
	return r
}

// Register adds or replaces a directive.
func (r *Registry) Register(d Directive) {
	r.directives[d.Name()] = d
}

// Lookup returns the directive registered under name.
func (r *Registry) Lookup(name string) (Directive, bool) {
	d, ok := r.directives[name]
	return d, ok
}

// Invoke runs the named directive after checking its argument count.
func (r *Registry) Invoke(env *Env, name string, args []string) ([]*docnode.Node, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Attr(errors.Errorf(errors.KindNotFound, "unknown directive %q", name), "directive", name)
	}
	if len(args) != d.RequiredArguments() {
		err := errors.Errorf(errors.KindValidation,
			"%s directive takes %d argument(s), got %d", name, d.RequiredArguments(), len(args))
		return nil, errors.Attr(err, "directive", name)
	}
	return d.Run(env, args)
}
