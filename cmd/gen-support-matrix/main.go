// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// gen-support-matrix renders support matrix INI files into documentation.
//
// Usage:
//
//	go run ./cmd/gen-support-matrix -matrix=doc/source/support-matrix.ini -format=markdown -output=docs/support.md
//	go run ./cmd/gen-support-matrix -matrix=doc/source/support-matrix.ini -format=text
//	go run ./cmd/gen-support-matrix -project=docs.hcl
//	go run ./cmd/gen-support-matrix -project=docs.hcl -check
//	go run ./cmd/gen-support-matrix -project=docs.hcl -watch
//	go run ./cmd/gen-support-matrix -project=docs.hcl -watch -serve=localhost:8000
//	go run ./cmd/gen-support-matrix -project=docs.hcl -metrics-textfile=/var/lib/node_exporter/support_matrix.prom
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
	"grimm.is/supportmatrix/internal/assets"
	"grimm.is/supportmatrix/internal/build"
	"grimm.is/supportmatrix/internal/docwriter"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/logging"
	"grimm.is/supportmatrix/internal/matrix"
	"grimm.is/supportmatrix/internal/metrics"
	"grimm.is/supportmatrix/internal/preview"
	"grimm.is/supportmatrix/internal/project"
	"grimm.is/supportmatrix/internal/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	matrix   string
	format   string
	output   string
	title    string
	project  string
	check    bool
	watch    bool
	serve    string
	textfile string
	logLevel string
	logJSON  bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options

	names := make([]string, 0, len(docwriter.Formats()))
	for _, f := range docwriter.Formats() {
		names = append(names, string(f))
	}

	fs := flag.NewFlagSet("gen-support-matrix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.matrix, "matrix", "", "Support matrix INI file to render")
	fs.StringVar(&opts.format, "format", "markdown", "Output format: "+strings.Join(names, ", "))
	fs.StringVar(&opts.output, "output", "", "Output file (default: stdout)")
	fs.StringVar(&opts.title, "title", "", "Document title")
	fs.StringVar(&opts.project, "project", "", "HCL project file listing documents to build")
	fs.BoolVar(&opts.check, "check", false, "With -project: fail if any output is out of date")
	fs.BoolVar(&opts.watch, "watch", false, "With -project: rebuild when matrix files change")
	fs.StringVar(&opts.serve, "serve", "", "With -watch: serve the output directory with live reload on this address")
	fs.StringVar(&opts.textfile, "metrics-textfile", "", "With -project: write Prometheus build metrics to this file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Log JSON lines instead of console output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.New(logging.Config{Level: logging.Level(opts.logLevel), Output: stderr, JSON: opts.logJSON})
	logging.SetDefault(logger)

	if err := dispatch(ctx, opts, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errors.Describe(err))
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, opts options, stdout io.Writer, logger *logging.Logger) error {
	switch {
	case opts.project != "" && opts.matrix != "":
		return errors.New(errors.KindValidation, "-matrix and -project are mutually exclusive")
	case opts.project != "":
		return runProject(ctx, opts, logger)
	case opts.matrix != "":
		if opts.check || opts.watch || opts.serve != "" || opts.textfile != "" {
			return errors.New(errors.KindValidation, "-check, -watch, -serve and -metrics-textfile require -project")
		}
		return runMatrix(opts, stdout, logger)
	default:
		return errors.New(errors.KindValidation, "one of -matrix or -project is required")
	}
}

func runMatrix(opts options, stdout io.Writer, logger *logging.Logger) error {
	format, err := docwriter.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	m, err := matrix.Load(opts.matrix)
	if err != nil {
		return err
	}

	doc := docwriter.Document{
		Title:      opts.title,
		Stylesheet: assets.StylesheetPath(),
		Nodes:      render.Build(m),
	}

	if opts.output == "" {
		return docwriter.Write(stdout, format, doc)
	}

	content, err := docwriter.Render(format, doc)
	if err != nil {
		return err
	}
	if err := build.WriteFile(opts.output, content); err != nil {
		return err
	}
	logger.WithComponent("cli").Info("generated", "path", opts.output, "format", string(format))
	return nil
}

func runProject(ctx context.Context, opts options, logger *logging.Logger) error {
	if opts.check && opts.watch {
		return errors.New(errors.KindValidation, "-check and -watch are mutually exclusive")
	}
	if opts.serve != "" && !opts.watch {
		return errors.New(errors.KindValidation, "-serve requires -watch")
	}

	p, err := project.Load(opts.project)
	if err != nil {
		return err
	}

	m := metrics.New()
	b := build.New(p, logger).WithMetrics(m)
	writeMetrics := func() {
		if opts.textfile == "" {
			return
		}
		if err := m.WriteTextfile(opts.textfile); err != nil {
			logger.WithComponent("cli").Warn("metrics not written", "error", errors.Describe(err))
		}
	}

	switch {
	case opts.check:
		err = b.Check(ctx)
	case opts.watch:
		err = watch(ctx, b, opts, logger, writeMetrics)
	default:
		_, err = b.Build(ctx)
	}
	if !opts.watch {
		writeMetrics()
	}
	return err
}

func watch(ctx context.Context, b *build.Builder, opts options, logger *logging.Logger, onBuild func()) error {
	var server *preview.Server
	if opts.serve != "" {
		server = preview.New(b.Project().OutputDir, logger)
	}

	g, ctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error { return server.ListenAndServe(ctx, opts.serve) })
	}
	g.Go(func() error {
		return b.Watch(ctx, build.WatchOptions{
			OnBuild: func(_ []*build.Result, _ error) {
				onBuild()
				if server != nil {
					server.Notify()
				}
			},
		})
	})
	return g.Wait()
}
