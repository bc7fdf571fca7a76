// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package docwriter serializes presentation trees into documentation formats.
//
// Supported formats:
//   - markdown: CommonMark with pipe tables and HTML anchors
//   - hugo: markdown with YAML front matter
//   - html: a standalone page linking the support matrix stylesheet
//   - json: the node tree itself, for tooling
//   - yaml: the node tree as ordered YAML
//   - text: a terminal preview
package docwriter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/errors"
)

// Format is an output format name.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHugo     Format = "hugo"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatText     Format = "text"
)

var formats = []Format{FormatMarkdown, FormatHugo, FormatHTML, FormatJSON, FormatYAML, FormatText}

// Formats returns every supported format.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(formats, f) {
		names := make([]string, len(formats))
		for i, f := range formats {
			names[i] = string(f)
		}
		return "", errors.Attr(errors.Errorf(errors.KindValidation,
			"unknown format %q, must be one of (%s)", name, strings.Join(names, ", ")), "format", name)
	}
	return f, nil
}

// Extension returns the conventional file extension of f, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatText:
		return ".txt"
	default:
		return ".md"
	}
}

// Document is a rendered page.
type Document struct {
	Title       string
	Description string
	Weight      int    // hugo ordering
	Stylesheet  string // href of the stylesheet, html only
	Nodes       []*docnode.Node
}

// Write serializes doc in format f.
func Write(w io.Writer, f Format, doc Document) error {
	var (
		out []byte
		err error
	)

	switch f {
	case FormatMarkdown:
		out = []byte(Markdown(doc))
	case FormatHugo:
		out = []byte(Hugo(doc))
	case FormatHTML:
		out, err = HTML(doc)
	case FormatJSON:
		out, err = JSON(doc)
	case FormatYAML:
		out, err = YAML(doc)
	case FormatText:
		out = []byte(Text(doc))
	default:
		return errors.Errorf(errors.KindValidation, "unknown format %q", f)
	}
	if err != nil {
		return errors.Wrapf(err, errors.KindInternal, "failed to render %s", f)
	}

	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, errors.KindIO, "failed to write document")
	}
	return nil
}

// Render serializes doc in format f into memory.
func Render(f Format, doc Document) ([]byte, error) {
	var sb strings.Builder
	if err := Write(&sb, f, doc); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// block is one vertical unit of a list item or paragraph: either a line of
// inline content or a nested list.
type block struct {
	text string
	list *docnode.Node
}

func isInline(k docnode.Kind) bool {
	switch k {
	case docnode.KindStrong, docnode.KindEmphasis, docnode.KindLiteral,
		docnode.KindInline, docnode.KindReference:
		return true
	}
	return false
}

// flatten splits mixed inline/paragraph/list children into blocks, using
// inline to render runs of inline nodes.
func flatten(children []*docnode.Node, inline func(*docnode.Node) string) []block {
	var (
		out []block
		cur strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, block{text: s})
		}
		cur.Reset()
	}

	var walk func([]*docnode.Node)
	walk = func(nodes []*docnode.Node) {
		for _, n := range nodes {
			switch {
			case isInline(n.Kind):
				cur.WriteString(inline(n))
			case n.Kind == docnode.KindParagraph:
				flush()
				walk(n.Children)
				flush()
			case n.Kind == docnode.KindBulletList:
				flush()
				out = append(out, block{list: n})
			default:
				flush()
				walk(n.Children)
				flush()
			}
		}
	}
	walk(children)
	flush()
	return out
}

// tableRows extracts header and body rows of a table as cell nodes.
func tableRows(table *docnode.Node) (header []*docnode.Node, body [][]*docnode.Node) {
	docnode.Walk(table, func(n *docnode.Node) bool {
		switch n.Kind {
		case docnode.KindTHead:
			for _, row := range n.Children {
				if header == nil {
					header = row.Children
				}
			}
			return false
		case docnode.KindTBody:
			for _, row := range n.Children {
				body = append(body, row.Children)
			}
			return false
		}
		return true
	})
	return header, body
}

func errUnsupported(k docnode.Kind) error {
	return fmt.Errorf("unsupported node kind %q", k)
}
