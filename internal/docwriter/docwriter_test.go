// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/matrix"
	"grimm.is/supportmatrix/internal/render"
)

func fixtureDoc(t *testing.T) Document {
	t.Helper()
	m, err := matrix.Load(filepath.Join("testdata", "support-matrix.ini"))
	require.NoError(t, err)
	return Document{
		Title:      "Compute Support Matrix",
		Stylesheet: "_static/support-matrix.css",
		Nodes:      render.Build(m),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"markdown", FormatMarkdown, true},
		{"HTML ", FormatHTML, true},
		{"yaml", FormatYAML, true},
		{"text", FormatText, true},
		{"pdf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if !tt.ok {
				require.Error(t, err)
				assert.Equal(t, errors.KindValidation, errors.GetKind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtension(t *testing.T) {
	want := map[Format]string{
		FormatMarkdown: ".md",
		FormatHugo:     ".md",
		FormatHTML:     ".html",
		FormatJSON:     ".json",
		FormatYAML:     ".yaml",
		FormatText:     ".txt",
	}
	for _, f := range Formats() {
		assert.Equal(t, want[f], f.Extension(), f)
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(fixtureDoc(t))

	assert.True(t, strings.HasPrefix(out, "# Compute Support Matrix\n\n## Summary\n"), out)
	assert.Contains(t, out, "| *Feature* | *Status* | [**Bar Driver**](https://docs.openstack.org) | [**Foo Driver**](https://docs.openstack.org) |\n|---|---|---|---|\n")
	assert.Contains(t, out, "| [**Cool Feature**](#operation_cool) | optional | [`✔`](#operation_cool_driver_bar) | [`✔`](#operation_cool_driver_foo) |")
	assert.Contains(t, out, "## Details")
	assert.Contains(t, out, `- <a id="operation_cool"></a>**Cool Feature**`)
	assert.Contains(t, out, "**Driver Support:**")
	assert.Contains(t, out, `<a id="operation_cool_driver_bar"></a>`+"`partial`")
	assert.Contains(t, out, "`openstack cool create`")
	assert.Contains(t, out, "(https://example.org/hw)")
	assert.True(t, strings.HasSuffix(out, "- **This document is a continuous work in progress**\n"), out)
}

func TestMarkdownEscapesCells(t *testing.T) {
	table := docnode.Table().Append(docnode.TGroup(1).Append(
		docnode.ColSpec(1),
		docnode.THead().Append(docnode.Row().Append(docnode.Entry().Append(docnode.Inline("a|b")))),
		docnode.TBody().Append(docnode.Row().Append(docnode.Entry().Append(docnode.Inline("snake_case")))),
	))
	out := Markdown(Document{Nodes: []*docnode.Node{table}})
	assert.Equal(t, "| a\\|b |\n|---|\n| snake\\_case |\n", out)
}

func TestHugo(t *testing.T) {
	doc := fixtureDoc(t)
	doc.Weight = 20
	doc.Description = "Which drivers implement which features."
	out := Hugo(doc)

	assert.True(t, strings.HasPrefix(out, "---\ntitle: \"Compute Support Matrix\"\nlinkTitle: \"Compute Support Matrix\"\nweight: 20\n"), out)
	assert.Contains(t, out, "description: >\n  Which drivers implement which features.\n---\n")
	assert.Contains(t, out, "## Summary")
	assert.NotContains(t, out, "\n# Compute Support Matrix")
}

func TestHTML(t *testing.T) {
	out, err := HTML(fixtureDoc(t))
	require.NoError(t, err)
	page := string(out)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"), page)
	assert.Contains(t, page, `<title>Compute Support Matrix</title>`)
	assert.Contains(t, page, `href="_static/support-matrix.css"`)
	assert.Contains(t, page, `<h2 class="subtitle">Summary</h2>`)
	assert.Contains(t, page, `<table class="sp_feature_cells"><colgroup><col/>`)
	assert.Contains(t, page, `<th class="sp_feature_cells"><em>Feature</em></th>`)
	assert.Contains(t, page, `<td class="sp_feature_cells"><span><a href="#operation_cool" class="reference internal"><strong>Cool Feature</strong></a></span></td>`)
	assert.Contains(t, page, `<strong id="operation_cool">Cool Feature</strong>`)
	assert.Contains(t, page, `<code id="operation_cool_driver_bar" class="docutils literal sp_impl_partial">partial</code>`)
	assert.Contains(t, page, `<a href="https://example.org/hw" class="reference external">https://example.org/hw</a>`)
	assert.Equal(t, 2, strings.Count(page, "<thead>")+strings.Count(page, "<tbody>"))
}

func TestHTMLEscapesText(t *testing.T) {
	out, err := HTML(Document{Nodes: []*docnode.Node{docnode.Paragraph().Append(docnode.Inline("<b>&"))}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p><span>&lt;b&gt;&amp;</span></p>")
}

func TestUnsupportedKind(t *testing.T) {
	doc := Document{Nodes: []*docnode.Node{{Kind: "sidebar"}}}
	_, err := Render(FormatHTML, doc)
	require.Error(t, err)
	assert.Equal(t, errors.KindInternal, errors.GetKind(err))
	assert.Contains(t, err.Error(), "sidebar")
}

func TestJSON(t *testing.T) {
	doc := fixtureDoc(t)
	out, err := JSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"text": "✔"`)
	assert.Contains(t, string(out), `"refuri": "https://example.org/hw"`)

	var decoded struct {
		Title string          `json:"title"`
		Nodes []*docnode.Node `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Compute Support Matrix", decoded.Title)
	if diff := cmp.Diff(doc.Nodes, decoded.Nodes); diff != "" {
		t.Errorf("json tree mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONEmpty(t *testing.T) {
	out, err := JSON(Document{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"nodes\": []\n}\n", string(out))
}

func TestYAML(t *testing.T) {
	doc := fixtureDoc(t)
	out, err := YAML(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "title: Compute Support Matrix\nnodes:\n  - kind: subtitle\n    text: Summary\n"), string(out))

	var decoded struct {
		Nodes []*docnode.Node `yaml:"nodes"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	if diff := cmp.Diff(doc.Nodes, decoded.Nodes); diff != "" {
		t.Errorf("yaml tree mismatch (-want +got):\n%s", diff)
	}
}

func TestText(t *testing.T) {
	out := Text(fixtureDoc(t))

	assert.True(t, strings.HasPrefix(out, "Compute Support Matrix\n======================\n\nSummary\n-------\n"), out)
	assert.Contains(t, out, "Bar Driver")
	assert.Contains(t, out, "Cool Feature")
	assert.Contains(t, out, "│")
	assert.Contains(t, out, "• Cool Feature")
	assert.Contains(t, out, "openstack cool create")
	assert.Contains(t, out, "https://example.org/hw")
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := fixtureDoc(t)
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			a, err := Render(f, doc)
			require.NoError(t, err)
			b, err := Render(f, doc)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(a, b))
		})
	}
}
