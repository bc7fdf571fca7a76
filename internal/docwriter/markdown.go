// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"fmt"
	"strings"

	"grimm.is/supportmatrix/internal/docnode"
)

// Markdown renders doc as Markdown.
func Markdown(doc Document) string {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	}
	if doc.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", doc.Description))
	}
	writeMarkdownBody(&sb, doc.Nodes)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeMarkdownBody(sb *strings.Builder, nodes []*docnode.Node) {
	for _, n := range nodes {
		switch n.Kind {
		case docnode.KindSubtitle:
			sb.WriteString(fmt.Sprintf("## %s%s\n\n", mdAnchors(n), n.Text))
		case docnode.KindTable:
			writeMarkdownTable(sb, n)
		case docnode.KindBulletList:
			writeMarkdownList(sb, n, "")
			sb.WriteString("\n")
		default:
			for _, b := range flatten([]*docnode.Node{n}, mdInline) {
				if b.list != nil {
					writeMarkdownList(sb, b.list, "")
				} else {
					sb.WriteString(b.text + "\n")
				}
				sb.WriteString("\n")
			}
		}
	}
}

// writeMarkdownTable writes a pipe table. The first header row becomes the
// table header; the remaining structure is flattened into body rows.
func writeMarkdownTable(sb *strings.Builder, table *docnode.Node) {
	header, body := tableRows(table)
	cols := len(header)
	for _, row := range body {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}

	writeRow := func(cells []*docnode.Node) {
		sb.WriteString("|")
		for i := range cols {
			text := ""
			if i < len(cells) {
				text = mdCell(cells[i])
			}
			sb.WriteString(" " + text + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, row := range body {
		writeRow(row)
	}
	sb.WriteString("\n")
}

func mdCell(entry *docnode.Node) string {
	var parts []string
	for _, b := range flatten(entry.Children, mdInline) {
		if b.text != "" {
			parts = append(parts, b.text)
		}
	}
	return strings.ReplaceAll(strings.Join(parts, " "), "|", `\|`)
}

// writeMarkdownList writes a bullet list. Continuation blocks of an item
// are indented under its marker.
func writeMarkdownList(sb *strings.Builder, list *docnode.Node, indent string) {
	for _, item := range list.Children {
		blocks := flatten(item.Children, mdInline)
		if len(blocks) == 0 {
			sb.WriteString(indent + "-\n")
			continue
		}

		for i, b := range blocks {
			if b.list != nil {
				if i == 0 {
					sb.WriteString(indent + "-\n")
				}
				sb.WriteString("\n")
				writeMarkdownList(sb, b.list, indent+"  ")
				continue
			}
			if i == 0 {
				sb.WriteString(indent + "- " + b.text + "\n")
				continue
			}
			sb.WriteString("\n" + indent + "  " + b.text + "\n")
		}
	}
}

// mdInline renders an inline node and its children.
func mdInline(n *docnode.Node) string {
	var inner strings.Builder
	inner.WriteString(mdEscape(n.Text))
	for _, c := range n.Children {
		inner.WriteString(mdInline(c))
	}
	content := inner.String()

	var out string
	switch n.Kind {
	case docnode.KindStrong:
		out = wrap("**", content)
	case docnode.KindEmphasis:
		out = wrap("*", content)
	case docnode.KindLiteral:
		out = mdLiteral(n.Text)
	case docnode.KindReference:
		target := n.RefURI
		if n.RefID != "" {
			target = "#" + n.RefID
		}
		label := content
		if strings.TrimSpace(label) == "" {
			label = mdEscape(target)
		}
		out = fmt.Sprintf("[%s](%s)", label, target)
	default:
		out = content
	}
	return mdAnchors(n) + out
}

// mdAnchors emits an HTML anchor per node id so links resolve in any
// Markdown renderer.
func mdAnchors(n *docnode.Node) string {
	var sb strings.Builder
	for _, id := range n.IDs {
		sb.WriteString(fmt.Sprintf(`<a id="%s"></a>`, id))
	}
	return sb.String()
}

// wrap puts marker around s, keeping surrounding whitespace outside so the
// emphasis stays valid.
func wrap(marker, s string) string {
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]
	return lead + marker + core + marker + trail
}

func mdLiteral(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `&lt;`,
)

func mdEscape(s string) string {
	return mdEscaper.Replace(s)
}
