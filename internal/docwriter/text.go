// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"grimm.is/supportmatrix/internal/docnode"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Text renders doc for a terminal: tables are drawn with box borders and
// lists are indented.
func Text(doc Document) string {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString(doc.Title + "\n")
		sb.WriteString(strings.Repeat("=", lipgloss.Width(doc.Title)) + "\n\n")
	}

	for _, n := range doc.Nodes {
		switch n.Kind {
		case docnode.KindSubtitle:
			sb.WriteString(n.Text + "\n")
			sb.WriteString(strings.Repeat("-", lipgloss.Width(n.Text)) + "\n\n")
		case docnode.KindTable:
			sb.WriteString(textTable(n) + "\n\n")
		case docnode.KindBulletList:
			writeTextList(&sb, n, "")
			sb.WriteString("\n")
		default:
			for _, b := range flatten([]*docnode.Node{n}, textInline) {
				if b.list != nil {
					writeTextList(&sb, b.list, "")
					continue
				}
				sb.WriteString(b.text + "\n")
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func textTable(n *docnode.Node) string {
	header, body := tableRows(n)

	headers := make([]string, len(header))
	for i, cell := range header {
		headers[i] = headerStyle.Render(textCell(cell))
	}

	rows := make([][]string, 0, len(body))
	for _, row := range body {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = textCell(cell)
		}
		rows = append(rows, cells)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func textCell(entry *docnode.Node) string {
	var parts []string
	for _, b := range flatten(entry.Children, textInline) {
		if b.text != "" {
			parts = append(parts, b.text)
		}
	}
	return strings.Join(parts, " ")
}

func writeTextList(sb *strings.Builder, list *docnode.Node, indent string) {
	for _, item := range list.Children {
		for i, b := range flatten(item.Children, textInline) {
			if b.list != nil {
				writeTextList(sb, b.list, indent+"  ")
				continue
			}
			marker := "  "
			if i == 0 {
				marker = "• "
			}
			sb.WriteString(indent + marker + b.text + "\n")
		}
	}
}

// textInline renders inline content as plain text; external links show
// their target when the label differs.
func textInline(n *docnode.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		sb.WriteString(textInline(c))
	}
	out := sb.String()

	if n.Kind == docnode.KindReference && n.RefURI != "" && strings.TrimSpace(out) != n.RefURI {
		if strings.TrimSpace(out) == "" {
			return n.RefURI
		}
		return out + " <" + n.RefURI + ">"
	}
	return out
}
