// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"fmt"
	"strings"
)

// Hugo renders doc as a Hugo content page: YAML front matter followed by
// the Markdown body. The page title lives in the front matter only.
func Hugo(doc Document) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	title := doc.Title
	if title == "" {
		title = "Support Matrix"
	}
	sb.WriteString(fmt.Sprintf("title: %q\n", title))
	sb.WriteString(fmt.Sprintf("linkTitle: %q\n", title))
	if doc.Weight != 0 {
		sb.WriteString(fmt.Sprintf("weight: %d\n", doc.Weight))
	}
	if doc.Description != "" {
		sb.WriteString("description: >\n")
		sb.WriteString(fmt.Sprintf("  %s\n", strings.ReplaceAll(doc.Description, "\n", " ")))
	}
	sb.WriteString("---\n\n")

	sb.WriteString("This page is generated from the support matrix file; edit that file instead.\n\n")

	body := doc
	body.Title = ""
	body.Description = ""
	sb.WriteString(Markdown(body))

	return sb.String()
}
