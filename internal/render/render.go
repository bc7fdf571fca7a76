// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package render maps a support matrix onto a presentation tree.
//
// The output is three consecutive parts:
//   - a summary table with one row per feature and one column per driver
//   - a details list with status, CLI commands, notes and driver support
//     of every feature
//   - a static notes list
//
// Rendering never fails: matrix.New already guarantees that every driver a
// feature references exists.
package render

import (
	"fmt"

	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/matrix"
)

// CSS classes shared with the bundled stylesheet.
const (
	ClassFeatureCells = "sp_feature_cells"
	ClassImplSummary  = "sp_impl_summary"
	ClassCLI          = "sp_cli"
)

// standingNotes are shown under every matrix.
var standingNotes = []string{"This document is a continuous work in progress"}

// Build renders the whole matrix: summary, details and notes.
func Build(m *matrix.Matrix) []*docnode.Node {
	var content []*docnode.Node
	content = append(content, Summary(m)...)
	content = append(content, Details(m)...)
	content = append(content, Notes()...)
	return content
}

// Summary renders the "Summary" subtitle and the at-a-glance table.
func Summary(m *matrix.Matrix) []*docnode.Node {
	drivers := m.SortedDrivers()
	cols := len(drivers) + 2

	group := docnode.TGroup(cols)
	for range cols {
		group.Append(docnode.ColSpec(1))
	}
	head := docnode.THead()
	body := docnode.TBody()
	group.Append(head, body)

	table := docnode.Table().WithClasses(ClassFeatureCells).Append(group)

	header := docnode.Row()
	header.Append(
		cell(docnode.Emphasis("Feature")),
		cell(docnode.Emphasis("Status")),
	)
	for _, d := range drivers {
		title := docnode.Strong(d.Title)
		if d.Link != nil {
			header.Append(cell(docnode.Inline("").Append(docnode.ExternalRef("", *d.Link).Append(title))))
			continue
		}
		header.Append(cell(title))
	}
	head.Append(header)

	for _, f := range m.Features {
		row := docnode.Row()

		featureRef := docnode.InternalRef(AnchorID(f.Key)).Append(docnode.Strong(f.Title))
		row.Append(cell(docnode.Inline("").Append(featureRef)))

		status := string(f.Status)
		row.Append(cell(docnode.Inline(status).WithClasses("sp_feature_" + status)))

		for _, d := range drivers {
			impl := m.Implementation(f, d.Key)
			glyph := docnode.Literal(Symbol(impl.Status)).
				WithClasses(ClassImplSummary, "sp_impl_"+string(impl.Status))
			// Details only anchors declared drivers.
			if !f.Declares(d.Key) {
				row.Append(cell(docnode.Inline("").Append(glyph)))
				continue
			}
			ref := docnode.InternalRef(ImplementationAnchorID(f.Key, d.Key)).Append(glyph)
			row.Append(cell(docnode.Inline("").Append(ref)))
		}

		body.Append(row)
	}

	return []*docnode.Node{docnode.Subtitle("Summary"), table}
}

// Details renders the "Details" subtitle and one list entry per feature.
func Details(m *matrix.Matrix) []*docnode.Node {
	details := docnode.BulletList()

	for _, f := range m.Features {
		item := docnode.ListItem()
		item.Append(docnode.Strong(f.Title).WithIDs(AnchorID(f.Key)))
		item.Append(docnode.Paragraph().Append(
			docnode.Strong(fmt.Sprintf("Status: %s. ", f.DisplayStatus())),
		))

		if f.API != nil {
			item.Append(docnode.Paragraph().Append(
				docnode.Strong(fmt.Sprintf("API Alias: %s ", *f.API)),
			))
		}
		if len(f.CLI) > 0 {
			item.Append(cliParagraph(f.CLI))
		}
		if f.Notes != nil {
			item.Append(NotesParagraph(*f.Notes))
		}

		impls := docnode.BulletList()
		for _, d := range m.ImplementedDrivers(f) {
			impl := m.Implementation(f, d.Key)
			status := string(impl.Status)

			sub := docnode.ListItem().Append(
				docnode.Strong(d.Title+": "),
				docnode.Literal(status).
					WithClasses("sp_impl_"+status).
					WithIDs(ImplementationAnchorID(f.Key, d.Key)),
			)
			if impl.Notes != nil {
				sub.Append(NotesParagraph(*impl.Notes))
			}
			impls.Append(sub)
		}

		item.Append(docnode.Paragraph().Append(docnode.Strong("Driver Support:"), impls))
		details.Append(item)
	}

	return []*docnode.Node{docnode.Subtitle("Details"), details}
}

// Notes renders the static "Notes:" list.
func Notes() []*docnode.Node {
	list := docnode.BulletList()
	for _, note := range standingNotes {
		list.Append(docnode.ListItem().Append(docnode.Strong(note)))
	}
	return []*docnode.Node{docnode.Subtitle("Notes:"), list}
}

func cliParagraph(commands []string) *docnode.Node {
	list := docnode.BulletList()
	for _, c := range commands {
		list.Append(docnode.ListItem().Append(docnode.Literal(c).WithClasses(ClassCLI)))
	}
	return docnode.Paragraph().Append(docnode.Strong("CLI commands:"), list)
}

func cell(children ...*docnode.Node) *docnode.Node {
	return docnode.Entry().WithClasses(ClassFeatureCells).Append(children...)
}
