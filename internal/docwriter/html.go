// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"grimm.is/supportmatrix/internal/docnode"
)

// HTML renders doc as a standalone HTML page.
func HTML(doc Document) ([]byte, error) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element("html")
	root.AppendChild(page)

	head := element("head")
	page.AppendChild(head)
	head.AppendChild(element("meta", html.Attribute{Key: "charset", Val: "utf-8"}))
	if doc.Title != "" {
		head.AppendChild(withText(element("title"), doc.Title))
	}
	if doc.Stylesheet != "" {
		head.AppendChild(element("link",
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: doc.Stylesheet},
		))
	}

	body := element("body")
	page.AppendChild(body)
	if doc.Title != "" {
		body.AppendChild(withText(element("h1"), doc.Title))
	}
	if doc.Description != "" {
		body.AppendChild(withText(element("p"), doc.Description))
	}

	conv := htmlConverter{}
	for _, n := range doc.Nodes {
		el, err := conv.convert(n)
		if err != nil {
			return nil, err
		}
		body.AppendChild(el)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

type htmlConverter struct {
	inHead bool
}

func (c *htmlConverter) convert(n *docnode.Node) (*html.Node, error) {
	var (
		el      *html.Node
		classes = n.Classes
	)

	switch n.Kind {
	case docnode.KindSubtitle:
		el = element("h2")
		classes = append([]string{"subtitle"}, classes...)
	case docnode.KindTable:
		el = element("table")
	case docnode.KindColSpec:
		el = element("col")
	case docnode.KindTHead:
		c.inHead = true
		defer func() { c.inHead = false }()
		el = element("thead")
	case docnode.KindTBody:
		el = element("tbody")
	case docnode.KindRow:
		el = element("tr")
	case docnode.KindEntry:
		if c.inHead {
			el = element("th")
		} else {
			el = element("td")
		}
	case docnode.KindBulletList:
		el = element("ul")
	case docnode.KindListItem:
		el = element("li")
	case docnode.KindParagraph:
		el = element("p")
		for _, child := range n.Children {
			if !isInline(child.Kind) {
				el = element("div")
				classes = append([]string{"paragraph"}, classes...)
				break
			}
		}
	case docnode.KindStrong:
		el = element("strong")
	case docnode.KindEmphasis:
		el = element("em")
	case docnode.KindLiteral:
		el = element("code")
		classes = append([]string{"docutils", "literal"}, classes...)
	case docnode.KindInline:
		el = element("span")
	case docnode.KindReference:
		el = element("a")
		if n.RefID != "" {
			el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: "#" + n.RefID})
			classes = append([]string{"reference", "internal"}, classes...)
		} else {
			el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: n.RefURI})
			classes = append([]string{"reference", "external"}, classes...)
		}
	default:
		return nil, errUnsupported(n.Kind)
	}

	if id := n.ID(); id != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "id", Val: id})
	}
	if len(classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	if n.Text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}

	var children []*html.Node
	if n.Kind == docnode.KindTable {
		parts, err := c.table(n)
		if err != nil {
			return nil, err
		}
		children = parts
	} else {
		for _, child := range n.Children {
			converted, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			children = append(children, converted)
		}
	}
	for _, child := range children {
		el.AppendChild(child)
	}
	return el, nil
}

// table flattens tgroups: colspecs collect into one colgroup, heads and
// bodies attach to the table directly.
func (c *htmlConverter) table(n *docnode.Node) ([]*html.Node, error) {
	var (
		cols  *html.Node
		parts []*html.Node
	)
	for _, child := range n.Children {
		if child.Kind != docnode.KindTGroup {
			converted, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			parts = append(parts, converted)
			continue
		}
		for _, gc := range child.Children {
			converted, err := c.convert(gc)
			if err != nil {
				return nil, err
			}
			if gc.Kind == docnode.KindColSpec {
				if cols == nil {
					cols = element("colgroup")
				}
				cols.AppendChild(converted)
				continue
			}
			parts = append(parts, converted)
		}
	}
	if cols != nil {
		parts = append([]*html.Node{cols}, parts...)
	}
	return parts, nil
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
