// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package docnode is a small presentation tree modeled on docutils nodes.
//
// Renderers build trees of Nodes; writers in docwriter turn them into
// Markdown, HTML, JSON and friends. A Node carries text only when it is a
// leaf such as Strong, Literal or Inline; containers carry children.
package docnode

import (
	"strings"
)

// Kind identifies the node type.
type Kind string

const (
	KindSubtitle   Kind = "subtitle"
	KindTable      Kind = "table"
	KindTGroup     Kind = "tgroup"
	KindColSpec    Kind = "colspec"
	KindTHead      Kind = "thead"
	KindTBody      Kind = "tbody"
	KindRow        Kind = "row"
	KindEntry      Kind = "entry"
	KindBulletList Kind = "bullet_list"
	KindListItem   Kind = "list_item"
	KindParagraph  Kind = "paragraph"
	KindStrong     Kind = "strong"
	KindEmphasis   Kind = "emphasis"
	KindLiteral    Kind = "literal"
	KindInline     Kind = "inline"
	KindReference  Kind = "reference"
)

// Node is one element of a presentation tree.
type Node struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty"`
	Classes  []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	IDs      []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	RefID    string   `json:"refid,omitempty" yaml:"refid,omitempty"`   // internal target
	RefURI   string   `json:"refuri,omitempty" yaml:"refuri,omitempty"` // external target
	Cols     int      `json:"cols,omitempty" yaml:"cols,omitempty"`
	ColWidth int      `json:"colwidth,omitempty" yaml:"colwidth,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// WithClasses adds to the node's classes and returns n.
func (n *Node) WithClasses(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithIDs adds to the node's ids and returns n.
func (n *Node) WithIDs(ids ...string) *Node {
	n.IDs = append(n.IDs, ids...)
	return n
}

// ID returns the first id, or "".
func (n *Node) ID() string {
	if len(n.IDs) == 0 {
		return ""
	}
	return n.IDs[0]
}

// AsText concatenates the text of n and all its descendants.
func (n *Node) AsText() string {
	var sb strings.Builder
	Walk(n, func(c *Node) bool {
		sb.WriteString(c.Text)
		return true
	})
	return sb.String()
}

// FindAll returns every node of kind k under n (n included), in document order.
func (n *Node) FindAll(k Kind) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == k {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

func newNode(k Kind, text string) *Node { return &Node{Kind: k, Text: text} }

// Subtitle is a section subtitle.
func Subtitle(text string) *Node { return newNode(KindSubtitle, text) }

// Strong is bold inline text.
func Strong(text string) *Node { return newNode(KindStrong, text) }

// Emphasis is italic inline text.
func Emphasis(text string) *Node { return newNode(KindEmphasis, text) }

// Literal is inline monospace text.
func Literal(text string) *Node { return newNode(KindLiteral, text) }

// Inline is a generic inline container, optionally carrying text.
func Inline(text string) *Node { return newNode(KindInline, text) }

// Table is the table root.
func Table() *Node { return newNode(KindTable, "") }

// THead holds header rows.
func THead() *Node { return newNode(KindTHead, "") }

// TBody holds body rows.
func TBody() *Node { return newNode(KindTBody, "") }

// Row is a table row.
func Row() *Node { return newNode(KindRow, "") }

// Entry is a table cell.
func Entry() *Node { return newNode(KindEntry, "") }

// BulletList is an unordered list.
func BulletList() *Node { return newNode(KindBulletList, "") }

// ListItem is one entry of a BulletList.
func ListItem() *Node { return newNode(KindListItem, "") }

// Paragraph is a block of inline content.
func Paragraph() *Node { return newNode(KindParagraph, "") }

// TGroup groups the column specs, head and body of a table with cols columns.
func TGroup(cols int) *Node { return &Node{Kind: KindTGroup, Cols: cols} }

// ColSpec declares one column of relative width.
func ColSpec(width int) *Node { return &Node{Kind: KindColSpec, ColWidth: width} }

// InternalRef links to an id within the same document.
func InternalRef(refID string) *Node { return &Node{Kind: KindReference, RefID: refID} }

// ExternalRef links to a URI. text may be empty when children supply it.
func ExternalRef(text, uri string) *Node {
	return &Node{Kind: KindReference, Text: text, RefURI: uri}
}
