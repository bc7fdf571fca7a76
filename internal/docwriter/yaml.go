// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"
	"grimm.is/supportmatrix/internal/docnode"
)

// YAML renders doc as a YAML node tree with a fixed key order.
func YAML(doc Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if doc.Title != "" {
		addScalar(root, "title", doc.Title)
	}
	if doc.Description != "" {
		addScalar(root, "description", doc.Description)
	}
	root.Content = append(root.Content, scalar("nodes"), nodeSequence(doc.Nodes))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToYAMLNode converts one presentation node into a yaml.Node mapping.
func ToYAMLNode(n *docnode.Node) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(m, "kind", string(n.Kind))
	if n.Text != "" {
		addScalar(m, "text", n.Text)
	}
	if len(n.Classes) > 0 {
		m.Content = append(m.Content, scalar("classes"), stringSequence(n.Classes))
	}
	if len(n.IDs) > 0 {
		m.Content = append(m.Content, scalar("ids"), stringSequence(n.IDs))
	}
	if n.RefID != "" {
		addScalar(m, "refid", n.RefID)
	}
	if n.RefURI != "" {
		addScalar(m, "refuri", n.RefURI)
	}
	if n.Cols != 0 {
		m.Content = append(m.Content, scalar("cols"), intScalar(n.Cols))
	}
	if n.ColWidth != 0 {
		m.Content = append(m.Content, scalar("colwidth"), intScalar(n.ColWidth))
	}
	if len(n.Children) > 0 {
		m.Content = append(m.Content, scalar("children"), nodeSequence(n.Children))
	}
	return m
}

func nodeSequence(nodes []*docnode.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range nodes {
		seq.Content = append(seq.Content, ToYAMLNode(n))
	}
	return seq
}

func stringSequence(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, scalar(v))
	}
	return seq
}

func addScalar(m *yaml.Node, key, value string) {
	m.Content = append(m.Content, scalar(key), scalar(value))
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intScalar(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}
