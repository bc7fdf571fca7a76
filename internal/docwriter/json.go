// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docwriter

import (
	"bytes"
	"encoding/json"

	"grimm.is/supportmatrix/internal/docnode"
)

type jsonDocument struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Nodes       []*docnode.Node `json:"nodes"`
}

// JSON renders doc as an indented JSON node tree.
func JSON(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	nodes := doc.Nodes
	if nodes == nil {
		nodes = []*docnode.Node{}
	}
	if err := enc.Encode(jsonDocument{Title: doc.Title, Description: doc.Description, Nodes: nodes}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
