// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package assets bundles the static files shipped next to generated pages.
//
// The stylesheet is embedded at compile time via go:embed so the generator
// works from a single binary.
package assets

import (
	_ "embed"
	"path"
)

// StylesheetName is the file name of the support matrix stylesheet.
const StylesheetName = "support-matrix.css"

// StaticDir is the directory, relative to the output root, that holds
// static files.
const StaticDir = "_static"

//go:embed support-matrix.css
var stylesheet []byte

// Stylesheet returns a copy of the embedded stylesheet.
func Stylesheet() []byte {
	out := make([]byte, len(stylesheet))
	copy(out, stylesheet)
	return out
}

// StylesheetPath is the output-relative, slash-separated stylesheet path.
func StylesheetPath() string {
	return path.Join(StaticDir, StylesheetName)
}
