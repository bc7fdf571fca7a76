// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package render

import "grimm.is/supportmatrix/internal/matrix"

// statusSymbols maps every implementation status to its summary glyph.
var statusSymbols = map[matrix.ImplementationStatus]string{
	matrix.ImplComplete: "✔",
	matrix.ImplMissing:  "✖",
	matrix.ImplPartial:  "✔",
	matrix.ImplUnknown:  "?",
}

// Symbol returns the summary glyph for status, or "" for a status outside
// the enumeration.
func Symbol(status matrix.ImplementationStatus) string {
	return statusSymbols[status]
}

// StatusSymbols returns a copy of the glyph table.
func StatusSymbols() map[matrix.ImplementationStatus]string {
	out := make(map[matrix.ImplementationStatus]string, len(statusSymbols))
	for k, v := range statusSymbols {
		out[k] = v
	}
	return out
}
