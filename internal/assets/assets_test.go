// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylesheetClasses(t *testing.T) {
	css := string(Stylesheet())
	require.NotEmpty(t, css)

	for _, class := range []string{
		"sp_feature_cells", "sp_impl_summary", "sp_cli",
		"sp_feature_mandatory", "sp_feature_optional", "sp_feature_choice",
		"sp_feature_condition", "sp_feature_mature", "sp_feature_immature",
		"sp_impl_complete", "sp_impl_missing", "sp_impl_partial", "sp_impl_unknown",
	} {
		assert.Contains(t, css, "."+class+" {", class)
	}
}

func TestStylesheetIsCopied(t *testing.T) {
	a := Stylesheet()
	a[0] = 'X'
	assert.NotEqual(t, a[0], Stylesheet()[0])
}

func TestStylesheetPath(t *testing.T) {
	assert.Equal(t, "_static/support-matrix.css", StylesheetPath())
}
