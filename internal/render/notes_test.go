// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"grimm.is/supportmatrix/internal/docnode"
)

func join(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func TestSplitNotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{
			name: "no links",
			in:   "Requires hardware support.",
			want: []Span{{Text: "Requires hardware support."}},
		},
		{
			name: "two links",
			in:   "See http://a.org/x and http://b.org for details",
			want: []Span{
				{Text: "See "},
				{Text: "http://a.org/x ", Link: true},
				{Text: "and "},
				{Text: "http://b.org ", Link: true},
				{Text: "for details"},
			},
		},
		{
			name: "link at end",
			in:   "Docs at https://docs.example.org/driver",
			want: []Span{
				{Text: "Docs at "},
				{Text: "https://docs.example.org/driver", Link: true},
			},
		},
		{
			name: "only a link",
			in:   "https://x.org",
			want: []Span{{Text: "https://x.org", Link: true}},
		},
		{
			name: "adjacent links",
			in:   "http://a.org http://b.org",
			want: []Span{
				{Text: "http://a.org ", Link: true},
				{Text: "http://b.org", Link: true},
			},
		},
		{
			name: "scheme inside link",
			in:   "go https://proxy.org/?u=http://inner.org now",
			want: []Span{
				{Text: "go "},
				{Text: "https://proxy.org/?u=http://inner.org ", Link: true},
				{Text: "now"},
			},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNotes(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, join(got), "spans must reconstruct the text")
		})
	}
}

func TestSplitNotesRoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"  leading spaces http://a.org",
		"http://a.org/x  double  space",
		"trailing space http://a.org ",
		"mixed https://a.org, then http://b.org. end",
		"https://",
	}
	for _, in := range inputs {
		assert.Equal(t, in, join(SplitNotes(in)), in)
	}
}

func TestSpanURL(t *testing.T) {
	assert.Equal(t, "http://a.org/x", Span{Text: "http://a.org/x ", Link: true}.URL())
	assert.Equal(t, "http://a.org/x", Span{Text: "http://a.org/x", Link: true}.URL())
}

func TestNotesParagraph(t *testing.T) {
	para := NotesParagraph("See http://a.org/x and more")

	assert.Equal(t, docnode.KindParagraph, para.Kind)
	assert.Equal(t, "Notes: See http://a.org/x and more", para.AsText())

	refs := para.FindAll(docnode.KindReference)
	if assert.Len(t, refs, 1) {
		assert.Equal(t, "http://a.org/x", refs[0].Text)
		assert.Equal(t, "http://a.org/x", refs[0].RefURI)
	}

	kinds := make([]docnode.Kind, 0, len(para.Children))
	for _, c := range para.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []docnode.Kind{
		docnode.KindStrong, docnode.KindInline, docnode.KindReference,
		docnode.KindInline, docnode.KindInline,
	}, kinds)
}
