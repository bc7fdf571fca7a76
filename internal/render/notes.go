// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package render

import (
	"regexp"
	"strings"

	"grimm.is/supportmatrix/internal/docnode"
)

var linkStart = regexp.MustCompile(`https?://`)

// Span is a run of notes text, either plain or a link.
type Span struct {
	Text string
	Link bool
}

// URL returns the link target of a link span: its text without the
// trailing separator space.
func (s Span) URL() string {
	return strings.TrimSuffix(s.Text, " ")
}

// SplitNotes segments free text into plain and link spans. A link starts at
// "http://" or "https://" and runs through the next space, or to the end of
// the text. Empty plain spans are omitted and concatenating all spans
// yields text.
func SplitNotes(text string) []Span {
	var spans []Span
	start := 0

	for _, loc := range linkStart.FindAllStringIndex(text, -1) {
		at := loc[0]
		if at < start {
			// scheme embedded in a link already consumed
			continue
		}
		if at > start {
			spans = append(spans, Span{Text: text[start:at]})
		}

		end := len(text)
		if i := strings.IndexByte(text[at:], ' '); i >= 0 {
			end = at + i + 1
		}
		spans = append(spans, Span{Text: text[at:end], Link: true})
		start = end
	}

	if start < len(text) {
		spans = append(spans, Span{Text: text[start:]})
	}
	return spans
}

// NotesParagraph renders notes as a "Notes: " paragraph with clickable links.
func NotesParagraph(notes string) *docnode.Node {
	para := docnode.Paragraph().Append(docnode.Strong("Notes: "))
	for _, span := range SplitNotes(notes) {
		if !span.Link {
			para.Append(docnode.Inline(span.Text))
			continue
		}
		url := span.URL()
		para.Append(docnode.ExternalRef(url, url))
		if rest := span.Text[len(url):]; rest != "" {
			para.Append(docnode.Inline(rest))
		}
	}
	return para
}
