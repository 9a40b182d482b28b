// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "strings"

// =============================================================================
// BLOCK TREE
// =============================================================================

// BlockKind identifies the type of a parsed block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockList
	BlockOrderedItem
	BlockBlank
)

// Block is one block-level element of the parsed document.
type Block struct {
	Kind BlockKind

	// Text holds the raw inline source for paragraphs, headings, and
	// ordered items.
	Text string

	// Level is the heading level (1..3).
	Level int

	// Lang and Body describe a fenced code block. Body is kept verbatim;
	// no inline substitution happens inside a fence.
	Lang string
	Body string

	// Items holds the raw inline source of each entry in an unordered
	// list run.
	Items []string

	// Marker is the ordinal prefix of an ordered item ("1.", "12.").
	Marker string
}

// Parse splits source text into blocks.
//
// A run of consecutive "- " lines becomes one BlockList. Ordered items are
// deliberately NOT grouped into a container; each "<n>. " line is its own
// block, matching the behavior of the dialect as produced today. An
// unclosed fence swallows the remainder of the input as its body.
func Parse(src string) []Block {
	var blocks []Block
	lines := strings.Split(src, "\n")

	i := 0
	for i < len(lines) {
		line := lines[i]

		// Fenced code block.
		if strings.HasPrefix(line, "```") {
			lang := strings.TrimSpace(strings.TrimPrefix(line, "```"))
			var body []string
			i++
			closed := false
			for i < len(lines) {
				if strings.HasPrefix(lines[i], "```") {
					closed = true
					i++
					break
				}
				body = append(body, lines[i])
				i++
			}
			_ = closed // best effort: unclosed fences keep everything read so far
			blocks = append(blocks, Block{
				Kind: BlockCode,
				Lang: lang,
				Body: strings.Join(body, "\n"),
			})
			continue
		}

		// Headings: most specific prefix first so "###" is never consumed
		// as "#" plus text.
		if level, text, ok := headingLine(line); ok {
			blocks = append(blocks, Block{Kind: BlockHeading, Level: level, Text: text})
			i++
			continue
		}

		// Unordered list run.
		if strings.HasPrefix(line, "- ") {
			var items []string
			for i < len(lines) && strings.HasPrefix(lines[i], "- ") {
				items = append(items, strings.TrimPrefix(lines[i], "- "))
				i++
			}
			blocks = append(blocks, Block{Kind: BlockList, Items: items})
			continue
		}

		// Ordered item (ungrouped).
		if marker, text, ok := orderedLine(line); ok {
			blocks = append(blocks, Block{Kind: BlockOrderedItem, Marker: marker, Text: text})
			i++
			continue
		}

		if line == "" {
			blocks = append(blocks, Block{Kind: BlockBlank})
			i++
			continue
		}

		blocks = append(blocks, Block{Kind: BlockParagraph, Text: line})
		i++
	}

	return blocks
}

// headingLine matches "# ", "## ", "### " prefixes, longest first.
func headingLine(line string) (level int, text string, ok bool) {
	switch {
	case strings.HasPrefix(line, "### "):
		return 3, strings.TrimPrefix(line, "### "), true
	case strings.HasPrefix(line, "## "):
		return 2, strings.TrimPrefix(line, "## "), true
	case strings.HasPrefix(line, "# "):
		return 1, strings.TrimPrefix(line, "# "), true
	}
	return 0, "", false
}

// orderedLine matches "<digits>. " prefixes.
func orderedLine(line string) (marker, text string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || line[i+1] != ' ' {
		return "", "", false
	}
	return line[:i+1], line[i+2:], true
}

// =============================================================================
// INLINE SPANS
// =============================================================================

// SpanKind identifies the type of an inline span.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
)

// Span is one inline element of a paragraph, heading, or list item.
type Span struct {
	Kind SpanKind
	Text string
	URL  string // set for SpanLink
}

// ParseInline splits inline source text into spans.
//
// Scan order matters: "**" is tried before "*" so bold markers are never
// misread as italics. Unmatched markers are left as literal text; adjacent
// or overlapping emphasis markers are handled best-effort, not diagnosed.
func ParseInline(s string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: plain.String()})
			plain.Reset()
		}
	}

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case r == '`':
			if end := indexRune(runes, i+1, '`'); end >= 0 {
				flush()
				spans = append(spans, Span{Kind: SpanCode, Text: string(runes[i+1 : end])})
				i = end + 1
				continue
			}

		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			if end := indexPair(runes, i+2); end >= 0 {
				flush()
				spans = append(spans, Span{Kind: SpanBold, Text: string(runes[i+2 : end])})
				i = end + 2
				continue
			}

		case r == '*':
			if end := indexRune(runes, i+1, '*'); end >= 0 {
				flush()
				spans = append(spans, Span{Kind: SpanItalic, Text: string(runes[i+1 : end])})
				i = end + 1
				continue
			}

		case r == '[':
			if label, url, next, ok := linkAt(runes, i); ok {
				flush()
				spans = append(spans, Span{Kind: SpanLink, Text: label, URL: url})
				i = next
				continue
			}
		}

		plain.WriteRune(r)
		i++
	}

	flush()
	return spans
}

// indexRune finds the next occurrence of r at or after start.
func indexRune(runes []rune, start int, r rune) int {
	for i := start; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// indexPair finds the next "**" at or after start.
func indexPair(runes []rune, start int) int {
	for i := start; i+1 < len(runes); i++ {
		if runes[i] == '*' && runes[i+1] == '*' {
			return i
		}
	}
	return -1
}

// linkAt matches "[label](url)" starting at position i.
func linkAt(runes []rune, i int) (label, url string, next int, ok bool) {
	close := indexRune(runes, i+1, ']')
	if close < 0 || close+1 >= len(runes) || runes[close+1] != '(' {
		return "", "", 0, false
	}
	end := indexRune(runes, close+2, ')')
	if end < 0 {
		return "", "", 0, false
	}
	return string(runes[i+1 : close]), string(runes[close+2 : end]), end + 1, true
}
