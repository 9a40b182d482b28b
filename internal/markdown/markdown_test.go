// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

// =============================================================================
// BLOCK PARSING TESTS
// =============================================================================

func TestParseHeadings(t *testing.T) {
	blocks := Parse("# one\n## two\n### three")

	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	for i, want := range []int{1, 2, 3} {
		if blocks[i].Kind != BlockHeading {
			t.Errorf("Block %d kind = %v, want heading", i, blocks[i].Kind)
		}
		if blocks[i].Level != want {
			t.Errorf("Block %d level = %d, want %d", i, blocks[i].Level, want)
		}
	}
	// Triple hash must not leave stray hashes in the text.
	if blocks[2].Text != "three" {
		t.Errorf("H3 text = %q, want 'three'", blocks[2].Text)
	}
}

func TestParseFenceVerbatim(t *testing.T) {
	src := "before\n```go\nfunc main() { **not bold** }\n*nor italic*\n```\nafter"
	blocks := Parse(src)

	var fences []Block
	for _, b := range blocks {
		if b.Kind == BlockCode {
			fences = append(fences, b)
		}
	}
	if len(fences) != 1 {
		t.Fatalf("Expected exactly 1 code block, got %d", len(fences))
	}
	want := "func main() { **not bold** }\n*nor italic*"
	if fences[0].Body != want {
		t.Errorf("Fence body = %q, want %q", fences[0].Body, want)
	}
	if fences[0].Lang != "go" {
		t.Errorf("Fence lang = %q, want 'go'", fences[0].Lang)
	}
}

func TestParseUnclosedFence(t *testing.T) {
	blocks := Parse("```\nline1\nline2")
	if len(blocks) != 1 || blocks[0].Kind != BlockCode {
		t.Fatalf("Unclosed fence should produce one code block, got %+v", blocks)
	}
	if blocks[0].Body != "line1\nline2" {
		t.Errorf("Unclosed fence body = %q", blocks[0].Body)
	}
}

func TestParseListRunGrouped(t *testing.T) {
	blocks := Parse("- a\n- b\n- c\ntext\n- d")

	if blocks[0].Kind != BlockList {
		t.Fatalf("Expected list block first, got %v", blocks[0].Kind)
	}
	if len(blocks[0].Items) != 3 {
		t.Errorf("Consecutive items should be one run of 3, got %d", len(blocks[0].Items))
	}
	// A separate run after intervening text is a new list.
	if blocks[2].Kind != BlockList || len(blocks[2].Items) != 1 {
		t.Errorf("Second run should be its own list, got %+v", blocks[2])
	}
}

func TestParseOrderedItemsNotGrouped(t *testing.T) {
	// Ordered items stay one block per line. This mirrors the dialect's
	// current behavior rather than anything desirable.
	blocks := Parse("1. first\n2. second")

	if len(blocks) != 2 {
		t.Fatalf("Expected 2 ungrouped ordered items, got %d blocks", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != BlockOrderedItem {
			t.Errorf("Block %d kind = %v, want ordered item", i, b.Kind)
		}
	}
	if blocks[0].Marker != "1." || blocks[0].Text != "first" {
		t.Errorf("Ordered item parsed as %q %q", blocks[0].Marker, blocks[0].Text)
	}
}

func TestParsePlainLines(t *testing.T) {
	blocks := Parse("one\n\ntwo")
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	if blocks[1].Kind != BlockBlank {
		t.Error("Blank line should parse as blank block")
	}
}

// =============================================================================
// INLINE SPAN TESTS
// =============================================================================

func TestParseInlineBoldAndItalic(t *testing.T) {
	spans := ParseInline("**bold** and *italic*")

	if len(spans) != 3 {
		t.Fatalf("Expected 3 spans, got %d: %+v", len(spans), spans)
	}
	if spans[0].Kind != SpanBold || spans[0].Text != "bold" {
		t.Errorf("First span = %+v, want bold 'bold'", spans[0])
	}
	if spans[1].Kind != SpanText || spans[1].Text != " and " {
		t.Errorf("Middle span = %+v", spans[1])
	}
	if spans[2].Kind != SpanItalic || spans[2].Text != "italic" {
		t.Errorf("Last span = %+v, want italic 'italic'", spans[2])
	}
}

func TestParseInlineCodeSpan(t *testing.T) {
	spans := ParseInline("run `go test` now")
	if len(spans) != 3 || spans[1].Kind != SpanCode || spans[1].Text != "go test" {
		t.Fatalf("Code span not recognized: %+v", spans)
	}
}

func TestParseInlineCodeSwallowsMarkers(t *testing.T) {
	spans := ParseInline("`**literal**`")
	if len(spans) != 1 || spans[0].Kind != SpanCode || spans[0].Text != "**literal**" {
		t.Fatalf("Markers inside code span must stay literal: %+v", spans)
	}
}

func TestParseInlineLink(t *testing.T) {
	spans := ParseInline("see [docs](https://example.com/x) here")
	if len(spans) != 3 {
		t.Fatalf("Expected 3 spans, got %+v", spans)
	}
	link := spans[1]
	if link.Kind != SpanLink || link.Text != "docs" || link.URL != "https://example.com/x" {
		t.Errorf("Link span = %+v", link)
	}
}

func TestParseInlineUnmatchedMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lone asterisk", "a * b"},
		{"lone backtick", "a ` b"},
		{"bracket without url", "a [label] b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := ParseInline(tc.input)
			var joined strings.Builder
			for _, s := range spans {
				joined.WriteString(s.Text)
			}
			if joined.String() != tc.input {
				t.Errorf("Unmatched markers should stay literal: got %q, want %q",
					joined.String(), tc.input)
			}
		})
	}
}

// =============================================================================
// RENDER TESTS
// =============================================================================

func TestRenderKeepsContent(t *testing.T) {
	r := NewRenderer(80)
	r.Highlight = false
	r.Hyperlinks = false

	out := r.Render("# Title\n**bold** and *italic*\n- item one\n1. ordered")

	for _, want := range []string{"Title", "bold", "italic", "item one", "ordered", "1."} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered output missing %q:\n%s", want, out)
		}
	}
	// Markers themselves must not leak into output.
	for _, marker := range []string{"**", "# ", "- "} {
		if strings.Contains(out, marker) {
			t.Errorf("Rendered output still contains marker %q:\n%s", marker, out)
		}
	}
}

func TestRenderFenceBodyVerbatim(t *testing.T) {
	r := NewRenderer(80)
	r.Highlight = false
	r.Hyperlinks = false

	out := r.Render("```\nkeep **this** exactly\n```")
	if !strings.Contains(out, "keep **this** exactly") {
		t.Errorf("Fence body was altered:\n%s", out)
	}
}

func TestRenderLinkFallback(t *testing.T) {
	r := NewRenderer(80)
	r.Highlight = false
	r.Hyperlinks = false

	out := r.Render("[docs](https://example.com)")
	if !strings.Contains(out, "docs") || !strings.Contains(out, "https://example.com") {
		t.Errorf("Link fallback should show label and URL:\n%s", out)
	}
}

func TestRenderPartialAccumulator(t *testing.T) {
	// During replay the renderer sees every prefix of the source. It must
	// never panic and must keep prefix content visible.
	src := "# Head\nsome **bold** text\n```go\ncode\n```"
	r := NewRenderer(80)
	r.Highlight = false
	r.Hyperlinks = false

	runes := []rune(src)
	for i := 0; i <= len(runes); i++ {
		out := r.Render(string(runes[:i]))
		if i >= 6 && !strings.Contains(out, "Head") {
			t.Fatalf("Prefix of length %d lost heading text:\n%s", i, out)
		}
	}
}
