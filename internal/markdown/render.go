// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer converts parsed markdown into styled terminal text.
type Renderer struct {
	// Width is the wrap hint for code block containers.
	Width int

	// Highlight enables chroma syntax highlighting inside fenced blocks.
	Highlight bool

	// Hyperlinks emits OSC 8 hyperlink escapes for links when the
	// terminal supports them.
	Hyperlinks bool

	heading1 lipgloss.Style
	heading2 lipgloss.Style
	heading3 lipgloss.Style
	bold     lipgloss.Style
	italic   lipgloss.Style
	code     lipgloss.Style
	codeBody lipgloss.Style
	bullet   lipgloss.Style
	link     lipgloss.Style
}

// NewRenderer creates a renderer with the default styles.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 80
	}
	return &Renderer{
		Width:      width,
		Highlight:  true,
		Hyperlinks: termenv.ColorProfile() != termenv.Ascii,
		heading1:   lipgloss.NewStyle().Bold(true).Underline(true),
		heading2:   lipgloss.NewStyle().Bold(true),
		heading3:   lipgloss.NewStyle().Bold(true).Faint(true),
		bold:       lipgloss.NewStyle().Bold(true),
		italic:     lipgloss.NewStyle().Italic(true),
		code:       lipgloss.NewStyle().Reverse(true),
		codeBody:   lipgloss.NewStyle().Faint(true),
		bullet:     lipgloss.NewStyle().Bold(true),
		link:       lipgloss.NewStyle().Underline(true),
	}
}

// Render parses src and renders the resulting tree.
//
// Must always be called with the raw source (or raw partial accumulator),
// never with its own output.
func (r *Renderer) Render(src string) string {
	return r.RenderBlocks(Parse(src))
}

// RenderBlocks renders an already-parsed block tree.
func (r *Renderer) RenderBlocks(blocks []Block) string {
	var out []string

	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			out = append(out, r.headingStyle(b.Level).Render(r.renderInline(b.Text)))

		case BlockCode:
			out = append(out, r.renderCode(b))

		case BlockList:
			var lines []string
			for _, item := range b.Items {
				lines = append(lines, r.bullet.Render("•")+" "+r.renderInline(item))
			}
			out = append(out, strings.Join(lines, "\n"))

		case BlockOrderedItem:
			out = append(out, b.Marker+" "+r.renderInline(b.Text))

		case BlockBlank:
			out = append(out, "")

		default:
			out = append(out, r.renderInline(b.Text))
		}
	}

	return strings.Join(out, "\n")
}

func (r *Renderer) headingStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return r.heading1
	case 2:
		return r.heading2
	default:
		return r.heading3
	}
}

// renderInline renders the inline spans of one line.
func (r *Renderer) renderInline(s string) string {
	var sb strings.Builder
	for _, span := range ParseInline(s) {
		switch span.Kind {
		case SpanBold:
			sb.WriteString(r.bold.Render(span.Text))
		case SpanItalic:
			sb.WriteString(r.italic.Render(span.Text))
		case SpanCode:
			sb.WriteString(r.code.Render(span.Text))
		case SpanLink:
			sb.WriteString(r.renderLink(span))
		default:
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}

func (r *Renderer) renderLink(span Span) string {
	if r.Hyperlinks {
		return r.link.Render(termenv.Hyperlink(span.URL, span.Text))
	}
	return r.link.Render(span.Text) + " (" + span.URL + ")"
}

// renderCode renders a fenced block. Body text is verbatim apart from
// syntax coloring; inline markers inside fences are never interpreted.
func (r *Renderer) renderCode(b Block) string {
	body := b.Body
	if r.Highlight {
		body = highlight(body, b.Lang)
	} else {
		body = r.codeBody.Render(body)
	}

	var sb strings.Builder
	if b.Lang != "" {
		sb.WriteString(r.code.Render(" "+b.Lang+" ") + "\n")
	}
	for i, line := range strings.Split(body, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("  " + line)
	}
	return sb.String()
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlight applies chroma highlighting, falling back to plain text when
// the language is unknown or tokenizing fails.
func highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	// Chroma appends a trailing newline the fence body never had.
	return strings.TrimSuffix(buf.String(), "\n")
}
