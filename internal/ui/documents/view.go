// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package documents

import (
	"fmt"
	"strings"

	"github.com/telfordlabs/docterm/internal/ui/components"
	"github.com/telfordlabs/docterm/internal/upload"
	"github.com/telfordlabs/docterm/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Upload queue"))
	b.WriteString("\n")
	b.WriteString(m.renderQueue())
	b.WriteString("\n")

	b.WriteString(m.theme.Title.Render("Processed documents"))
	b.WriteString("\n")
	b.WriteString(m.renderRemote())

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorBanner.Render(m.errText))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("u: upload all • x: remove • c: clear done • r: refresh • d: delete remote"))
	return b.String()
}

func (m Model) renderQueue() string {
	items := m.set.Items()
	if len(items) == 0 {
		return m.theme.Muted.Render("  queue is empty — drop PDFs into the inbox or add them with 'docterm upload'")
	}

	var b strings.Builder
	for i, it := range items {
		b.WriteString(m.renderQueueItem(it, i == m.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderQueueItem(it upload.Item, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	glyph := it.StatusGlyph()
	switch it.Status {
	case upload.StatusCompleted:
		glyph = m.theme.Success.Render(glyph)
	case upload.StatusFailed:
		glyph = m.theme.Error.Render(glyph)
	}

	name := util.PadCell(util.TruncateString(it.Name, 36), 36)
	size := util.HumanBytes(it.Size)

	line := fmt.Sprintf("%s%s %s %8s  ", marker, glyph, name, size)
	switch {
	case it.Status == upload.StatusFailed && it.Error != "":
		line += m.theme.Error.Render(it.Error)
	case it.Status == upload.StatusUploading:
		line += components.ProgressBar(float64(it.Progress), 20)
	default:
		line += m.theme.Muted.Render(string(it.Status))
	}
	return line
}

func (m Model) renderRemote() string {
	if m.remoteErr != "" {
		return m.theme.Error.Render("  " + m.remoteErr)
	}
	if len(m.remote) == 0 {
		return m.theme.Muted.Render("  no processed documents yet")
	}

	offset := m.set.Len()
	var b strings.Builder
	for i, doc := range m.remote {
		marker := "  "
		if offset+i == m.cursor {
			marker = "> "
		}
		name := util.PadCell(util.TruncateString(doc.FileName, 36), 36)
		b.WriteString(fmt.Sprintf("%s%s %8s  %s  %s\n",
			marker, name,
			util.HumanBytes(doc.FileSize),
			doc.Status,
			m.theme.Timestamp.Render(doc.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}
