// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package documents implements the upload manager view: the local queue of
// files waiting to go out, batch progress, and the processed documents list.
package documents

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/history"
	"github.com/telfordlabs/docterm/internal/model"
	"github.com/telfordlabs/docterm/internal/ui/styles"
	"github.com/telfordlabs/docterm/internal/upload"
	"github.com/telfordlabs/docterm/internal/watch"
)

// =============================================================================
// MESSAGES
// =============================================================================

// batchDoneMsg reports a finished upload batch.
type batchDoneMsg struct {
	startedAt time.Time
	result    upload.Result
	err       error
}

// progressMsg is one pipeline event forwarded into the update loop.
type progressMsg struct {
	event upload.Event
}

// noticeMsg is an inbox admission notice from the directory watcher.
type noticeMsg struct {
	notice watch.Notice
}

// docsLoadedMsg carries the processed documents listing.
type docsLoadedMsg struct {
	docs []model.Document
	err  error
}

// docDeletedMsg reports a remote delete.
type docDeletedMsg struct {
	id  string
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the documents tab.
type Model struct {
	theme    *styles.Theme
	client   *api.Client
	pipeline *upload.Pipeline
	set      *upload.Set
	inbox    *watch.Inbox // nil when no inbox dir is configured
	log      *history.Log // nil when history is disabled

	cursor    int
	status    string
	errText   string
	remote    []model.Document
	remoteErr string

	width  int
	height int
}

// New builds the documents tab. inbox and log may be nil.
func New(theme *styles.Theme, client *api.Client, pipeline *upload.Pipeline, inbox *watch.Inbox, log *history.Log) Model {
	return Model{
		theme:    theme,
		client:   client,
		pipeline: pipeline,
		set:      pipeline.Set(),
		inbox:    inbox,
		log:      log,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenEvents(), m.loadDocs()}
	if m.inbox != nil {
		cmds = append(cmds, m.listenNotices())
	}
	return tea.Batch(cmds...)
}

// Busy reports whether a batch is still in flight.
func (m Model) Busy() bool {
	return m.pipeline.InFlight()
}

// =============================================================================
// COMMANDS
// =============================================================================

// runBatch starts the upload pipeline. The pipeline itself enforces the
// single-batch rule; a second trigger surfaces ErrBatchInFlight.
func (m Model) runBatch() tea.Cmd {
	p := m.pipeline
	started := time.Now()
	return func() tea.Msg {
		result, err := p.UploadAll(context.Background())
		return batchDoneMsg{startedAt: started, result: result, err: err}
	}
}

// listenEvents forwards one pipeline event; the handler re-subscribes.
func (m Model) listenEvents() tea.Cmd {
	ch := m.pipeline.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{event: ev}
	}
}

func (m Model) listenNotices() tea.Cmd {
	ch := m.inbox.Notices()
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}

func (m Model) loadDocs() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		docs, err := client.GetDocuments(ctx)
		return docsLoadedMsg{docs: docs, err: err}
	}
}

func (m Model) deleteDoc(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return docDeletedMsg{id: id, err: client.DeleteDocument(ctx, id)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		// The pipeline already moved the item; the event only tells us the
		// view is stale. Keep the subscription alive.
		return m, m.listenEvents()

	case noticeMsg:
		if msg.notice.Message != "" {
			m.status = msg.notice.Message
		} else if msg.notice.Admitted > 0 {
			m.status = "picked up " + msg.notice.Path
		}
		return m, m.listenNotices()

	case batchDoneMsg:
		return m.handleBatchDone(msg)

	case docsLoadedMsg:
		if msg.err != nil {
			m.remoteErr = msg.err.Error()
			return m, nil
		}
		m.remoteErr = ""
		m.remote = msg.docs
		return m, nil

	case docDeletedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.status = "document deleted"
		return m, m.loadDocs()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.set.Items()

	switch msg.String() {
	case "u":
		if m.pipeline.InFlight() {
			m.errText = upload.ErrBatchInFlight.Error()
			return m, nil
		}
		if len(m.set.Retryable()) == 0 {
			m.status = "nothing to upload"
			return m, nil
		}
		m.errText = ""
		m.status = "uploading..."
		return m, m.runBatch()

	case "x":
		if m.cursor >= len(items) {
			return m, nil
		}
		it := items[m.cursor]
		if !it.Status.Terminal() && it.Status != upload.StatusReady {
			m.errText = "cannot remove a file while it is uploading"
			return m, nil
		}
		m.set.Remove(it.ID)
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "c":
		n := m.set.ClearCompleted()
		if n > 0 {
			m.status = "cleared completed uploads"
		}
		if m.cursor >= m.set.Len() && m.cursor > 0 {
			m.cursor = m.set.Len() - 1
		}
		return m, nil

	case "r":
		m.status = "refreshing documents..."
		return m, m.loadDocs()

	case "d":
		idx := m.cursor - len(items)
		if idx < 0 || idx >= len(m.remote) {
			return m, nil
		}
		return m, m.deleteDoc(m.remote[idx].ID)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(items)+len(m.remote)-1 {
			m.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleBatchDone(msg batchDoneMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.errText = msg.err.Error()
		m.status = ""
		return m, nil
	}
	m.status = msg.result.Summary()
	m.errText = ""

	if m.log != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = m.log.Record(ctx, msg.startedAt, msg.result, m.set.Items())
		cancel()
	}
	if msg.result.Succeeded > 0 {
		return m, m.loadDocs()
	}
	return m, nil
}
