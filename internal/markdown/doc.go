// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders the small markdown dialect used by the backend's
// answers into styled terminal text.
//
// The dialect covers headings (one to three hashes), bold, italic, fenced
// and inline code, unordered and ordered list items, links, and line
// breaks. Input is parsed into a small block tree with inline spans and the
// tree is rendered, rather than applying ordered textual rewrites, so the
// classic ordering hazards (triple-hash before double, bold before italic)
// are resolved structurally.
//
// The transform is applied to the raw source text on every replay tick. It
// is not idempotent on its own output; callers must always re-render from
// the accumulated raw text, never from a previous render.
package markdown
