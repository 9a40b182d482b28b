// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload implements the document upload pipeline: validation and
// admission of candidate files, per-item state tracking, and batched
// execution of the three-step upload protocol (slot request, byte transfer,
// processing registration).
//
// Items move through ready -> getting-url -> uploading -> processing ->
// completed, or land in failed with a recorded reason. A batch run processes
// retryable items in groups of three: groups run strictly one after another,
// items within a group run concurrently. One run may be in flight at a time;
// a second invocation fails fast with ErrBatchInFlight.
package upload
