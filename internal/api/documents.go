// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/telfordlabs/docterm/internal/model"
)

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// UploadSlot is a time-limited write destination handed out by the backend.
// The client PUTs file bytes straight to UploadURL; Key identifies the
// stored object for the subsequent processing registration.
type UploadSlot struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

type uploadURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type processDocumentRequest struct {
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// GetUploadURL obtains a presigned write destination for a file. Both fields
// of the slot must be present; a reply missing either is unusable and the
// caller must fail the item.
func (c *Client) GetUploadURL(ctx context.Context, fileName, contentType string) (*UploadSlot, error) {
	var out UploadSlot
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/upload-url", uploadURLRequest{
		FileName:    fileName,
		ContentType: contentType,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProgressFunc receives transfer progress. total is the declared size;
// written only increases.
type ProgressFunc func(written, total int64)

// UploadFile transfers file bytes to a presigned destination with a raw PUT.
// The storage origin authorizes via the URL itself, so no bearer token is
// attached. progress may be nil.
func (c *Client) UploadFile(ctx context.Context, uploadURL string, body io.Reader, size int64, contentType string, progress ProgressFunc) error {
	var reader io.Reader = body
	if progress != nil {
		reader = &progressReader{r: body, total: size, report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, reader)
	if err != nil {
		return &TransferError{Phase: "connect", Err: err}
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.transferClient.Do(req)
	if err != nil {
		return &TransferError{Phase: "upload", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransferError{Status: resp.StatusCode}
	}
	if progress != nil {
		progress(size, size)
	}
	return nil
}

// ProcessDocument registers uploaded content for ingestion and returns the
// resulting document record.
func (c *Client) ProcessDocument(ctx context.Context, key, fileName, contentType string, fileSize int64) (*model.Document, error) {
	var out model.Document
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/process", processDocumentRequest{
		Key:         key,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    fileSize,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocuments lists the user's processed documents.
func (c *Client) GetDocuments(ctx context.Context) ([]model.Document, error) {
	var out []model.Document
	if err := c.getJSON(ctx, "/api/documents", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocument removes a document and its stored content.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/documents/"+url.PathEscape(documentID), nil, nil)
}

// progressReader reports cumulative bytes read to a callback. The transfer
// client reads from it while writing the PUT body, so read progress tracks
// wire progress closely enough for a progress bar.
type progressReader struct {
	r       io.Reader
	total   int64
	written int64
	report  ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.report(p.written, p.total)
	}
	return n, err
}
