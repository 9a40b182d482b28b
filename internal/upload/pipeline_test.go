// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/model"
)

// fakeUploader counts concurrent protocol executions and lets tests inject
// per-file failures at each step.
type fakeUploader struct {
	mu          sync.Mutex
	active      int32
	maxActive   int32
	slotCalls   int
	putCalls    int
	regCalls    int
	stepDelay   time.Duration
	failSlot    map[string]error
	emptySlot   map[string]bool
	failPut     map[string]error
	failProcess map[string]error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		stepDelay:   2 * time.Millisecond,
		failSlot:    map[string]error{},
		emptySlot:   map[string]bool{},
		failPut:     map[string]error{},
		failProcess: map[string]error{},
	}
}

func (f *fakeUploader) enter() {
	n := atomic.AddInt32(&f.active, 1)
	for {
		max := atomic.LoadInt32(&f.maxActive)
		if n <= max || atomic.CompareAndSwapInt32(&f.maxActive, max, n) {
			break
		}
	}
}

func (f *fakeUploader) leave() {
	atomic.AddInt32(&f.active, -1)
}

func (f *fakeUploader) GetUploadURL(ctx context.Context, fileName, contentType string) (*api.UploadSlot, error) {
	f.enter()
	defer f.leave()
	time.Sleep(f.stepDelay)
	f.mu.Lock()
	f.slotCalls++
	failErr := f.failSlot[fileName]
	empty := f.emptySlot[fileName]
	f.mu.Unlock()
	if failErr != nil {
		return nil, failErr
	}
	if empty {
		return &api.UploadSlot{}, nil
	}
	return &api.UploadSlot{UploadURL: "https://store.example/" + fileName, Key: "key-" + fileName}, nil
}

func (f *fakeUploader) UploadFile(ctx context.Context, uploadURL string, body io.Reader, size int64, contentType string, progress api.ProgressFunc) error {
	f.enter()
	defer f.leave()
	time.Sleep(f.stepDelay)
	name := strings.TrimPrefix(uploadURL, "https://store.example/")
	f.mu.Lock()
	f.putCalls++
	failErr := f.failPut[name]
	f.mu.Unlock()
	if failErr != nil {
		return failErr
	}
	io.Copy(io.Discard, body)
	if progress != nil {
		progress(size/2, size)
		progress(size, size)
	}
	return nil
}

func (f *fakeUploader) ProcessDocument(ctx context.Context, key, fileName, contentType string, fileSize int64) (*model.Document, error) {
	f.enter()
	defer f.leave()
	time.Sleep(f.stepDelay)
	f.mu.Lock()
	f.regCalls++
	failErr := f.failProcess[fileName]
	f.mu.Unlock()
	if failErr != nil {
		return nil, failErr
	}
	return &model.Document{ID: "doc-" + key, FileName: fileName, FileSize: fileSize}, nil
}

func seededPipeline(t *testing.T, n int) (*Pipeline, *fakeUploader) {
	t.Helper()
	s := NewSet()
	var cs []Candidate
	for i := 0; i < n; i++ {
		cs = append(cs, pdfCandidate(fmt.Sprintf("file%02d.pdf", i), int64(100+i)))
	}
	if admitted, msg := s.Add(cs); admitted != n {
		t.Fatalf("Seed admitted %d of %d: %s", admitted, n, msg)
	}
	f := newFakeUploader()
	return NewPipeline(s, f), f
}

func TestPipelineUploadsEverything(t *testing.T) {
	p, f := seededPipeline(t, 7)

	res, err := p.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}
	if res.Succeeded != 7 || res.Failed != 0 {
		t.Errorf("Result = %+v, want 7 succeeded", res)
	}
	for _, it := range p.Set().Items() {
		if it.Status != StatusCompleted || it.Progress != 100 {
			t.Errorf("Item %s = %s/%d, want completed/100", it.Name, it.Status, it.Progress)
		}
	}
	if f.slotCalls != 7 || f.putCalls != 7 || f.regCalls != 7 {
		t.Errorf("Calls = %d/%d/%d, want 7 each", f.slotCalls, f.putCalls, f.regCalls)
	}
}

func TestPipelineBoundsConcurrency(t *testing.T) {
	p, f := seededPipeline(t, 10)
	f.stepDelay = 10 * time.Millisecond

	if _, err := p.UploadAll(context.Background()); err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}
	if max := atomic.LoadInt32(&f.maxActive); max > GroupSize {
		t.Errorf("Peak concurrency = %d, want <= %d", max, GroupSize)
	}
}

func TestPipelineFailureIsolation(t *testing.T) {
	p, f := seededPipeline(t, 5)
	f.failSlot["file01.pdf"] = errors.New("slot denied")
	f.failPut["file02.pdf"] = errors.New("connection reset")
	f.failProcess["file03.pdf"] = errors.New("ingest rejected")

	res, err := p.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}
	if res.Succeeded != 2 || res.Failed != 3 {
		t.Errorf("Result = %+v, want 2 succeeded / 3 failed", res)
	}

	byName := map[string]Item{}
	for _, it := range p.Set().Items() {
		byName[it.Name] = it
		if !it.Status.Terminal() {
			t.Errorf("Item %s left non-terminal: %s", it.Name, it.Status)
		}
	}
	if byName["file01.pdf"].Error != "slot denied" {
		t.Errorf("file01 error = %q", byName["file01.pdf"].Error)
	}
	if byName["file02.pdf"].Error != "connection reset" {
		t.Errorf("file02 error = %q", byName["file02.pdf"].Error)
	}
	if byName["file03.pdf"].Error != "ingest rejected" {
		t.Errorf("file03 error = %q", byName["file03.pdf"].Error)
	}
}

func TestPipelineInvalidSlotResponse(t *testing.T) {
	p, f := seededPipeline(t, 1)
	f.emptySlot["file00.pdf"] = true

	res, _ := p.UploadAll(context.Background())
	if res.Failed != 1 {
		t.Fatalf("Result = %+v, want 1 failed", res)
	}
	it := p.Set().Items()[0]
	if it.Error != "invalid response" {
		t.Errorf("Error = %q, want 'invalid response'", it.Error)
	}
	if f.putCalls != 0 {
		t.Error("Transfer attempted despite unusable slot")
	}
}

func TestPipelineNoopWithoutRetryable(t *testing.T) {
	p, f := seededPipeline(t, 2)
	for _, it := range p.Set().Items() {
		p.Set().Update(it.ID, func(i Item) Item { i.Status = StatusCompleted; return i })
	}

	res, err := p.UploadAll(context.Background())
	if err != nil || res != (Result{}) {
		t.Errorf("UploadAll = (%+v, %v), want zero no-op", res, err)
	}
	if f.slotCalls != 0 {
		t.Error("No-op run made network calls")
	}
}

func TestPipelineRetriesFailedOnly(t *testing.T) {
	p, f := seededPipeline(t, 3)
	f.failPut["file01.pdf"] = errors.New("transient")

	if res, _ := p.UploadAll(context.Background()); res.Failed != 1 {
		t.Fatalf("First run should fail one item")
	}

	f.mu.Lock()
	delete(f.failPut, "file01.pdf")
	f.slotCalls = 0
	f.mu.Unlock()

	res, err := p.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("Retry run failed: %v", err)
	}
	if res.Succeeded != 1 {
		t.Errorf("Retry result = %+v, want exactly the failed item", res)
	}
	if f.slotCalls != 1 {
		t.Errorf("Retry made %d slot calls, want 1 (completed items untouched)", f.slotCalls)
	}
}

func TestPipelineInFlightGuard(t *testing.T) {
	p, f := seededPipeline(t, 3)
	f.stepDelay = 30 * time.Millisecond

	started := make(chan struct{})
	errs := make(chan error, 1)
	go func() {
		close(started)
		_, err := p.UploadAll(context.Background())
		errs <- err
	}()
	<-started
	time.Sleep(15 * time.Millisecond)

	if _, err := p.UploadAll(context.Background()); !errors.Is(err, ErrBatchInFlight) {
		t.Errorf("Concurrent invocation = %v, want ErrBatchInFlight", err)
	}
	if err := <-errs; err != nil {
		t.Fatalf("First invocation failed: %v", err)
	}

	// After the first run settles, the guard releases.
	if _, err := p.UploadAll(context.Background()); err != nil {
		t.Errorf("Post-run invocation = %v, want nil", err)
	}
}

func TestPipelineProgressEvents(t *testing.T) {
	p, _ := seededPipeline(t, 1)

	if _, err := p.UploadAll(context.Background()); err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}

	sawUploading := false
	sawCompleted := false
	for {
		select {
		case ev := <-p.Events():
			if ev.Status == StatusUploading {
				sawUploading = true
			}
			if ev.Status == StatusCompleted {
				sawCompleted = true
			}
			continue
		default:
		}
		break
	}
	if !sawUploading || !sawCompleted {
		t.Errorf("Events missing transitions: uploading=%v completed=%v", sawUploading, sawCompleted)
	}
}

func TestPipelineCancelSkipsLaterGroups(t *testing.T) {
	p, f := seededPipeline(t, 9)
	f.stepDelay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	res, err := p.UploadAll(ctx)
	if err != nil {
		t.Fatalf("UploadAll returned error: %v", err)
	}
	if res.Succeeded+res.Failed >= 9 {
		t.Errorf("Cancellation did not skip later groups: %+v", res)
	}

	// Items never started stay retryable.
	retryable := 0
	for _, it := range p.Set().Items() {
		if it.Status.Retryable() {
			retryable++
		}
	}
	if retryable == 0 {
		t.Error("Expected unstarted items to remain retryable after cancel")
	}
}

func TestResultSummary(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{}, "nothing to upload"},
		{Result{Succeeded: 3}, "3 file(s) uploaded"},
		{Result{Failed: 2}, "2 file(s) failed"},
		{Result{Succeeded: 1, Failed: 1}, "1 file(s) uploaded, 1 failed"},
	}
	for _, tc := range tests {
		if got := tc.res.Summary(); got != tc.want {
			t.Errorf("Summary(%+v) = %q, want %q", tc.res, got, tc.want)
		}
	}
}
