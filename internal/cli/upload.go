// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/telfordlabs/docterm/internal/history"
	"github.com/telfordlabs/docterm/internal/upload"
	"github.com/telfordlabs/docterm/internal/util"
)

// =============================================================================
// UPLOAD COMMAND
// =============================================================================

// HandleUpload sends the named files through the batch pipeline and prints a
// per-file outcome.
func HandleUpload(args Args) error {
	if len(args.Files) == 0 {
		return errors.New("usage: docterm upload FILE...")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := NewClient(cfg, args)
	if err != nil {
		return err
	}

	set := upload.NewSet()
	candidates := make([]upload.Candidate, 0, len(args.Files))
	for _, path := range args.Files {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		candidates = append(candidates, upload.Candidate{
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: contentTypeFor(path),
			Source:      upload.FileSource{Path: path},
		})
	}

	admitted, message := set.Add(candidates)
	if message != "" {
		fmt.Fprintln(os.Stderr, message)
	}
	if admitted == 0 {
		return errors.New("no files to upload")
	}

	pipeline := upload.NewPipeline(set, client)

	progressDone := make(chan struct{})
	printerStopped := make(chan struct{})
	if !args.Quiet {
		go printProgress(pipeline, progressDone, printerStopped)
	} else {
		close(printerStopped)
	}

	started := time.Now()
	result, err := pipeline.UploadAll(context.Background())
	close(progressDone)
	<-printerStopped
	if err != nil {
		return err
	}

	printOutcome(set, result)
	recordBatch(cfg.Upload.HistoryEnabled, started, result, set)

	if result.Failed > 0 {
		return fmt.Errorf("%d upload(s) failed", result.Failed)
	}
	return nil
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	ct := mime.TypeByExtension(ext)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

// printProgress renders transfer percentages until done closes, drains any
// queued events, then signals stopped. The events channel itself stays open
// for the pipeline's lifetime.
func printProgress(p *upload.Pipeline, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	print := func(ev upload.Event) {
		if ev.Status != upload.StatusUploading {
			return
		}
		if it, ok := p.Set().Get(ev.ItemID); ok {
			fmt.Fprintf(os.Stderr, "\r%s %3d%%  ", util.PadCell(it.Name, 32), ev.Progress)
		}
	}

	for {
		select {
		case <-done:
			for {
				select {
				case ev := <-p.Events():
					print(ev)
				default:
					return
				}
			}
		case ev := <-p.Events():
			print(ev)
		}
	}
}

func printOutcome(set *upload.Set, result upload.Result) {
	fmt.Fprint(os.Stderr, "\r")
	for _, it := range set.Items() {
		line := fmt.Sprintf("%s %s %8s", it.StatusGlyph(), util.PadCell(it.Name, 32), util.HumanBytes(it.Size))
		if it.Status == upload.StatusFailed && it.Error != "" {
			line += "  " + it.Error
		}
		fmt.Println(line)
	}
	fmt.Println(result.Summary())
}

// recordBatch appends the batch to the local upload history, best effort.
func recordBatch(enabled bool, started time.Time, result upload.Result, set *upload.Set) {
	if !enabled {
		return
	}
	path, err := history.DefaultPath()
	if err != nil {
		return
	}
	log, err := history.Open(path)
	if err != nil {
		return
	}
	defer log.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = log.Record(ctx, started, result, set.Items())
}
