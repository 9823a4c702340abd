// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelmud/content"
)

func openTemp(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.db")
	cfg := DefaultConfig(path)
	cfg.BatchTimeout = time.Hour
	cfg.Logger = log.New(&bytes.Buffer{})
	w, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w, path
}

func TestRecordFlushSearch(t *testing.T) {
	w, _ := openTemp(t)
	defer w.Close()

	base := time.Unix(1700000000, 0)
	w.Record("room", content.Line{Text: "The Crossroads", Stream: "room", At: base})
	w.Record("main", content.Line{Text: "A crow caws.", Stream: "main", At: base.Add(time.Second)})
	w.Record("main", content.Line{Text: "The crow flies off.", Stream: "main", At: base.Add(2 * time.Second)})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ctx := context.Background()
	n, err := w.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count: %d, %v", n, err)
	}
	if w.Written() != 3 {
		t.Fatalf("Written: %d", w.Written())
	}

	got, err := w.Search(ctx, Query{Text: "CROW"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Text != "The crow flies off." {
		t.Fatalf("expected newest first, got %q", got[0].Text)
	}
	if got[0].Session != w.Session() || got[0].Window != "main" {
		t.Fatalf("unexpected entry %+v", got[0])
	}
	if !got[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Fatalf("timestamp not preserved: %v", got[1].Timestamp)
	}

	got, err = w.Search(ctx, Query{Window: "room"})
	if err != nil || len(got) != 1 || got[0].Stream != "room" {
		t.Fatalf("window filter: %+v, %v", got, err)
	}

	got, err = w.Search(ctx, Query{Limit: 1})
	if err != nil || len(got) != 1 {
		t.Fatalf("limit: %+v, %v", got, err)
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	w, _ := openTemp(t)
	defer w.Close()

	w.Record("main", content.Line{Text: "100% healed"})
	w.Record("main", content.Line{Text: "1000 gold"})
	w.Flush()

	got, err := w.Search(context.Background(), Query{Text: "100%"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Text != "100% healed" {
		t.Fatalf("wildcard not escaped: %+v", got)
	}
}

func TestCloseWritesPendingAndSessionsAccumulate(t *testing.T) {
	w, path := openTemp(t)
	first := w.Session()
	w.Record("main", content.Line{Text: "before close"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	w.Record("main", content.Line{Text: "after close"})
	if w.Dropped() != 1 {
		t.Fatalf("record after close must be dropped, got %d", w.Dropped())
	}

	cfg := DefaultConfig(path)
	cfg.Logger = log.New(&bytes.Buffer{})
	w2, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if w2.Session() == first {
		t.Fatalf("each Open must start a new session")
	}
	w2.Record("main", content.Line{Text: "second run"})
	w2.Close()

	ctx := context.Background()
	all, err := SearchFile(ctx, path, Query{})
	if err != nil {
		t.Fatalf("SearchFile: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 lines across sessions, got %d", len(all))
	}
	only, err := SearchFile(ctx, path, Query{Session: first})
	if err != nil || len(only) != 1 || only[0].Text != "before close" {
		t.Fatalf("session filter: %+v, %v", only, err)
	}
}

func TestRecordDropsWhenFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	cfg := DefaultConfig(path)
	cfg.ChannelBuffer = 1
	cfg.BatchSize = 1000
	cfg.BatchTimeout = time.Hour
	cfg.Logger = log.New(&bytes.Buffer{})
	w, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	for i := 0; i < 1000; i++ {
		w.Record("main", content.Line{Text: "spam"})
	}
	w.Flush()
	if w.Written()+w.Dropped() != 1000 {
		t.Fatalf("lines unaccounted: written %d dropped %d", w.Written(), w.Dropped())
	}
}

func TestSearchFileMissing(t *testing.T) {
	if _, err := SearchFile(context.Background(), filepath.Join(t.TempDir(), "none.db"), Query{}); err == nil {
		t.Fatalf("expected error for missing database")
	}
}
