// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/transcript/transcript.go
// Summary: SQLite transcript of every line routed into a window.
//
// Provides a persistent session log with:
//   - Async batch writes so the UI goroutine never touches the database
//   - One session row per client run, keyed by a random UUID
//   - Substring search across sessions, newest first

package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/framegrace/texelmud/content"
)

// Config holds configuration for the transcript writer.
type Config struct {
	// Path is the SQLite database file.
	Path string

	// Layout is recorded on the session row for later reference.
	Layout string

	// BatchSize is the number of lines accumulated before a write.
	// Default: 200
	BatchSize int

	// BatchTimeout is how long a partial batch may wait.
	// Default: 2s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the pending-line channel. Lines recorded
	// while it is full are dropped and counted.
	// Default: 4096
	ChannelBuffer int

	Logger *log.Logger
}

// DefaultConfig returns sensible defaults for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		BatchSize:     200,
		BatchTimeout:  2 * time.Second,
		ChannelBuffer: 4096,
	}
}

// Entry is one stored line.
type Entry struct {
	Session   string
	Window    string
	Stream    string
	Timestamp time.Time
	Text      string
}

// Query narrows a search.
type Query struct {
	// Text is matched as a case-insensitive substring. Empty matches all.
	Text string
	// Window restricts results to one window when set.
	Window string
	// Session restricts results to one session when set.
	Session string
	// Limit caps the result count. Default: 100
	Limit int
}

type pending struct {
	window string
	line   content.Line
}

// Writer records routed lines into SQLite in the background.
type Writer struct {
	config  Config
	db      *sql.DB
	session string
	logger  *log.Logger

	lineCh  chan pending
	stopCh  chan struct{}
	doneCh  chan struct{}
	flushCh chan chan struct{}

	dropped   atomic.Uint64
	written   atomic.Uint64
	closeOnce sync.Once
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    started INTEGER NOT NULL,       -- UnixNano
    layout TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session TEXT NOT NULL REFERENCES sessions(id),
    window_name TEXT NOT NULL,
    stream TEXT NOT NULL,
    timestamp INTEGER NOT NULL,     -- UnixNano
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_timestamp ON lines(timestamp);
CREATE INDEX IF NOT EXISTS idx_lines_window ON lines(window_name);
`

// Open creates the database if needed and starts a new session.
func Open(config Config) (*Writer, error) {
	def := DefaultConfig(config.Path)
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = def.BatchTimeout
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = def.ChannelBuffer
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	dsn := config.Path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect transcript: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create transcript schema: %w", err)
	}

	session := uuid.NewString()
	if _, err := db.Exec("INSERT INTO sessions (id, started, layout) VALUES (?, ?, ?)",
		session, time.Now().UnixNano(), config.Layout); err != nil {
		db.Close()
		return nil, fmt.Errorf("start transcript session: %w", err)
	}

	w := &Writer{
		config:  config,
		db:      db,
		session: session,
		logger:  logger,
		lineCh:  make(chan pending, config.ChannelBuffer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		flushCh: make(chan chan struct{}),
	}
	go w.batchWriter()
	logger.Debug("transcript session started", "session", session, "path", config.Path)
	return w, nil
}

// Session returns this run's session id.
func (w *Writer) Session() string { return w.session }

// Record queues line without blocking. It satisfies router.Sink.
func (w *Writer) Record(window string, line content.Line) {
	select {
	case <-w.stopCh:
		w.dropped.Add(1)
		return
	default:
	}
	select {
	case w.lineCh <- pending{window: window, line: line}:
	default:
		w.dropped.Add(1)
	}
}

// Dropped reports how many lines were discarded because the writer lagged.
func (w *Writer) Dropped() uint64 { return w.dropped.Load() }

// Written reports how many lines reached the database.
func (w *Writer) Written() uint64 { return w.written.Load() }

func (w *Writer) batchWriter() {
	defer close(w.doneCh)

	batch := make([]pending, 0, w.config.BatchSize)
	timer := time.NewTimer(w.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.writeBatch(batch)
		batch = batch[:0]
	}
	drainPending := func() {
		for {
			select {
			case p := <-w.lineCh:
				batch = append(batch, p)
			default:
				return
			}
		}
	}

	for {
		select {
		case p := <-w.lineCh:
			batch = append(batch, p)
			if len(batch) >= w.config.BatchSize {
				flush()
				timer.Reset(w.config.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(w.config.BatchTimeout)
		case done := <-w.flushCh:
			drainPending()
			flush()
			close(done)
		case <-w.stopCh:
			drainPending()
			flush()
			return
		}
	}
}

func (w *Writer) writeBatch(batch []pending) {
	tx, err := w.db.Begin()
	if err != nil {
		w.logger.Error("transcript begin failed", "err", err)
		return
	}
	stmt, err := tx.Prepare("INSERT INTO lines (session, window_name, stream, timestamp, content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		w.logger.Error("transcript prepare failed", "err", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, p := range batch {
		at := p.line.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.Exec(w.session, p.window, p.line.Stream, at.UnixNano(), p.line.Text); err != nil {
			w.logger.Error("transcript insert failed", "err", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		w.logger.Error("transcript commit failed", "err", err)
		return
	}
	w.written.Add(uint64(len(batch)))
}

// Flush blocks until every line recorded so far is written.
func (w *Writer) Flush() error {
	done := make(chan struct{})
	select {
	case w.flushCh <- done:
		<-done
	case <-w.stopCh:
	}
	return nil
}

// Close flushes pending lines and closes the database.
func (w *Writer) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		if n := w.dropped.Load(); n > 0 {
			w.logger.Warn("transcript dropped lines", "count", n)
		}
		err = w.db.Close()
	})
	return err
}

// Search returns matching lines, newest first.
func (w *Writer) Search(ctx context.Context, q Query) ([]Entry, error) {
	return search(ctx, w.db, q)
}

// Count returns the number of stored lines across all sessions.
func (w *Writer) Count(ctx context.Context) (int64, error) {
	var n int64
	err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lines").Scan(&n)
	return n, err
}

// SearchFile opens an existing transcript database and searches it.
func SearchFile(ctx context.Context, path string, q Query) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer db.Close()
	return search(ctx, db, q)
}

func search(ctx context.Context, db *sql.DB, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	var (
		where []string
		args  []interface{}
	)
	if q.Text != "" {
		where = append(where, `content LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Text)+"%")
	}
	if q.Window != "" {
		where = append(where, "window_name = ?")
		args = append(args, q.Window)
	}
	if q.Session != "" {
		where = append(where, "session = ?")
		args = append(args, q.Session)
	}
	stmt := "SELECT session, window_name, stream, timestamp, content FROM lines"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("search transcript: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ts int64
		)
		if err := rows.Scan(&e.Session, &e.Window, &e.Stream, &ts, &e.Text); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
