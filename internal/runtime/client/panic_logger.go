// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/client/panic_logger.go
// Summary: Panic capture for runtime goroutines.
// Usage: Deferred in Run and wrapped around every goroutine the runtime starts.

package clientruntime

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// PanicLogger captures panic stack traces and optionally persists them to disk.
type PanicLogger struct {
	path   string
	logger *log.Logger
	mu     sync.Mutex
	exit   func(int)
}

// NewPanicLogger constructs a panic logger that writes to path if non-empty.
func NewPanicLogger(path string, logger *log.Logger) *PanicLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &PanicLogger{path: path, logger: logger, exit: os.Exit}
}

// Recover should be deferred in goroutines to capture panics.
func (p *PanicLogger) Recover(context string) {
	if r := recover(); r != nil {
		p.logPanic(context, r)
		p.exit(2)
	}
}

// Go starts fn in a goroutine with panic recovery bound to context.
func (p *PanicLogger) Go(context string, fn func()) {
	go func() {
		defer p.Recover(context)
		fn()
	}()
}

func (p *PanicLogger) logPanic(context string, r interface{}) {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	stack := buf[:n]
	p.logger.Error("panic", "in", context, "value", fmt.Sprint(r))
	p.logger.Debug(string(stack))
	if p.path == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		p.logger.Error("unable to write panic log", "err", err)
		return
	}
	defer f.Close()
	ts := time.Now().Format(time.RFC3339Nano)
	fmt.Fprintf(f, "[%s] panic in %s: %v\n%s\n", ts, context, r, stack)
}
