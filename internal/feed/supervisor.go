// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/feed/supervisor.go
// Summary: Suture supervision for feed producers.
// Usage: The runtime adds one service per configured source and serves the
// supervisor in the background for the lifetime of the session.

package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/thejerf/suture/v4"
)

// Service forces the use of the String method so events name the source.
type Service interface {
	String() string
	suture.Service
}

// NewSupervisor returns a supervisor that reports through logger.
func NewSupervisor(name string, logger *log.Logger) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(logger),
	})
}

// EventHook logs supervisor events.
func EventHook(logger *log.Logger) suture.EventHook {
	if logger == nil {
		logger = log.Default()
	}
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Warn("feed failed to stop in time", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Error("feed panicked", "service", e.ServiceName, "panic", e.PanicMsg)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("feed failed", "service", e.ServiceName, "err", e.Err, "restarting", e.Restarting)
		case suture.EventBackoff:
			logger.Debug("feed backoff", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Debug("feed resumed", "supervisor", e.SupervisorName)
		default:
			logger.Warn("unknown supervisor event", "type", int(e.Type()))
		}
	}
}

// Add registers service with super. Its errors pass through SanitizeError.
func Add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(guarded{service})
}

type guarded struct {
	Service
}

func (g guarded) Serve(ctx context.Context) error {
	return SanitizeError(ctx, g.Service.Serve(ctx))
}

// supervisorSignals survive SanitizeError so a source can still ask not to
// be restarted.
var supervisorSignals = []error{suture.ErrDoNotRestart, suture.ErrTerminateSupervisorTree}

// SanitizeError flattens a context error that did not come from ctx. suture
// takes any context error as its own shutdown and would stop restarting the
// source, so a feed whose dial timed out would stay down.
func SanitizeError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded):
		return err
	}
	flat := errors.New(err.Error())
	for _, signal := range supervisorSignals {
		if errors.Is(err, signal) {
			flat = fmt.Errorf("%w: %w", signal, flat)
		}
	}
	return flat
}
