// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/run.go
// Summary: The run command: wires settings, layout, feeds and transcript
// into the terminal runtime.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelmud/config"
	"github.com/framegrace/texelmud/internal/feed"
	"github.com/framegrace/texelmud/internal/logging"
	clientrt "github.com/framegrace/texelmud/internal/runtime/client"
	"github.com/framegrace/texelmud/internal/transcript"
	"github.com/framegrace/texelmud/router"
)

// errNoSource is returned when run has nothing to read game output from.
var errNoSource = errors.New("no feed source: pass a command after --, --file, --demo or pipe into stdin")

type runOptions struct {
	layout     string
	file       string
	demo       bool
	transcript bool
	noLog      bool
	panicLog   string
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [-- command [args...]]",
		Short: "Start the client",
		Long: `Start the client on the current terminal.

Game output is read from a command hosted on a pseudo-terminal, a file,
standard input or the built-in demo script. Lines tagged "[stream] text"
go to the windows listening on that stream; untagged lines go to main.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClient(cmd.Context(), opts, args, cmd.Flags().Changed("transcript"))
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.layout, "layout", "l", "", "layout name or file (default from settings)")
	flags.StringVarP(&opts.file, "file", "f", "", "read game output from a file")
	flags.BoolVar(&opts.demo, "demo", false, "play the built-in demo script")
	flags.BoolVar(&opts.transcript, "transcript", false, "record a session transcript (overrides settings)")
	flags.BoolVar(&opts.noLog, "no-log-file", false, "discard logs instead of writing the client log file")
	flags.StringVar(&opts.panicLog, "panic-log", "", "file to append panic stack traces")
	return cmd
}

func (c *CLI) runClient(ctx context.Context, opts runOptions, args []string, transcriptSet bool) error {
	cfg, err := c.settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	layoutRef := opts.layout
	if layoutRef == "" {
		layoutRef = cfg.GetString("client", "layout", config.DefaultLayoutName)
	}
	lf, err := config.ResolveLayout(layoutRef)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	reg, err := lf.Registry()
	if err != nil {
		return err
	}

	// The screen belongs to the runtime from here on; logs go to a file.
	logFile, err := c.redirectLogs(cfg, opts.noLog)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger := c.Logger

	queue := feed.NewQueue(cfg.GetInt("client", "queue_size", config.DefaultQueueSize))
	sources, err := buildSources(opts, args, queue, logger, stdinIsPipe())
	if err != nil {
		return err
	}

	record := cfg.GetBool("transcript", "enabled", false)
	if transcriptSet {
		record = opts.transcript
	}
	var sink router.Sink
	if record {
		w, err := openTranscript(cfg, layoutRef, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		sink = w
		logger.Info("recording transcript", "session", w.Session())
	}

	logger.Info("starting client", "layout", layoutRef, "windows", reg.Len(), "sources", len(sources))
	return clientrt.Run(ctx, clientrt.Options{
		Registry:        reg,
		Queue:           queue,
		Sources:         sources,
		Sink:            sink,
		Frame:           cfg.GetDuration("client", "frame_ms", config.DefaultFrame),
		DefaultMaxLines: cfg.GetInt("client", "default_max_lines", 0),
		DrainPerFrame:   cfg.GetInt("client", "drain_per_frame", config.DefaultDrainPerFrame),
		Logger:          logger,
		PanicLog:        opts.panicLog,
	})
}

func (c *CLI) redirectLogs(cfg config.Config, discard bool) (*os.File, error) {
	if !c.verbose {
		c.SetLogLevel(logging.ParseLevel(cfg.GetString("client", "log_level", "info")))
	}
	if discard {
		c.Logger.SetOutput(io.Discard)
		return nil, nil
	}
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.SetOutput(f)
	return f, nil
}

// buildSources turns flags and positional args into feed services. More than
// one source may be active; they share the queue.
func buildSources(opts runOptions, args []string, queue *feed.Queue, logger *log.Logger, stdinPipe bool) ([]feed.Service, error) {
	var sources []feed.Service
	if len(args) > 0 {
		sources = append(sources, &feed.Command{
			Path:   args[0],
			Args:   args[1:],
			Queue:  queue,
			Logger: logger,
		})
	}
	if opts.file != "" {
		sources = append(sources, &feed.Reader{
			Name:   opts.file,
			Open:   feed.FileOpener(opts.file),
			Queue:  queue,
			Logger: logger,
		})
	}
	if opts.demo {
		sources = append(sources, &feed.Demo{Interval: 300 * time.Millisecond, Queue: queue})
	}
	if len(sources) == 0 && stdinPipe {
		sources = append(sources, &feed.Reader{
			Name:   "stdin",
			Open:   feed.StdinOpener,
			Queue:  queue,
			Logger: logger,
		})
	}
	if len(sources) == 0 {
		return nil, errNoSource
	}
	return sources, nil
}

func stdinIsPipe() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func openTranscript(cfg config.Config, layout string, logger *log.Logger) (*transcript.Writer, error) {
	path := cfg.GetString("transcript", "path", "")
	if path == "" {
		var err error
		if path, err = config.TranscriptPath(); err != nil {
			return nil, err
		}
	}
	tc := transcript.DefaultConfig(path)
	tc.Layout = layout
	tc.Logger = logger
	w, err := transcript.Open(tc)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return w, nil
}
