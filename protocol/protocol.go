// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/protocol.go
// Summary: Line-oriented game stream decoder.
// Usage: Feed producers wrap their reader in a Decoder and forward Events to the router.
// Notes: A line "[room] text" targets the room stream, "[room!clear]" empties
// it, and anything else belongs to the main stream. Escape sequences are
// stripped; colour is not interpreted here.

package protocol

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// DefaultStream receives every line without a stream tag.
const DefaultStream = "main"

// MaxLineBytes bounds a single decoded line. Longer lines are cut to this
// size and the rest of the line is discarded.
const MaxLineBytes = 64 * 1024

// Event is one decoded unit of game output.
type Event struct {
	Stream string
	Text   string
	Clear  bool
	At     time.Time
}

// Decoder turns a byte stream into Events.
type Decoder struct {
	r         *bufio.Reader
	now       func() time.Time
	truncated int
}

// NewDecoder wraps r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 4096), now: time.Now}
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (d *Decoder) Next() (Event, error) {
	line, err := d.readLine()
	if err != nil {
		return Event{}, err
	}
	ev := ParseLine(line)
	ev.At = d.now()
	return ev, nil
}

// Truncated reports how many lines were cut to MaxLineBytes so far.
func (d *Decoder) Truncated() int {
	return d.truncated
}

func (d *Decoder) readLine() (string, error) {
	var (
		buf     []byte
		started bool
		cut     bool
	)
	for {
		chunk, more, err := d.r.ReadLine()
		if err != nil {
			if started {
				break
			}
			return "", err
		}
		started = true
		if room := MaxLineBytes - len(buf); len(chunk) > room {
			chunk = chunk[:room]
			cut = true
		}
		buf = append(buf, chunk...)
		if !more {
			break
		}
	}
	if cut {
		d.truncated++
		return strings.ToValidUTF8(string(buf), ""), nil
	}
	return string(buf), nil
}

// ParseLine decodes a single line without its terminator.
func ParseLine(line string) Event {
	line = strings.TrimRight(ansi.Strip(line), "\r")
	if !strings.HasPrefix(line, "[") {
		return Event{Stream: DefaultStream, Text: line}
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return Event{Stream: DefaultStream, Text: line}
	}
	tag := line[1:end]
	clearTag := false
	if name, ok := strings.CutSuffix(tag, "!clear"); ok {
		tag, clearTag = name, true
	}
	if !validStream(tag) {
		return Event{Stream: DefaultStream, Text: line}
	}
	text := strings.TrimPrefix(line[end+1:], " ")
	if clearTag {
		return Event{Stream: tag, Clear: true}
	}
	return Event{Stream: tag, Text: text}
}

func validStream(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
