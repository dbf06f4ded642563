// Package sse reads server-sent events from a streaming HTTP response body.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single event line. Final analysis payloads carry the
// whole result in one data line, so the bufio default (64 KiB) is too small.
const maxLineSize = 4 << 20

// Event is one dispatched server-sent event.
type Event struct {
	Type string // "message" when the stream sets no event field
	ID   string
	Data string
}

// Reader splits a text/event-stream body into events.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next event. It returns io.EOF once the stream is exhausted.
// An event still buffered when the stream ends without a trailing blank line
// is dispatched rather than dropped.
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    strings.Builder
		hasData bool
	)

	for r.sc.Scan() {
		line := r.sc.Text()

		if line == "" {
			if !hasData {
				// Blank line with no data: reset and keep reading.
				ev = Event{}
				continue
			}
			return finish(ev, &data), nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			ev.Type = value
		case "id":
			ev.ID = value
		}
	}

	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	if hasData {
		return finish(ev, &data), nil
	}
	return Event{}, io.EOF
}

func finish(ev Event, data *strings.Builder) Event {
	if ev.Type == "" {
		ev.Type = "message"
	}
	ev.Data = data.String()
	return ev
}
