package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string) []Event {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		events = append(events, ev)
	}
}

func TestReader_DataEvents(t *testing.T) {
	input := "data: {\"step\": \"summary\", \"status\": \"processing\"}\n\n" +
		"data: {\"step\": \"summary\", \"status\": \"complete\"}\n\n"

	events := readAll(t, input)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Data != `{"step": "summary", "status": "processing"}` {
		t.Errorf("events[0].Data = %q", events[0].Data)
	}
	if events[0].Type != "message" {
		t.Errorf("events[0].Type = %q, want message", events[0].Type)
	}
}

func TestReader_MultiLineDataAndFields(t *testing.T) {
	input := ": keep-alive\n" +
		"event: progress\n" +
		"id: 7\n" +
		"data: line one\n" +
		"data: line two\n" +
		"\n"

	events := readAll(t, input)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Data != "line one\nline two" {
		t.Errorf("Data = %q", ev.Data)
	}
	if ev.Type != "progress" || ev.ID != "7" {
		t.Errorf("Type/ID = %q/%q, want progress/7", ev.Type, ev.ID)
	}
}

func TestReader_CRLFLineEndings(t *testing.T) {
	events := readAll(t, "data: a\r\n\r\ndata: b\r\n\r\n")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Data != "a" || events[1].Data != "b" {
		t.Errorf("got %q, %q", events[0].Data, events[1].Data)
	}
}

func TestReader_BlankLinesWithoutDataAreSkipped(t *testing.T) {
	events := readAll(t, "\n\nevent: ping\n\ndata: x\n\n")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "message" {
		t.Errorf("event field from a data-less block leaked: Type = %q", events[0].Type)
	}
}

func TestReader_TrailingEventWithoutBlankLine(t *testing.T) {
	events := readAll(t, "data: first\n\ndata: last")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Data != "last" {
		t.Errorf("trailing event Data = %q, want last", events[1].Data)
	}
}

func TestReader_LargePayload(t *testing.T) {
	big := strings.Repeat("x", 200*1024)
	events := readAll(t, "data: "+big+"\n\n")
	if len(events) != 1 || len(events[0].Data) != len(big) {
		t.Fatalf("large payload not read intact")
	}
}
