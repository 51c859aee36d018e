package widget

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHandoffMessage(t *testing.T) {
	fields := []Field{
		{Label: "Name", Value: "Thato"},
		{Label: "Phone", Value: "  "},
		{Label: "Project type", Value: "TV stand"},
		{Label: "Budget", Value: ""},
	}
	transcript := []Turn{
		{Sender: SenderUser, Text: "hi"},
		{Sender: SenderBot, Text: "Hello 👋 what are you looking to build?"},
	}

	got := HandoffMessage("Hi AD Interior Design 👋 I’d like a quote:", fields, transcript)
	lines := strings.Split(got, "\n")

	want := []string{
		"Hi AD Interior Design 👋 I’d like a quote:",
		"",
		"Name: Thato",
		"Phone: -",
		"Project type: TV stand",
		"Budget: -",
		"",
		"— Chat context —",
		"Me: hi",
		"Assistant: Hello 👋 what are you looking to build?",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestHandoffMessageTranscriptWindow(t *testing.T) {
	var transcript []Turn
	for i := 0; i < 25; i++ {
		transcript = append(transcript, Turn{Sender: SenderUser, Text: fmt.Sprintf("turn %d", i)})
	}

	got := HandoffMessage("intro", nil, transcript)

	if strings.Contains(got, "turn 14\n") {
		t.Error("turn 14 should be outside the 10-turn window")
	}
	for i := 15; i < 25; i++ {
		if !strings.Contains(got, fmt.Sprintf("turn %d", i)) {
			t.Errorf("turn %d missing from window", i)
		}
	}
}

func TestHandoffMessageClampsTurns(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := HandoffMessage("intro", nil, []Turn{{Sender: SenderUser, Text: long}})

	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "Me: ") {
			continue
		}
		quoted := strings.TrimPrefix(line, "Me: ")
		if n := utf8.RuneCountInString(quoted); n != maxTurnChars+1 { // 220 + ellipsis
			t.Errorf("quoted turn is %d runes, want %d", n, maxTurnChars+1)
		}
		if !strings.HasSuffix(quoted, "…") {
			t.Error("clamped turn missing ellipsis")
		}
	}
}

func TestHandoffMessageNoTranscript(t *testing.T) {
	got := HandoffMessage("intro", []Field{{Label: "Name", Value: "A"}}, nil)
	if strings.Contains(got, "Chat context") {
		t.Errorf("empty transcript must omit the context section:\n%s", got)
	}
}

func TestClampText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "Short text untouched",
			input: "hello",
			max:   10,
			want:  "hello",
		},
		{
			name:  "Exact length untouched",
			input: "hello",
			max:   5,
			want:  "hello",
		},
		{
			name:  "Truncated with ellipsis",
			input: "hello world",
			max:   5,
			want:  "hello…",
		},
		{
			name:  "Counts runes not bytes",
			input: "héllo wörld",
			max:   5,
			want:  "héllo…",
		},
		{
			name:  "Trims before measuring",
			input: "  hi  ",
			max:   5,
			want:  "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampText(tt.input, tt.max); got != tt.want {
				t.Errorf("clampText(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
