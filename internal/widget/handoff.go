package widget

import "strings"

const (
	// maxTranscriptTurns bounds how much chat context rides along with a
	// lead handoff.
	maxTranscriptTurns = 10
	// maxTurnChars clamps each quoted transcript turn.
	maxTurnChars = 220
	// maxBubbleChars clamps a rendered bot bubble.
	maxBubbleChars = 1800
)

// Field is one labeled lead form value.
type Field struct {
	Label string
	Value string
}

// HandoffMessage serializes a submitted lead into the message sent over
// the deep link: the intro line, every field exactly once (empty values
// render as "-"), then the last turns of the conversation for context.
func HandoffMessage(intro string, fields []Field, transcript []Turn) string {
	lines := []string{intro, ""}

	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			v = "-"
		}
		lines = append(lines, f.Label+": "+v)
	}

	tail := transcript
	if len(tail) > maxTranscriptTurns {
		tail = tail[len(tail)-maxTranscriptTurns:]
	}
	if len(tail) > 0 {
		lines = append(lines, "", "— Chat context —")
		for _, t := range tail {
			who := "Assistant"
			if t.Sender == SenderUser {
				who = "Me"
			}
			lines = append(lines, who+": "+clampText(t.Text, maxTurnChars))
		}
	}

	return strings.Join(lines, "\n")
}

// clampText trims s and truncates it to max runes, marking the cut with
// an ellipsis.
func clampText(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
