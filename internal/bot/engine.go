package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EngineConfig holds the tenant-independent knobs of the responder: the
// greeting pool used for empty input, the fallback pool and its baseline
// chips, and the WhatsApp nudge shown when unmatched text still mentions
// chatting.
type EngineConfig struct {
	// Greetings is the phrase pool for the greeting+menu reply on empty
	// or unparseable input. GreetingPrompt is appended after the chosen
	// variant.
	Greetings      []string
	GreetingPrompt string
	GreetingChips  []string

	// Fallbacks rotates round-robin (never randomly, see Rotation).
	Fallbacks     []string
	FallbackChips []string

	// NudgeLiterals are substrings (e.g. "whatsapp") that trigger the
	// nudge reply when classification found nothing.
	NudgeLiterals []string
	NudgeReply    string
	NudgeChips    []string

	// MemoryTTL bounds how long idle conversation memory is kept.
	MemoryTTL time.Duration
}

// Engine is one tenant's responder: a fixed intent catalog plus the
// engine config, with per-conversation session memory. Safe for
// concurrent use.
type Engine struct {
	intents  []Intent
	cfg      EngineConfig
	fallback Rotation
	memory   *memoryStore
}

// NewEngine validates the catalog and config and returns a ready engine.
func NewEngine(intents []Intent, cfg EngineConfig) (*Engine, error) {
	if err := ValidateCatalog(intents); err != nil {
		return nil, fmt.Errorf("invalid intent catalog: %w", err)
	}
	if len(cfg.Greetings) == 0 {
		return nil, fmt.Errorf("at least one greeting phrase required")
	}
	if len(cfg.Fallbacks) == 0 {
		return nil, fmt.Errorf("at least one fallback phrase required")
	}

	return &Engine{
		intents: intents,
		cfg:     cfg,
		memory:  newMemoryStore(cfg.MemoryTTL),
	}, nil
}

// Respond produces the reply for one user message. It never fails: empty
// or garbage input resolves to the greeting+menu reply, unmatched input to
// the fallback. conversationID scopes session memory; an empty ID is
// allowed and shares the anonymous slot.
func (e *Engine) Respond(conversationID, raw string) Reply {
	text := Normalize(raw)

	if text == "" {
		return e.greeting()
	}

	if intent := Classify(e.intents, text); intent != nil {
		e.memory.update(conversationID, func(m *Memory) {
			m.LastIntent = intent.Name
			if intent.Greets {
				m.Greeted = true
			}
		})
		return e.ensureText(intent.Respond(text))
	}

	for _, lit := range e.cfg.NudgeLiterals {
		if lit != "" && strings.Contains(text, lit) {
			return e.ensureText(Reply{
				Text:        e.cfg.NudgeReply,
				Suggestions: e.cfg.NudgeChips,
			})
		}
	}

	return e.Fallback()
}

// Fallback returns the next fallback reply in round-robin order with the
// baseline chip set. It is the universal safety net and always non-empty.
func (e *Engine) Fallback() Reply {
	return e.ensureText(Reply{
		Text:        e.fallback.Next(e.cfg.Fallbacks),
		Suggestions: e.cfg.FallbackChips,
	})
}

// Memory returns a copy of the conversation's session memory.
func (e *Engine) Memory(conversationID string) Memory {
	return e.memory.snapshot(conversationID)
}

func (e *Engine) greeting() Reply {
	return e.ensureText(Reply{
		Text:        strings.TrimSpace(PickRandom(e.cfg.Greetings) + e.cfg.GreetingPrompt),
		Suggestions: e.cfg.GreetingChips,
	})
}

// ensureText guarantees Reply.Text is non-empty after trimming; a blank
// reply falls through to the fallback pool.
func (e *Engine) ensureText(r Reply) Reply {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		r.Text = e.fallback.Next(e.cfg.Fallbacks)
		if len(r.Suggestions) == 0 {
			r.Suggestions = e.cfg.FallbackChips
		}
	}
	return r
}

// StartMemorySweeper prunes idle conversation memory on an interval until
// the context is cancelled.
func (e *Engine) StartMemorySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := e.memory.prune(time.Now()); n > 0 {
					slog.Debug("pruned idle conversations", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
