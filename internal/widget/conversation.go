// Package widget implements the chat widget's conversation contract: the
// browse→inquire→lead→handoff stage machine, suggestion-chip dispatch,
// the transcript, and lead capture with WhatsApp handoff. The server
// never sees any of this state; it lives entirely on the consumer side.
package widget

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmopane/sitechat/internal/bot"
	"github.com/mmopane/sitechat/internal/tenant"
	"github.com/mmopane/sitechat/internal/wa"
)

// Stage is the conversation stage. Forward-only in normal flow; the only
// regression is lead→inquire when the user cancels the lead form.
type Stage string

const (
	StageBrowse  Stage = "browse"
	StageInquire Stage = "inquire"
	StageLead    Stage = "lead"
	StageHandoff Stage = "handoff"
)

// Turn is one transcript entry.
type Turn struct {
	Sender string `json:"sender"` // "user" or "bot"
	Text   string `json:"text"`
}

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Client sends one user message to the classification endpoint.
type Client interface {
	Send(ctx context.Context, message string) (bot.Reply, error)
}

// ActionKind categorizes the side effect a chip tap asks the host page
// to perform.
type ActionKind int

const (
	// ActionNone means the conversation handled the tap internally.
	ActionNone ActionKind = iota
	// ActionNavigate means the host should navigate to URL (a site path).
	ActionNavigate
	// ActionOpenLink means the host should open URL externally (deep link).
	ActionOpenLink
)

// Action is the effect returned by a chip tap or lead submission.
type Action struct {
	Kind ActionKind
	URL  string
}

// Conversation is one user's chat session with the widget. Not safe for
// concurrent use; the widget runs single-threaded.
type Conversation struct {
	cfg      tenant.Widget
	whatsapp string
	client   Client
	drafts   DraftStore

	stage       Stage
	transcript  []Turn
	suggestions []string
	lead        map[string]string
	leadOpen    bool
	fallbackIdx int
}

// NewConversation creates a conversation for one tenant. drafts may be
// nil, in which case lead drafts are not persisted.
func NewConversation(cfg tenant.Widget, whatsapp string, client Client, drafts DraftStore) *Conversation {
	c := &Conversation{
		cfg:      cfg,
		whatsapp: whatsapp,
		client:   client,
		drafts:   drafts,
		stage:    StageBrowse,
		lead:     make(map[string]string),
	}
	if drafts != nil {
		if saved, err := drafts.Load(); err != nil {
			slog.Debug("failed to load lead draft", "error", err)
		} else {
			for k, v := range saved {
				c.lead[k] = v
			}
		}
	}
	return c
}

// Open seeds the greeting on first open and moves browse→inquire.
func (c *Conversation) Open() {
	if len(c.transcript) == 0 {
		c.pushBot(c.cfg.Intro, c.cfg.DefaultChips)
	}
	if c.stage == StageBrowse {
		c.stage = StageInquire
	}
}

// Send submits free text to the classifier and appends both turns. A
// failed or empty round trip deterministically resolves to the rotated
// client-side fallback; the chat never hangs on an error.
func (c *Conversation) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" || c.leadOpen {
		// The classifier is not invoked while the lead form is open.
		return
	}

	c.transcript = append(c.transcript, Turn{Sender: SenderUser, Text: text})

	reply, err := c.client.Send(ctx, text)
	if err != nil || strings.TrimSpace(reply.Text) == "" {
		if err != nil {
			slog.Debug("classification round trip failed", "error", err)
		}
		c.pushBot(c.nextFallback(), c.cfg.DefaultChips)
	} else {
		sugg := reply.Suggestions
		if len(sugg) == 0 {
			sugg = c.cfg.DefaultChips
		}
		c.pushBot(reply.Text, sugg)
	}

	if c.stage == StageBrowse {
		c.stage = StageInquire
	}
}

// TapChip dispatches a suggestion-chip tap. Reserved handoff chips open
// the WhatsApp deep link from any stage without changing it; the lead
// chip opens the lead form; navigation chips resolve to site paths; any
// other label re-enters the classifier as if typed.
func (c *Conversation) TapChip(ctx context.Context, label string) Action {
	for _, h := range c.cfg.HandoffChips {
		if label == h {
			return Action{Kind: ActionOpenLink, URL: wa.Link(c.whatsapp, c.cfg.HandoffMessage)}
		}
	}

	if label == c.cfg.LeadChip {
		c.leadOpen = true
		c.stage = StageLead
		c.pushBot(c.cfg.LeadPrompt, nil)
		return Action{Kind: ActionNone}
	}

	if path, ok := c.cfg.Routes[label]; ok {
		return Action{Kind: ActionNavigate, URL: path}
	}

	c.Send(ctx, label)
	return Action{Kind: ActionNone}
}

// SetLeadField records one lead form field by its configured label.
func (c *Conversation) SetLeadField(label, value string) {
	c.lead[label] = strings.TrimSpace(value)
}

// SubmitLead serializes the lead plus a transcript excerpt into a
// WhatsApp deep link and moves lead→handoff. Any combination of filled
// and empty fields is accepted; empty fields render as a placeholder.
func (c *Conversation) SubmitLead() Action {
	fields := make([]Field, 0, len(c.cfg.LeadFields))
	for _, label := range c.cfg.LeadFields {
		fields = append(fields, Field{Label: label, Value: c.lead[label]})
	}

	if c.drafts != nil {
		if err := c.drafts.Save(c.lead); err != nil {
			slog.Debug("failed to save lead draft", "error", err)
		}
	}

	msg := HandoffMessage(c.cfg.HandoffIntro, fields, c.transcript)

	c.leadOpen = false
	c.stage = StageHandoff
	c.pushBot("Opening WhatsApp now ✅", withoutLabel(c.cfg.DefaultChips, c.cfg.LeadChip))

	return Action{Kind: ActionOpenLink, URL: wa.Link(c.whatsapp, msg)}
}

// CancelLead dismisses the lead form and returns to inquire.
func (c *Conversation) CancelLead() {
	c.leadOpen = false
	c.stage = StageInquire
	c.suggestions = c.cfg.DefaultChips
}

// Stage returns the current conversation stage.
func (c *Conversation) Stage() Stage { return c.stage }

// LeadOpen reports whether the lead form is currently open.
func (c *Conversation) LeadOpen() bool { return c.leadOpen }

// Transcript returns the full ordered transcript.
func (c *Conversation) Transcript() []Turn { return c.transcript }

// Suggestions returns the chips currently offered.
func (c *Conversation) Suggestions() []string { return c.suggestions }

func (c *Conversation) pushBot(text string, suggestions []string) {
	c.transcript = append(c.transcript, Turn{Sender: SenderBot, Text: clampText(text, maxBubbleChars)})
	c.suggestions = suggestions
}

func (c *Conversation) nextFallback() string {
	pool := c.cfg.Fallbacks
	if len(pool) == 0 {
		pool = []string{c.cfg.HandoffMessage}
	}
	s := pool[c.fallbackIdx%len(pool)]
	c.fallbackIdx++
	return s
}

func withoutLabel(chips []string, label string) []string {
	out := make([]string, 0, len(chips))
	for _, s := range chips {
		if s != label {
			out = append(out, s)
		}
	}
	return out
}
