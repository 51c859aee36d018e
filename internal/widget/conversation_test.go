package widget

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmopane/sitechat/internal/bot"
	"github.com/mmopane/sitechat/internal/tenant"
)

// clientFunc adapts a function to the Client interface.
type clientFunc func(ctx context.Context, message string) (bot.Reply, error)

func (f clientFunc) Send(ctx context.Context, message string) (bot.Reply, error) {
	return f(ctx, message)
}

func okClient(text string, chips ...string) Client {
	return clientFunc(func(context.Context, string) (bot.Reply, error) {
		return bot.Reply{Text: text, Suggestions: chips}, nil
	})
}

func failingClient() Client {
	return clientFunc(func(context.Context, string) (bot.Reply, error) {
		return bot.Reply{}, errors.New("connection refused")
	})
}

func testWidgetConfig() tenant.Widget {
	return tenant.Widget{
		Intro:          "Hi 👋 I’m the assistant.",
		HandoffIntro:   "Hi 👋 I’d like a quote:",
		HandoffMessage: "Hi 👋 I need help with a quote.",
		LeadChip:       "Get a quote",
		LeadPrompt:     "Fill this quick form.",
		HandoffChips:   []string{"Talk on WhatsApp"},
		Routes: map[string]string{
			"See Gallery": "/gallery",
			"Contact":     "/contact",
		},
		LeadFields:   []string{"Name", "Phone", "Project type"},
		DefaultChips: []string{"Get a quote", "See Gallery", "Talk on WhatsApp"},
		Fallbacks:    []string{"fallback A", "fallback B"},
	}
}

func newTestConversation(client Client) *Conversation {
	return NewConversation(testWidgetConfig(), "+267 77 807 112", client, nil)
}

func TestConversationOpen(t *testing.T) {
	c := newTestConversation(okClient("reply"))

	if c.Stage() != StageBrowse {
		t.Errorf("initial stage = %q, want browse", c.Stage())
	}

	c.Open()

	if c.Stage() != StageInquire {
		t.Errorf("stage after open = %q, want inquire", c.Stage())
	}
	transcript := c.Transcript()
	if len(transcript) != 1 || transcript[0].Sender != SenderBot {
		t.Fatalf("transcript = %+v, want single bot intro", transcript)
	}
	if transcript[0].Text != "Hi 👋 I’m the assistant." {
		t.Errorf("intro = %q", transcript[0].Text)
	}

	// Reopening must not duplicate the intro.
	c.Open()
	if got := len(c.Transcript()); got != 1 {
		t.Errorf("transcript after reopen has %d turns, want 1", got)
	}
}

func TestConversationSend(t *testing.T) {
	c := newTestConversation(okClient("We build kitchens.", "Get a quote"))
	c.Open()

	c.Send(context.Background(), "what do you build?")

	transcript := c.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("transcript has %d turns, want 3", len(transcript))
	}
	if transcript[1].Sender != SenderUser || transcript[1].Text != "what do you build?" {
		t.Errorf("user turn = %+v", transcript[1])
	}
	if transcript[2].Sender != SenderBot || transcript[2].Text != "We build kitchens." {
		t.Errorf("bot turn = %+v", transcript[2])
	}
	if got := c.Suggestions(); len(got) != 1 || got[0] != "Get a quote" {
		t.Errorf("suggestions = %v", got)
	}
}

func TestConversationSendIgnoresBlank(t *testing.T) {
	c := newTestConversation(okClient("reply"))
	c.Open()

	c.Send(context.Background(), "   ")

	if got := len(c.Transcript()); got != 1 {
		t.Errorf("blank send appended turns: transcript has %d, want 1", got)
	}
}

func TestConversationTransportFailureRotatesFallbacks(t *testing.T) {
	c := newTestConversation(failingClient())
	c.Open()

	c.Send(context.Background(), "first")
	c.Send(context.Background(), "second")
	c.Send(context.Background(), "third")

	transcript := c.Transcript()
	botTexts := []string{}
	for _, turn := range transcript[1:] {
		if turn.Sender == SenderBot {
			botTexts = append(botTexts, turn.Text)
		}
	}
	want := []string{"fallback A", "fallback B", "fallback A"}
	if len(botTexts) != len(want) {
		t.Fatalf("bot turns = %v, want %v", botTexts, want)
	}
	for i, w := range want {
		if botTexts[i] != w {
			t.Errorf("fallback %d = %q, want %q", i, botTexts[i], w)
		}
	}
	if got := c.Suggestions(); len(got) == 0 {
		t.Error("transport failure left no suggestions")
	}
}

func TestConversationEmptyReplyFallsBack(t *testing.T) {
	c := newTestConversation(okClient("   "))
	c.Open()

	c.Send(context.Background(), "anything")

	transcript := c.Transcript()
	if got := transcript[len(transcript)-1].Text; got != "fallback A" {
		t.Errorf("blank server reply produced %q, want client fallback", got)
	}
}

func TestTapChip(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantKind  ActionKind
		wantInURL string
	}{
		{
			name:      "Handoff chip opens deep link",
			label:     "Talk on WhatsApp",
			wantKind:  ActionOpenLink,
			wantInURL: "https://wa.me/26777807112",
		},
		{
			name:      "Route chip navigates",
			label:     "See Gallery",
			wantKind:  ActionNavigate,
			wantInURL: "/gallery",
		},
		{
			name:     "Unreserved chip re-enters classifier",
			label:    "Wall Panels",
			wantKind: ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConversation(okClient("classified reply"))
			c.Open()

			got := c.TapChip(context.Background(), tt.label)
			if got.Kind != tt.wantKind {
				t.Fatalf("action kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantInURL != "" && !strings.Contains(got.URL, tt.wantInURL) {
				t.Errorf("action URL = %q, want contains %q", got.URL, tt.wantInURL)
			}
		})
	}
}

func TestTapChipFreeTextGoesThroughClassifier(t *testing.T) {
	c := newTestConversation(okClient("classified reply"))
	c.Open()

	c.TapChip(context.Background(), "Wall Panels")

	transcript := c.Transcript()
	last := transcript[len(transcript)-1]
	if last.Text != "classified reply" {
		t.Errorf("last turn = %q, want classifier reply", last.Text)
	}
}

func TestLeadFlow(t *testing.T) {
	c := newTestConversation(okClient("reply"))
	c.Open()

	action := c.TapChip(context.Background(), "Get a quote")
	if action.Kind != ActionNone {
		t.Fatalf("lead chip action = %v, want none", action.Kind)
	}
	if c.Stage() != StageLead || !c.LeadOpen() {
		t.Fatalf("stage = %q leadOpen = %v, want lead form open", c.Stage(), c.LeadOpen())
	}

	// Free text while the form is open must not reach the classifier.
	before := len(c.Transcript())
	c.Send(context.Background(), "hello?")
	if got := len(c.Transcript()); got != before {
		t.Error("send while lead form open appended turns")
	}

	c.SetLeadField("Name", "Thato")
	c.SetLeadField("Project type", "TV stand")

	action = c.SubmitLead()
	if action.Kind != ActionOpenLink {
		t.Fatalf("submit action = %v, want open link", action.Kind)
	}
	if c.Stage() != StageHandoff || c.LeadOpen() {
		t.Errorf("stage = %q leadOpen = %v, want handoff closed", c.Stage(), c.LeadOpen())
	}

	if !strings.Contains(action.URL, "https://wa.me/26777807112") {
		t.Errorf("submit URL = %q", action.URL)
	}
	decoded := urlQueryText(t, action.URL)
	for _, want := range []string{"Name: Thato", "Phone: -", "Project type: TV stand"} {
		if !strings.Contains(decoded, want) {
			t.Errorf("handoff message missing %q:\n%s", want, decoded)
		}
	}

	// The lead chip disappears from the post-submit suggestions.
	for _, chip := range c.Suggestions() {
		if chip == "Get a quote" {
			t.Error("lead chip still offered after submission")
		}
	}
}

func TestCancelLead(t *testing.T) {
	c := newTestConversation(okClient("reply"))
	c.Open()
	c.TapChip(context.Background(), "Get a quote")

	c.CancelLead()

	if c.Stage() != StageInquire || c.LeadOpen() {
		t.Errorf("stage = %q leadOpen = %v, want inquire closed", c.Stage(), c.LeadOpen())
	}
	if len(c.Suggestions()) == 0 {
		t.Error("cancel left no suggestions")
	}
}

func TestHandoffChipWorksFromAnyStage(t *testing.T) {
	c := newTestConversation(okClient("reply"))
	c.Open()
	c.TapChip(context.Background(), "Get a quote") // now in lead stage

	action := c.TapChip(context.Background(), "Talk on WhatsApp")
	if action.Kind != ActionOpenLink {
		t.Fatalf("action = %v, want open link", action.Kind)
	}
	if c.Stage() != StageLead {
		t.Errorf("handoff chip changed stage to %q", c.Stage())
	}
}

func TestLeadDraftPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts", "lead.json")
	store := NewFileDraftStore(path)

	c := NewConversation(testWidgetConfig(), "+267 77 807 112", okClient("reply"), store)
	c.Open()
	c.TapChip(context.Background(), "Get a quote")
	c.SetLeadField("Name", "Thato")
	c.SubmitLead()

	// A fresh conversation sees the saved draft.
	c2 := NewConversation(testWidgetConfig(), "+267 77 807 112", okClient("reply"), store)
	c2.Open()
	c2.TapChip(context.Background(), "Get a quote")
	action := c2.SubmitLead()

	if !strings.Contains(urlQueryText(t, action.URL), "Name: Thato") {
		t.Error("draft did not survive into a new conversation")
	}
}

func TestFileDraftStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lead.json")
	store := NewFileDraftStore(path)

	if got, err := store.Load(); err != nil || got != nil {
		t.Errorf("Load missing file = %v, %v; want nil, nil", got, err)
	}

	if err := store.Save(map[string]string{"Name": "Thato"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["Name"] != "Thato" {
		t.Errorf("Load = %v", got)
	}
}

func urlQueryText(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	text := u.Query().Get("text")
	if text == "" {
		t.Fatalf("no text parameter in %q", rawURL)
	}
	return text
}
