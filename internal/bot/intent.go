// Package bot implements the rule-based chat responder: a weighted
// keyword/regex intent classifier, canned-response composer, and
// per-conversation session memory.
package bot

import (
	"fmt"
	"strings"
)

// Reply is one bot turn: the text shown to the user plus the suggestion
// chips offered for the next action.
type Reply struct {
	Text        string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Responder builds the reply for a matched intent. It receives the
// normalized user text, though most responders ignore it.
type Responder func(text string) Reply

// Intent is one named conversational goal with its matching rules and
// response builder. Catalogs are fixed at startup and immutable after.
type Intent struct {
	Name     string
	Weight   int
	Matchers []Matcher
	Respond  Responder

	// Greets marks intents that count as a greeting for session memory.
	Greets bool
}

// ValidateCatalog checks the catalog invariants: unique names, positive
// weights, at least one matcher and a responder per intent.
func ValidateCatalog(intents []Intent) error {
	seen := make(map[string]bool, len(intents))
	for i, in := range intents {
		if strings.TrimSpace(in.Name) == "" {
			return fmt.Errorf("intent %d: empty name", i)
		}
		if seen[in.Name] {
			return fmt.Errorf("intent %q: duplicate name", in.Name)
		}
		seen[in.Name] = true
		if in.Weight <= 0 {
			return fmt.Errorf("intent %q: weight must be positive, got %d", in.Name, in.Weight)
		}
		if len(in.Matchers) == 0 {
			return fmt.Errorf("intent %q: at least one matcher required", in.Name)
		}
		if in.Respond == nil {
			return fmt.Errorf("intent %q: responder required", in.Name)
		}
	}
	return nil
}
