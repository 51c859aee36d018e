package bot

import "strings"

// ResponseSpec is the static per-intent response configuration: a pool of
// interchangeable phrase variants, an optional fixed line appended after
// the chosen variant, and the suggestion chips offered with the reply.
// Business data (contact number, site paths) is interpolated into the
// phrases once at load time, so composition here is pure selection.
type ResponseSpec struct {
	Phrases     []string
	Epilogue    string
	Suggestions []string
}

// NewResponder builds a Responder that picks one phrase variant at random
// per call. The variant choice is the only nondeterminism; the chip list
// is fixed.
func NewResponder(spec ResponseSpec) Responder {
	return func(string) Reply {
		text := PickRandom(spec.Phrases)
		if spec.Epilogue != "" {
			text += spec.Epilogue
		}
		return Reply{
			Text:        strings.TrimSpace(text),
			Suggestions: spec.Suggestions,
		}
	}
}
