package bot

import "sort"

// Classify scores every intent in the catalog against the normalized text
// and returns the highest-scoring one, or nil when nothing matched.
//
// Each matcher that hits counts once, independently (no dedup across
// matchers); score = hits × weight. The sort is stable, so intents with
// equal scores keep catalog order and the first-registered intent wins
// ties. A nil result strictly means "use the fallback" — an intent is
// never selected with score zero.
func Classify(catalog []Intent, text string) *Intent {
	if len(catalog) == 0 || text == "" {
		return nil
	}

	type scored struct {
		intent *Intent
		score  int
	}

	scores := make([]scored, 0, len(catalog))
	for i := range catalog {
		intent := &catalog[i]
		hits := 0
		for _, m := range intent.Matchers {
			if m.Hits(text) {
				hits++
			}
		}
		scores = append(scores, scored{intent: intent, score: hits * intent.Weight})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if scores[0].score > 0 {
		return scores[0].intent
	}
	return nil
}
