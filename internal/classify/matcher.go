package classify

import (
	"math"
	"strings"
)

// MatchResult is the outcome of scoring one document's text against the
// catalogue. Matched is false when no class matched a single term; the
// remaining fields are then zero values.
type MatchResult struct {
	Matched    bool
	Class      string
	Confidence float64
	Terms      []string
}

// Match scores the text against each catalogue class and returns the best
// one. Matching is case-insensitive substring containment over the whole
// document text. Confidence is the matched fraction of the class's terms,
// rounded to two decimals. Only a strictly higher confidence replaces the
// current best, so on ties the class listed first in the catalogue wins,
// and a class with no matched terms never wins.
func Match(text string, catalogue *TermCatalogue) MatchResult {
	lowered := strings.ToLower(text)

	var best MatchResult
	for _, class := range catalogue.Classes {
		if len(class.Terms) == 0 {
			continue
		}

		var matched []string
		for _, term := range class.Terms {
			if strings.Contains(lowered, strings.ToLower(term)) {
				matched = append(matched, term)
			}
		}
		if len(matched) == 0 {
			continue
		}

		confidence := round2(float64(len(matched)) / float64(len(class.Terms)))
		if confidence > best.Confidence {
			best = MatchResult{
				Matched:    true,
				Class:      class.Name,
				Confidence: confidence,
				Terms:      matched,
			}
		}
	}
	return best
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
