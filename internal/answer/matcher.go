// Package answer turns a free-text guess and a canonical answer key into a
// correctness verdict and a display string. Matching is exact set
// membership over the key and its synonyms; substring containment is
// deliberately not used because it produces false positives for short keys.
package answer

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// SynonymSet maps an answer key to an ordered list of acceptable strings.
// By convention the second entry (index 1), when present, is the preferred
// display form; the first entry usually repeats the key.
type SynonymSet map[string][]string

// Result carries the full outcome of a guess check. NearMiss is advisory
// feedback for the presentation layer and never affects Correct.
type Result struct {
	Correct       bool   `json:"correct"`
	DisplayAnswer string `json:"display_answer"`
	NearMiss      bool   `json:"near_miss"`
}

// nearMissDistance is the maximum Levenshtein distance at which a wrong
// guess still counts as "close" for hint purposes.
const nearMissDistance = 2

// Normalize lowercases and trims a string for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check reports whether guess matches key or any of its synonyms, and the
// preferred display form of the answer. Both sides are normalized before
// comparison. Absent synonyms and empty guesses simply fail the membership
// test; neither is an error.
func Check(key string, synonyms SynonymSet, guess string) (bool, string) {
	res := CheckDetailed(key, synonyms, guess)
	return res.Correct, res.DisplayAnswer
}

// CheckDetailed is Check plus near-miss feedback: a wrong guess within a
// small edit distance of any accepted string is flagged as close.
func CheckDetailed(key string, synonyms SynonymSet, guess string) Result {
	normKey := Normalize(key)
	normGuess := Normalize(guess)

	accepted := []string{normKey}
	var alternates []string
	if synonyms != nil {
		alternates = synonyms[normKey]
	}
	for _, alt := range alternates {
		if n := Normalize(alt); n != "" {
			accepted = append(accepted, n)
		}
	}

	res := Result{DisplayAnswer: displayForm(normKey, alternates)}
	for _, candidate := range accepted {
		if normGuess == candidate {
			res.Correct = true
			return res
		}
	}

	if normGuess != "" {
		for _, candidate := range accepted {
			if levenshtein.Distance(normGuess, candidate) <= nearMissDistance {
				res.NearMiss = true
				break
			}
		}
	}
	return res
}

// displayForm prefers the synonym list's index-1 entry, falling back to the
// key itself.
func displayForm(normKey string, alternates []string) string {
	if len(alternates) >= 2 {
		return alternates[1]
	}
	return normKey
}
