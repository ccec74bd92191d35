package mood

import "strings"

// Lexicon holds the word lists the classifier matches against. All entries
// are lowercase and matched as substrings of the lowercased input.
type Lexicon struct {
	BadWords         []string
	NegativeKeywords []string
	PositiveKeywords []string
	NegationMarkers  []string
}

var (
	defaultBadWords = []string{"bad", "stupid", "hate", "dumb", "idiot"}

	defaultNegativeKeywords = []string{
		"sad", "lost", "cry", "angry", "upset", "boring", "bored", "tired",
		"sick", "lonely", "scared", "afraid", "worried", "terrible", "awful",
		"hurt", "broke", "fail", "alone", "sorry",
	}

	defaultPositiveKeywords = []string{
		"love", "happy", "excited", "great", "awesome", "amazing", "enjoy",
		"glad", "wonderful", "best", "nice", "like", "yay", "proud",
	}

	defaultNegationMarkers = []string{
		"not", "never", "don't", "dont", "doesn't", "didn't", "isn't",
		"wasn't", "can't", "won't",
	}
)

// DefaultLexicon returns a fresh copy of the built-in word lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		BadWords:         append([]string(nil), defaultBadWords...),
		NegativeKeywords: append([]string(nil), defaultNegativeKeywords...),
		PositiveKeywords: append([]string(nil), defaultPositiveKeywords...),
		NegationMarkers:  append([]string(nil), defaultNegationMarkers...),
	}
}

// WithBadWords returns a copy of l with extra bad words appended. Blank and
// duplicate entries are dropped.
func (l Lexicon) WithBadWords(words ...string) Lexicon {
	out := l.clone()
	seen := make(map[string]struct{}, len(out.BadWords))
	for _, w := range out.BadWords {
		seen[w] = struct{}{}
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out.BadWords = append(out.BadWords, w)
	}
	return out
}

func (l Lexicon) clone() Lexicon {
	return Lexicon{
		BadWords:         normalize(l.BadWords),
		NegativeKeywords: normalize(l.NegativeKeywords),
		PositiveKeywords: normalize(l.PositiveKeywords),
		NegationMarkers:  normalize(l.NegationMarkers),
	}
}

// normalize lowercases and trims words, dropping blanks and duplicates so
// each keyword counts once.
func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// containsAny reports whether lowerText contains any of words.
func containsAny(lowerText string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowerText, w) {
			return true
		}
	}
	return false
}

// countPresent returns how many distinct entries of words appear in lowerText.
func countPresent(lowerText string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lowerText, w) {
			n++
		}
	}
	return n
}
