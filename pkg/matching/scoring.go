package matching

import (
	"math"
	"strings"
	"time"
)

// Scorer provides the similarity primitives used by the calculator. All
// methods are total: malformed or missing input scores 0, never panics.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Cosine calculates the cosine similarity between two vectors.
// Returns 0 on length mismatch or empty input; negative similarity is
// clamped to 0 since opposed vectors carry no match signal here.
func (s *Scorer) Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}

// Ratio calculates a case-insensitive Levenshtein similarity ratio
// between 0.0 (no similarity) and 1.0 (exact match). Distances are
// measured in runes so accented tags do not over-count edits.
func (s *Scorer) Ratio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	distance := levenshteinRunes(ra, rb)
	maxLen := max(len(ra), len(rb))
	return 1.0 - float64(distance)/float64(maxLen)
}

// PartialRatio calculates the best-substring variant of Ratio: the shorter
// string is compared against every rune window of its own length in the
// longer string and the best ratio wins. Useful where one location string is
// contained in the other ("lib" vs "central library").
func (s *Scorer) PartialRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		distance := levenshteinRunes(shorter, window)
		ratio := 1.0 - float64(distance)/float64(len(shorter))
		if ratio > best {
			best = ratio
		}
		if best == 1.0 {
			break
		}
	}

	return best
}

// LevenshteinDistance calculates the edit distance between two strings,
// counted in runes.
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	return levenshteinRunes([]rune(a), []rune(b))
}

func levenshteinRunes(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two-row dynamic programming
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// Jaccard calculates plain set overlap: |intersection| / |union|, over
// case-folded elements. Returns 0 when both sets are empty.
func (s *Scorer) Jaccard(a, b []string) float64 {
	setA := foldSet(a)
	setB := foldSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for elem := range setA {
		if _, ok := setB[elem]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// FuzzyJaccard calculates Jaccard overlap with partial credit for near
// matches: each cross-set pair among the unmatched remainders whose Ratio
// exceeds 0.80 adds 0.8 to the intersection count. The result is capped at
// 1.0 since fuzzy credit can outgrow the union.
func (s *Scorer) FuzzyJaccard(a, b []string) float64 {
	setA := foldSet(a)
	setB := foldSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0.0
	}

	exact := 0
	remainingA := make([]string, 0, len(setA))
	remainingB := make([]string, 0, len(setB))

	for elem := range setA {
		if _, ok := setB[elem]; ok {
			exact++
		} else {
			remainingA = append(remainingA, elem)
		}
	}
	for elem := range setB {
		if _, ok := setA[elem]; !ok {
			remainingB = append(remainingB, elem)
		}
	}

	fuzzy := 0.0
	for _, ka := range remainingA {
		for _, kb := range remainingB {
			if s.Ratio(ka, kb) > 0.80 {
				fuzzy += 0.8
			}
		}
	}

	union := len(setA) + len(setB) - exact
	if union == 0 {
		return 0.0
	}

	score := (float64(exact) + fuzzy) / float64(union)
	if score > 1 {
		return 1.0
	}
	return score
}

// TemporalDecay maps the absolute hour difference between two timestamps
// onto a fixed step curve. Reports within a couple of hours score 1.0 and
// anything more than 30 days apart scores 0. Missing timestamps score 0.
func (s *Scorer) TemporalDecay(a, b *time.Time) float64 {
	if a == nil || b == nil {
		return 0.0
	}

	hours := math.Abs(a.Sub(*b).Hours())
	switch {
	case hours <= 2:
		return 1.0
	case hours <= 12:
		return 0.9
	case hours <= 24:
		return 0.8
	case hours <= 72:
		return 0.6
	case hours <= 168:
		return 0.4
	case hours <= 720:
		return 0.2
	default:
		return 0.0
	}
}

// TermFrequencyCosine calculates cosine similarity over term-frequency
// vectors of the two texts' whitespace tokens, case-folded. A deterministic
// bag-of-words comparison for the weighted comparison texts.
func (s *Scorer) TermFrequencyCosine(textA, textB string) float64 {
	freqA := termFrequencies(textA)
	freqB := termFrequencies(textB)
	if len(freqA) == 0 || len(freqB) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for term, countA := range freqA {
		if countB, ok := freqB[term]; ok {
			dot += float64(countA) * float64(countB)
		}
		normA += float64(countA) * float64(countA)
	}
	for _, countB := range freqB {
		normB += float64(countB) * float64(countB)
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		return 1.0
	}
	return sim
}

func termFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		freq[token]++
	}
	return freq
}

func foldSet(elems []string) map[string]struct{} {
	set := make(map[string]struct{}, len(elems))
	for _, elem := range elems {
		folded := strings.ToLower(strings.TrimSpace(elem))
		if folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}
