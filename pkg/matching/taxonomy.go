package matching

import "strings"

// categoryGroup is one named bucket of related categories. Members of a
// primary group score 0.9 against each other, non-primary members 0.7.
type categoryGroup struct {
	name    string
	primary bool
	members []string
}

// Declaration order matters: the first group containing both categories wins.
var categoryGroups = []categoryGroup{
	{name: "tech", members: []string{"electronics", "gadgets", "devices", "phone", "mobile", "chargers", "cables", "accessories", "headphones"}},
	{name: "personal", members: []string{"bags & wallets", "jewelry & accessories", "wallet", "clothing", "personal items"}},
	{name: "academic", members: []string{"books & stationery", "office supplies", "books"}},
	{name: "sports", members: []string{"sports equipment", "fitness"}},
	{name: "keys", primary: true, members: []string{"keys", "key chains"}},
	{name: "documents", primary: true, members: []string{"documents & cards", "certificates", "id card"}},
}

var colorGroups = map[string][]string{
	"dark":    {"black", "dark", "navy", "maroon", "brown"},
	"light":   {"white", "light", "cream", "beige", "silver"},
	"warm":    {"red", "orange", "yellow", "pink"},
	"cool":    {"blue", "green", "purple", "cyan"},
	"neutral": {"brown", "gray", "grey", "silver", "tan"},
}

// Synonym buckets for campus locations. Matching is substring containment:
// "main library entrance" and "lib" both hit the library bucket.
var locationSynonyms = []struct {
	name     string
	synonyms []string
}{
	{name: "library", synonyms: []string{"lib", "central library", "main library"}},
	{name: "cafeteria", synonyms: []string{"cafe", "canteen", "food court", "mess"}},
	{name: "gate", synonyms: []string{"entrance", "exit", "main gate", "front gate"}},
	{name: "hostel", synonyms: []string{"dorm", "dormitory", "residence"}},
	{name: "academic", synonyms: []string{"academic block", "class", "classroom", "lecture hall"}},
	{name: "sports", synonyms: []string{"sports complex", "gym", "ground", "field"}},
}

var locationKeywords = []string{"library", "cafeteria", "gate", "building", "hostel", "campus", "block"}

// CategoryScore scores two category labels against the taxonomy: 1.0 on
// exact match, 0.9 when both fall in the same primary group, 0.7 for the
// same non-primary group, otherwise the fuzzy ratio when it clears 0.6.
func (s *Scorer) CategoryScore(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	for _, group := range categoryGroups {
		if containsString(group.members, a) && containsString(group.members, b) {
			if group.primary {
				return 0.9
			}
			return 0.7
		}
	}

	fuzzy := s.Ratio(a, b)
	if fuzzy > 0.6 {
		return fuzzy
	}
	return 0.0
}

// SimilarColors reports whether two case-folded color names fall in the same
// color family (dark, light, warm, cool, neutral).
func (s *Scorer) SimilarColors(a, b string) bool {
	for _, colors := range colorGroups {
		if containsString(colors, a) && containsString(colors, b) {
			return true
		}
	}
	return false
}

// LocationScore scores two free-text location strings: 1.0 exact, 0.8 when
// both hit the same synonym bucket, else partial ratio with a 0.7 boost when
// both mention a shared campus keyword. Scores at or below 0.5 are dropped
// as noise.
func (s *Scorer) LocationScore(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	for _, bucket := range locationSynonyms {
		if containsAnySubstring(a, bucket.synonyms) && containsAnySubstring(b, bucket.synonyms) {
			return 0.8
		}
	}

	score := s.PartialRatio(a, b)
	for _, keyword := range locationKeywords {
		if strings.Contains(a, keyword) && strings.Contains(b, keyword) {
			if score < 0.7 {
				score = 0.7
			}
			break
		}
	}

	if score > 0.5 {
		return score
	}
	return 0.0
}

func containsString(elems []string, target string) bool {
	for _, elem := range elems {
		if elem == target {
			return true
		}
	}
	return false
}

func containsAnySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
