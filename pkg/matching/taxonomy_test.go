package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_CategoryScore(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{name: "exact match", a: "electronics", b: "electronics", expected: 1.0},
		{name: "exact match case insensitive", a: "Electronics", b: "electronics", expected: 1.0},
		{name: "same tech group", a: "electronics", b: "chargers", expected: 0.7},
		{name: "phone and headphones", a: "phone", b: "headphones", expected: 0.7},
		{name: "same primary group keys", a: "keys", b: "key chains", expected: 0.9},
		{name: "same primary group documents", a: "certificates", b: "id card", expected: 0.9},
		{name: "same personal group", a: "wallet", b: "clothing", expected: 0.7},
		{name: "unrelated categories", a: "electronics", b: "clothing", expected: 0.0},
		{name: "empty category", a: "", b: "electronics", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.CategoryScore(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScorer_CategoryScore_FuzzyFallback(t *testing.T) {
	scorer := NewScorer()

	// Not in any group together, but close enough as strings: kept when the
	// ratio clears 0.6.
	score := scorer.CategoryScore("stationery", "stationary")
	assert.Greater(t, score, 0.6)
	assert.Less(t, score, 1.0)

	// Distant strings fall through to zero.
	assert.Equal(t, 0.0, scorer.CategoryScore("fitness", "documents & cards"))
}

func TestScorer_SimilarColors(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "dark family", a: "black", b: "navy", expected: true},
		{name: "light family", a: "white", b: "cream", expected: true},
		{name: "warm family", a: "red", b: "orange", expected: true},
		{name: "cool family", a: "blue", b: "green", expected: true},
		{name: "gray spellings", a: "gray", b: "grey", expected: true},
		{name: "cross family", a: "black", b: "white", expected: false},
		{name: "unknown color", a: "chartreuse", b: "black", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.SimilarColors(tt.a, tt.b))
		})
	}
}

func TestScorer_LocationScore(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{name: "exact match", a: "library", b: "library", expected: 1.0},
		{name: "exact match case insensitive", a: "Library", b: "library", expected: 1.0},
		{name: "library synonym bucket", a: "central library", b: "lib", expected: 0.8},
		{name: "cafeteria synonym bucket", a: "food court", b: "canteen", expected: 0.8},
		{name: "gate synonym bucket", a: "main gate", b: "entrance", expected: 0.8},
		{name: "hostel synonym bucket", a: "dorm", b: "residence", expected: 0.8},
		{name: "missing location", a: "", b: "library", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.LocationScore(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScorer_LocationScore_KeywordBoost(t *testing.T) {
	scorer := NewScorer()

	// Shared campus keyword lifts otherwise weak strings to at least 0.7.
	score := scorer.LocationScore("science building east", "west wing building")
	assert.GreaterOrEqual(t, score, 0.7)

	// Nothing shared: below the 0.5 cutoff, dropped to zero.
	assert.Equal(t, 0.0, scorer.LocationScore("north plaza", "river dock"))
}
