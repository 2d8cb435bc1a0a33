package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

// fullItem builds an item with every signal populated, suitable for
// identical-pair comparisons.
func fullItem(id string) models.Item {
	item := models.Item{
		RawID:       models.FlexID(id),
		Title:       "Black iPhone 13",
		Description: "black iphone with cracked screen protector",
		Category:    "electronics",
		Location:    "library",
		Tags:        []string{"phone", "apple"},
		AIMetadata: models.AIMetadata{
			TextEmbedding: []float64{1, 0, 0},
			ImageFeatures: []float64{0.5, 0.3, 0.2},
			TextAnalysis: &models.TextAnalysis{
				Keywords: []string{"iphone", "black", "cracked"},
				Category: "electronics",
			},
			ImageAnalysis: &models.ImageAnalysis{
				Objects:           []string{"phone", "case"},
				GeminiTags:        []string{"smartphone", "mobile"},
				GeminiDescription: "a black smartphone on a table",
				Colors: []models.ColorShare{
					{Color: "black", Percentage: 85},
					{Color: "silver", Percentage: 15},
				},
			},
		},
	}
	item.DateLostFound.Set(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	return item
}

func TestCalculator_Compare_IdenticalItems(t *testing.T) {
	calc := NewCalculator()

	source := fullItem("item-a")
	candidate := fullItem("item-b")

	result := calc.Compare(&source, &candidate)

	assert.InDelta(t, 1.0, result.Confidence, 1e-9,
		"identical items should calibrate to full confidence")
	assert.GreaterOrEqual(t, result.OverallScore, 0.9)

	// All six categories fire, each with its reason.
	require.Len(t, result.MatchReasons, 6)
	assert.Contains(t, result.MatchReasons, ReasonHighTextSimilarity)
	assert.Contains(t, result.MatchReasons, ReasonFieldMatch)
	assert.Contains(t, result.MatchReasons, ReasonVisualMatch)
	assert.Contains(t, result.MatchReasons, ReasonExactCategory)
	assert.Contains(t, result.MatchReasons, ReasonLocationTime)
	assert.Contains(t, result.MatchReasons, ReasonKeywordMatch)

	require.Len(t, result.DetailedScores, 6)
	for name, score := range result.DetailedScores {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 1.0, name)
	}
}

func TestCalculator_Compare_ReasonOrderFollowsEvaluation(t *testing.T) {
	calc := NewCalculator()

	source := fullItem("item-a")
	candidate := fullItem("item-b")

	result := calc.Compare(&source, &candidate)

	require.Len(t, result.MatchReasons, 6)
	assert.Equal(t, []string{
		ReasonHighTextSimilarity,
		ReasonFieldMatch,
		ReasonVisualMatch,
		ReasonExactCategory,
		ReasonLocationTime,
		ReasonKeywordMatch,
	}, result.MatchReasons)
}

func TestCalculator_Compare_RelatedCategory(t *testing.T) {
	calc := NewCalculator()

	source := models.Item{RawID: "a", Category: "electronics"}
	candidate := models.Item{RawID: "b", Category: "chargers"}

	result := calc.Compare(&source, &candidate)

	require.Contains(t, result.DetailedScores, ScoreCategoryMatch)
	assert.InDelta(t, 0.7, result.DetailedScores[ScoreCategoryMatch], 1e-9)
	assert.Contains(t, result.MatchReasons, ReasonRelatedCategory)
	assert.NotContains(t, result.MatchReasons, ReasonExactCategory)
}

func TestCalculator_Compare_MismatchedImageVectorLengths(t *testing.T) {
	calc := NewCalculator()

	source := fullItem("item-a")
	candidate := fullItem("item-b")
	candidate.AIMetadata.ImageFeatures = []float64{0.5, 0.3} // shorter than source's

	result := calc.Compare(&source, &candidate)

	// Visual sub-score silently drops out; everything else still fires.
	assert.NotContains(t, result.DetailedScores, ScoreImageSimilarity)
	assert.NotContains(t, result.MatchReasons, ReasonVisualMatch)
	assert.Contains(t, result.DetailedScores, ScoreTextSimilarity)
	assert.Contains(t, result.DetailedScores, ScoreFieldSimilarity)
	assert.Contains(t, result.DetailedScores, ScoreCategoryMatch)
	assert.Contains(t, result.DetailedScores, ScoreLocationTimeSimilarity)
	assert.Contains(t, result.DetailedScores, ScoreKeywordOverlap)
}

func TestCalculator_Compare_NoSignals(t *testing.T) {
	calc := NewCalculator()

	source := models.Item{RawID: "a"}
	candidate := models.Item{RawID: "b"}

	result := calc.Compare(&source, &candidate)

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.MatchReasons)
	assert.Empty(t, result.DetailedScores)
}

func TestCalculator_Compare_RenormalizesOverFiredWeights(t *testing.T) {
	calc := NewCalculator()

	// Only category fires: same primary group scores 0.9, and with
	// renormalization the overall score is 0.9, not 0.09.
	source := models.Item{RawID: "a", Category: "keys"}
	candidate := models.Item{RawID: "b", Category: "key chains"}

	result := calc.Compare(&source, &candidate)

	require.Len(t, result.DetailedScores, 1)
	assert.InDelta(t, 0.9, result.OverallScore, 1e-9)

	// A single matching factor takes the lone-signal penalty: 0.9 × 0.7.
	assert.InDelta(t, 0.63, result.Confidence, 1e-9)
}

func TestCalculator_Compare_WeakPairScoresNearZero(t *testing.T) {
	calc := NewCalculator()

	source := models.Item{
		RawID:       "a",
		Title:       "Red Umbrella",
		Description: "small folding umbrella",
		Category:    "electronics",
		Location:    "north plaza",
		Tags:        []string{"umbrella"},
	}
	source.DateLostFound.Set(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	candidate := models.Item{
		RawID:       "b",
		Title:       "Chemistry Textbook",
		Description: "hardcover organic chemistry",
		Category:    "clothing",
		Location:    "river dock",
		Tags:        []string{"textbook"},
	}
	candidate.DateLostFound.Set(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	result := calc.Compare(&source, &candidate)

	// Temporal decay is the only live signal (30 days ≈ 0.2, diluted by the
	// 0.3 time share), so confidence lands near zero after the lone-factor
	// penalty.
	assert.Less(t, result.Confidence, 0.1)
	assert.NotContains(t, result.DetailedScores, ScoreTextSimilarity)
	assert.NotContains(t, result.DetailedScores, ScoreCategoryMatch)
	assert.NotContains(t, result.DetailedScores, ScoreKeywordOverlap)
}

func TestCalculator_Compare_ScoreBounds(t *testing.T) {
	calc := NewCalculator()

	pairs := []struct {
		name   string
		source models.Item
		cand   models.Item
	}{
		{name: "identical", source: fullItem("a"), cand: fullItem("b")},
		{name: "empty", source: models.Item{}, cand: models.Item{}},
		{name: "full vs empty", source: fullItem("a"), cand: models.Item{}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Compare(&tt.source, &tt.cand)

			assert.GreaterOrEqual(t, result.OverallScore, 0.0)
			assert.LessOrEqual(t, result.OverallScore, 1.0)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
			for name, score := range result.DetailedScores {
				assert.GreaterOrEqual(t, score, 0.0, name)
				assert.LessOrEqual(t, score, 1.0, name)
			}
		})
	}
}
