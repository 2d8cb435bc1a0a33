package matching

import (
	"github.com/Ramsey-B/clover/pkg/extractor"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Sub-score weights. Fixed constants summing to 1.0; the aggregate is
// renormalized over the weights of sub-scores that actually fired.
const (
	textWeight         = 0.35
	fieldWeight        = 0.25
	imageWeight        = 0.20
	categoryWeight     = 0.10
	locationTimeWeight = 0.05
	keywordWeight      = 0.05
)

// Detailed-score keys as exposed to API consumers.
const (
	ScoreTextSimilarity         = "text_similarity"
	ScoreFieldSimilarity        = "field_similarity"
	ScoreImageSimilarity        = "image_similarity"
	ScoreCategoryMatch          = "category_match"
	ScoreLocationTimeSimilarity = "location_time_similarity"
	ScoreKeywordOverlap         = "keyword_overlap"
)

// Match reason strings, one per fired sub-score.
const (
	ReasonHighTextSimilarity     = "High text similarity"
	ReasonModerateTextSimilarity = "Moderate text similarity"
	ReasonFieldMatch             = "Field analysis match"
	ReasonVisualMatch            = "Visual feature match"
	ReasonExactCategory          = "Exact category match"
	ReasonRelatedCategory        = "Related category"
	ReasonLocationTime           = "Location/time proximity"
	ReasonKeywordMatch           = "Keyword/entity match"
)

// Calculator combines the six sub-scores for one item pair into a single
// weighted, confidence-calibrated SimilarityResult. Stateless and safe for
// concurrent use.
type Calculator struct {
	scorer *Scorer
}

// NewCalculator creates a new Calculator
func NewCalculator() *Calculator {
	return &Calculator{scorer: NewScorer()}
}

// Compare evaluates source against candidate. Each sub-score contributes
// only when it clears its activation floor, so weak signals never dilute
// strong ones. A failure anywhere inside the pair yields a zero result
// rather than an error; the caller always gets a well-formed value.
func (c *Calculator) Compare(source, candidate *models.Item) (result models.SimilarityResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.SimilarityResult{
				MatchReasons:   []string{},
				DetailedScores: map[string]float64{},
			}
		}
	}()

	reasons := []string{}
	detailed := map[string]float64{}
	totalScore := 0.0
	weightSum := 0.0

	fire := func(key string, score, weight float64, reason string) {
		totalScore += score * weight
		weightSum += weight
		detailed[key] = score
		reasons = append(reasons, reason)
	}

	if textSim := c.textScore(source, candidate); textSim > 0.4 {
		reason := ReasonModerateTextSimilarity
		if textSim > 0.8 {
			reason = ReasonHighTextSimilarity
		}
		fire(ScoreTextSimilarity, textSim, textWeight, reason)
	}

	if fieldSim := c.fieldScore(source, candidate); fieldSim > 0.5 {
		fire(ScoreFieldSimilarity, fieldSim, fieldWeight, ReasonFieldMatch)
	}

	if imageSim := c.imageScore(source, candidate); imageSim > 0.5 {
		fire(ScoreImageSimilarity, imageSim, imageWeight, ReasonVisualMatch)
	}

	if categorySim := c.scorer.CategoryScore(source.Category, candidate.Category); categorySim > 0 {
		reason := ReasonRelatedCategory
		if categorySim == 1.0 {
			reason = ReasonExactCategory
		}
		fire(ScoreCategoryMatch, categorySim, categoryWeight, reason)
	}

	if locationTimeSim := c.locationTimeScore(source, candidate); locationTimeSim > 0 {
		fire(ScoreLocationTimeSimilarity, locationTimeSim, locationTimeWeight, ReasonLocationTime)
	}

	if keywordSim := c.keywordScore(source, candidate); keywordSim > 0 {
		fire(ScoreKeywordOverlap, keywordSim, keywordWeight, ReasonKeywordMatch)
	}

	overall := 0.0
	if weightSum > 0 {
		overall = totalScore / weightSum
	}

	return models.SimilarityResult{
		OverallScore:   overall,
		Confidence:     calibrateConfidence(overall, detailed),
		MatchReasons:   reasons,
		DetailedScores: detailed,
	}
}

// textScore blends embedding cosine, term-frequency cosine over the
// weighted comparison texts, and a fuzzy ratio over the same texts.
func (c *Calculator) textScore(source, candidate *models.Item) float64 {
	embeddingSim := c.scorer.Cosine(source.AIMetadata.TextEmbedding, candidate.AIMetadata.TextEmbedding)

	textA := extractor.ComparisonText(source)
	textB := extractor.ComparisonText(candidate)

	tfSim := c.scorer.TermFrequencyCosine(textA, textB)
	fuzzySim := c.scorer.Ratio(textA, textB)

	score := embeddingSim*0.5 + tfSim*0.3 + fuzzySim*0.2
	if score < 0 {
		return 0.0
	}
	return score
}

// fieldScore averages the attribute sub-signals available on both items:
// primary color (exact / same family / mismatch), detected object overlap,
// and discounted vision-tag overlap. Absent sub-signals stay out of the mean.
func (c *Calculator) fieldScore(source, candidate *models.Item) float64 {
	imageA := source.AIMetadata.ImageAnalysis
	imageB := candidate.AIMetadata.ImageAnalysis

	var scores []float64

	colorA := extractor.PrimaryColor(imageA)
	colorB := extractor.PrimaryColor(imageB)
	if colorA != "" && colorB != "" {
		switch {
		case colorA == colorB:
			scores = append(scores, 1.0)
		case c.scorer.SimilarColors(colorA, colorB):
			scores = append(scores, 0.7)
		default:
			scores = append(scores, 0.2)
		}
	}

	if imageA != nil && imageB != nil {
		if len(imageA.Objects) > 0 && len(imageB.Objects) > 0 {
			scores = append(scores, c.scorer.Jaccard(imageA.Objects, imageB.Objects))
		}
		if len(imageA.GeminiTags) > 0 && len(imageB.GeminiTags) > 0 {
			scores = append(scores, c.scorer.Jaccard(imageA.GeminiTags, imageB.GeminiTags)*0.8)
		}
	}

	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	return sum / float64(len(scores))
}

func (c *Calculator) imageScore(source, candidate *models.Item) float64 {
	return c.scorer.Cosine(source.AIMetadata.ImageFeatures, candidate.AIMetadata.ImageFeatures)
}

// locationTimeScore combines location proximity (0.7) with temporal
// decay (0.3).
func (c *Calculator) locationTimeScore(source, candidate *models.Item) float64 {
	locationSim := c.scorer.LocationScore(source.Location, candidate.Location)
	timeSim := c.scorer.TemporalDecay(source.DateLostFound.Time(), candidate.DateLostFound.Time())
	return locationSim*0.7 + timeSim*0.3
}

// keywordScore compares the case-folded union of extracted keywords, user
// tags and vision tags with fuzzy credit for near matches.
func (c *Calculator) keywordScore(source, candidate *models.Item) float64 {
	return c.scorer.FuzzyJaccard(allKeywords(source), allKeywords(candidate))
}

func allKeywords(item *models.Item) []string {
	var keywords []string
	if analysis := item.AIMetadata.TextAnalysis; analysis != nil {
		keywords = append(keywords, analysis.Keywords...)
	}
	keywords = append(keywords, item.Tags...)
	if analysis := item.AIMetadata.ImageAnalysis; analysis != nil {
		keywords = append(keywords, analysis.GeminiTags...)
	}
	return keywords
}

// calibrateConfidence derives confidence from the overall score. Multiple
// agreeing factors boost it, a lone weak factor cuts it, and standout text,
// field or exact-category signals add further multipliers. Clamped to [0,1].
func calibrateConfidence(overall float64, detailed map[string]float64) float64 {
	confidence := overall

	matchingFactors := 0
	for _, score := range detailed {
		if score > 0.5 {
			matchingFactors++
		}
	}

	switch {
	case matchingFactors >= 5:
		confidence *= 1.3
	case matchingFactors >= 4:
		confidence *= 1.2
	case matchingFactors >= 3:
		confidence *= 1.1
	case matchingFactors >= 2:
		confidence *= 1.05
	default:
		confidence *= 0.7
	}

	if detailed[ScoreTextSimilarity] > 0.9 {
		confidence *= 1.15
	}
	if detailed[ScoreFieldSimilarity] > 0.8 {
		confidence *= 1.1
	}
	if detailed[ScoreCategoryMatch] == 1.0 {
		confidence *= 1.05
	}

	if confidence > 1 {
		return 1.0
	}
	if confidence < 0 {
		return 0.0
	}
	return confidence
}
