package models

// MatchRequest asks the service to compare one source item against a set of
// candidates. Threshold and max-matches are optional overrides for the
// service defaults.
type MatchRequest struct {
	SourceItem     Item     `json:"source_item"`
	CandidateItems []Item   `json:"candidate_items"`
	MatchThreshold *float64 `json:"match_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxMatches     *int     `json:"max_matches,omitempty" validate:"omitempty,gte=1"`
}

// MatchResult is one candidate that cleared the threshold.
type MatchResult struct {
	ItemID           string             `json:"item_id"`
	SimilarityScore  float64            `json:"similarity_score"`
	Confidence       float64            `json:"confidence"`
	MatchReasons     []string           `json:"match_reasons"`
	DetailedAnalysis map[string]float64 `json:"detailed_analysis"`
}

// MatchResponse is the full ranked answer for a MatchRequest.
type MatchResponse struct {
	SourceItemID string        `json:"source_item_id"`
	Matches      []MatchResult `json:"matches"`
	TotalMatches int           `json:"total_matches"`
}

// SimilarityResult is the outcome of scoring a single item pair.
type SimilarityResult struct {
	OverallScore   float64            `json:"overall_score"`
	Confidence     float64            `json:"confidence"`
	MatchReasons   []string           `json:"match_reasons"`
	DetailedScores map[string]float64 `json:"detailed_scores"`
}
