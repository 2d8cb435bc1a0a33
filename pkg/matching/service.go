// Package matching implements the multi-factor similarity engine: six
// weighted sub-scores per item pair, renormalized over the signals that
// fired, with calibrated confidence and human-readable match reasons.
package matching

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Config contains configuration for the matching service.
type Config struct {
	ConfidenceThreshold float64 // Minimum confidence to keep a match (default: 0.7)
	MaxMatches          int     // Maximum matches to return per request (default: 10)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.7,
		MaxMatches:          10,
	}
}

// Service ranks candidate items against a source item. Stateless: every
// request carries its own candidate list, so a call never touches shared
// mutable state.
type Service struct {
	log        ectologger.Logger
	calculator *Calculator
	cfg        Config
}

// NewService creates a new matching service.
func NewService(log ectologger.Logger, cfg Config) *Service {
	return &Service{
		log:        log,
		calculator: NewCalculator(),
		cfg:        cfg,
	}
}

// FindMatches scores every candidate against the source item, keeps the
// ones whose confidence clears the threshold, and returns them sorted by
// confidence descending, ties broken by input order. Always returns a
// well-formed response; a failed evaluation yields an empty match list,
// never an error to the caller.
func (s *Service) FindMatches(ctx context.Context, req *models.MatchRequest) *models.MatchResponse {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.FindMatches")
	defer span.End()

	sourceID := req.SourceItem.ID()

	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"source_item_id":  sourceID,
		"candidate_count": len(req.CandidateItems),
	})

	threshold := s.cfg.ConfidenceThreshold
	if req.MatchThreshold != nil {
		threshold = *req.MatchThreshold
	}

	maxMatches := s.cfg.MaxMatches
	if req.MaxMatches != nil {
		maxMatches = *req.MaxMatches
	}

	matches := s.evaluateCandidates(ctx, &req.SourceItem, req.CandidateItems, threshold)

	// Stable sort keeps input order for equal confidences, so reruns on the
	// same request produce the same ranking.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}

	log.WithFields(map[string]any{
		"match_count": len(matches),
		"threshold":   threshold,
	}).Debug("Found matches")

	return &models.MatchResponse{
		SourceItemID: sourceID,
		Matches:      matches,
		TotalMatches: len(matches),
	}
}

// evaluateCandidates scores each candidate sequentially. A panic anywhere
// in the batch is logged and reported as zero matches rather than an error.
func (s *Service) evaluateCandidates(ctx context.Context, source *models.Item, candidates []models.Item, threshold float64) (matches []models.MatchResult) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.evaluateCandidates")
	defer span.End()

	matches = []models.MatchResult{}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithContext(ctx).WithFields(map[string]any{
				"panic": r,
			}).Error("Candidate evaluation failed; returning no matches")
			matches = []models.MatchResult{}
		}
	}()

	for i := range candidates {
		candidate := &candidates[i]
		result := s.calculator.Compare(source, candidate)

		if result.Confidence < threshold {
			continue
		}

		matches = append(matches, models.MatchResult{
			ItemID:           candidate.ID(),
			SimilarityScore:  result.OverallScore,
			Confidence:       result.Confidence,
			MatchReasons:     result.MatchReasons,
			DetailedAnalysis: result.DetailedScores,
		})
	}

	return matches
}
