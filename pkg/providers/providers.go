// Package providers defines the contracts for the upstream AI services
// that annotate items before matching. The matching core itself never calls
// these; annotations arrive pre-attached on items. The ingestion surface
// uses them to enrich bare reports.
package providers

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// EmbeddingProvider turns free text into a fixed-length dense vector.
type EmbeddingProvider interface {
	// Embed returns the embedding for the given text. Implementations may
	// return a zero vector for unembeddable input rather than an error.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VisionProvider analyzes an item photo into structured visual metadata.
type VisionProvider interface {
	// AnalyzeImage accepts an image by URL and returns detected objects,
	// colors, tags and a generated description.
	AnalyzeImage(ctx context.Context, imageURL string) (*models.ImageAnalysis, error)
}

// TextAnalysisProvider extracts structured fields from a description.
type TextAnalysisProvider interface {
	// AnalyzeText returns keywords, category, urgency and mention fields
	// for the given description text.
	AnalyzeText(ctx context.Context, text string) (*models.TextAnalysis, error)
}
