// Package extractor derives comparison features from raw item records.
package extractor

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
)

// PrimaryColor picks the dominant color from a vision analysis, the entry
// with the highest coverage percentage. Returns "" when no colors were
// detected.
func PrimaryColor(analysis *models.ImageAnalysis) string {
	if analysis == nil || len(analysis.Colors) == 0 {
		return ""
	}

	best := analysis.Colors[0]
	for _, candidate := range analysis.Colors[1:] {
		if candidate.Percentage > best.Percentage {
			best = candidate
		}
	}

	return strings.ToLower(strings.TrimSpace(best.Color))
}

// ComparisonText assembles one weighted bag-of-words string for an item.
// High-signal fields are repeated to bias the downstream term-frequency
// comparison: title and category three times, keywords and colors and
// location twice, everything else once. Absent fields contribute nothing.
func ComparisonText(item *models.Item) string {
	var parts []string

	appendN := func(n int, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		for i := 0; i < n; i++ {
			parts = append(parts, value)
		}
	}

	appendN(3, item.Title)
	appendN(1, item.Description)

	if analysis := item.AIMetadata.TextAnalysis; analysis != nil {
		for i := 0; i < 2; i++ {
			for _, keyword := range analysis.Keywords {
				appendN(1, keyword)
			}
		}
	}

	appendN(3, item.Category)

	for _, tag := range item.Tags {
		appendN(1, tag)
	}

	if analysis := item.AIMetadata.ImageAnalysis; analysis != nil {
		for _, tag := range analysis.GeminiTags {
			appendN(1, tag)
		}
		appendN(1, analysis.GeminiDescription)

		if color := PrimaryColor(analysis); color != "" {
			appendN(2, fmt.Sprintf("color %s", color))
		}

		for _, object := range analysis.Objects {
			appendN(1, object)
		}
	}

	appendN(2, locationPart(item.Location))

	return strings.Join(parts, " ")
}

func locationPart(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	return fmt.Sprintf("location %s", location)
}
