// Package models defines the item and match data structures for the matching service
package models

import (
	"encoding/json"
	"time"
)

// FlexID is an item identifier that arrives either as a plain string or as a
// MongoDB extended-JSON wrapper ({"$oid": "..."}). Both forms resolve to the
// same string at the ingestion boundary.
type FlexID string

// UnmarshalJSON accepts a plain string or an {"$oid": "..."} wrapper.
// Any other shape resolves to the empty value.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}

	var wrapper struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.OID != "" {
		*f = FlexID(wrapper.OID)
		return nil
	}

	*f = ""
	return nil
}

// FlexTime is a timestamp that arrives either as an ISO-8601 string or as a
// MongoDB extended-JSON wrapper ({"$date": "..."}). Unparseable values resolve
// to absent rather than erroring.
type FlexTime struct {
	value *time.Time
}

// Time returns the resolved timestamp, or nil if absent/unparseable.
func (f *FlexTime) Time() *time.Time {
	return f.value
}

// Set assigns a concrete timestamp. Used by tests and callers constructing
// items in code rather than from JSON.
func (f *FlexTime) Set(t time.Time) {
	f.value = &t
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts an ISO-8601 string or a {"$date": "..."} wrapper.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	f.value = nil

	raw := ""
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = s
	} else {
		var wrapper struct {
			Date string `json:"$date"`
		}
		if err := json.Unmarshal(data, &wrapper); err == nil {
			raw = wrapper.Date
		}
	}

	if raw == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			f.value = &utc
			return nil
		}
	}

	return nil
}

// MarshalJSON emits the timestamp as RFC3339, or null when absent.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.value.Format(time.RFC3339))
}

// Mention is an optional field extracted by the text-analysis provider. The
// provider emits the literal string "false" (or the boolean false) for fields
// it did not detect, which is distinct from a detected value. Mention keeps
// "absent" and "present with value" apart instead of overloading a sentinel.
type Mention struct {
	value string
}

// MentionOf builds a detected mention. The provider sentinels are rejected
// the same way UnmarshalJSON rejects them.
func MentionOf(value string) Mention {
	if value == "false" || value == "true" {
		return Mention{}
	}
	return Mention{value: value}
}

// Detected reports whether the provider detected this field.
func (m Mention) Detected() bool {
	return m.value != ""
}

// Value returns the detected value, or "" when not detected.
func (m Mention) Value() string {
	return m.value
}

// UnmarshalJSON treats "false", false, "true", true, "" and null as
// not-detected. "true" carries no value, so it also resolves to not-detected
// for value comparisons.
func (m *Mention) UnmarshalJSON(data []byte) error {
	m.value = ""

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "false" && s != "true" {
			m.value = s
		}
		return nil
	}

	// Booleans carry no usable value either way.
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return nil
	}

	return nil
}

// MarshalJSON emits the detected value, or the provider sentinel "false".
func (m Mention) MarshalJSON() ([]byte, error) {
	if !m.Detected() {
		return json.Marshal("false")
	}
	return json.Marshal(m.value)
}

// TextAnalysis holds the text-analysis provider's output for an item.
type TextAnalysis struct {
	Keywords           []string `json:"keywords,omitempty"`
	Category           string   `json:"category,omitempty"`
	Sentiment          string   `json:"sentiment,omitempty"`
	UrgencyLevel       string   `json:"urgency_level,omitempty"`
	ColorMentioned     Mention  `json:"color_mentioned,omitempty"`
	BrandMentioned     Mention  `json:"brand_mentioned,omitempty"`
	LocationMentioned  Mention  `json:"location_mentioned,omitempty"`
	SizeMentioned      Mention  `json:"size_mentioned,omitempty"`
	ConditionMentioned Mention  `json:"condition_mentioned,omitempty"`
	EmotionalTone      string   `json:"emotional_tone,omitempty"`
	HasContactInfo     bool     `json:"has_contact_info,omitempty"`
	ConfidenceScore    float64  `json:"confidence_score,omitempty"`
}

// ColorShare is one detected color with its coverage percentage (0-100).
type ColorShare struct {
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

// ImageAnalysis holds the vision provider's output for an item.
type ImageAnalysis struct {
	Objects           []string     `json:"objects,omitempty"`
	Colors            []ColorShare `json:"colors,omitempty"`
	GeminiTags        []string     `json:"gemini_tags,omitempty"`
	GeminiDescription string       `json:"gemini_description,omitempty"`
}

// AIMetadata groups the provider-generated annotations attached to an item.
// All fields are optional; the matching core degrades gracefully when any are
// absent.
type AIMetadata struct {
	TextEmbedding []float64      `json:"textEmbedding,omitempty"`
	ImageFeatures []float64      `json:"imageFeatures,omitempty"`
	TextAnalysis  *TextAnalysis  `json:"textAnalysis,omitempty"`
	ImageAnalysis *ImageAnalysis `json:"imageAnalysis,omitempty"`
}

// UnknownItemID is reported for items that carried no usable identifier.
const UnknownItemID = "unknown"

// Item is a lost or found report as submitted for matching. Provider
// annotations arrive pre-attached; the matching core never calls providers.
type Item struct {
	RawID         FlexID     `json:"_id,omitempty"`
	AltID         string     `json:"id,omitempty"`
	Title         string     `json:"title,omitempty"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	Location      string     `json:"location,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	DateLostFound FlexTime   `json:"dateLostFound,omitempty"`
	AIMetadata    AIMetadata `json:"aiMetadata,omitempty"`
}

// ID resolves the item's identifier, preferring "_id" over "id" and falling
// back to UnknownItemID when neither is present.
func (i *Item) ID() string {
	if i.RawID != "" {
		return string(i.RawID)
	}
	if i.AltID != "" {
		return i.AltID
	}
	return UnknownItemID
}
