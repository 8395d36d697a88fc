package enums

import "strings"

// Confidence is the self-reported certainty of a commodity classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) String() string {
	return string(c)
}

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// NormalizeConfidence maps model output onto the known tiers, defaulting to low.
func NormalizeConfidence(value string) Confidence {
	c := Confidence(strings.ToLower(strings.TrimSpace(value)))
	if c.IsValid() {
		return c
	}
	return ConfidenceLow
}
