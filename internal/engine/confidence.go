package engine

import "github.com/guardianstack/guardian-engine/internal/models"

const (
	baseConfidence = 0.85
	minConfidence  = 0.1
	maxConfidence  = 0.99
)

// EstimateConfidence combines text length, the canonical label, and the
// extracted features into a bounded confidence score. The adjustments are
// independent and commutative; only the final clamp is order-sensitive.
func EstimateConfidence(label models.Label, features models.FeatureVector) float64 {
	confidence := baseConfidence

	if features.Length < 50 {
		confidence -= 0.10
	}
	if features.Length > 1000 {
		confidence += 0.05
	}

	if corroborated(label, features) {
		confidence += 0.10
	}
	if label == models.LabelSafe && features.SpamKeywordCount == 0 && features.PhishingKeywordCount == 0 {
		confidence += 0.05
	}
	if features.HasSuspiciousSender {
		confidence -= 0.10
	}
	if features.HasAttachments && (label == models.LabelPhishing || label == models.LabelMalware) {
		confidence += 0.10
	}

	return clamp(confidence, minConfidence, maxConfidence)
}

// corroborated reports whether the text's own keyword counts back up a
// threat label. Malware keywords are rarer, so a single hit suffices there.
func corroborated(label models.Label, features models.FeatureVector) bool {
	switch label {
	case models.LabelSpam:
		return features.SpamKeywordCount >= 2
	case models.LabelPhishing:
		return features.PhishingKeywordCount >= 2
	case models.LabelMalware:
		return features.MalwareKeywordCount >= 1
	default:
		return false
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
