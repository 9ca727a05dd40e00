package engine

import "github.com/guardianstack/guardian-engine/internal/models"

// baseRisk assigns each label its risk floor before confidence weighting.
// Informational labels and NeedsReview share the Suspicious floor.
var baseRisk = map[models.Label]float64{
	models.LabelSafe:       0,
	models.LabelSuspicious: 25,
	models.LabelSpam:       50,
	models.LabelPhishing:   75,
	models.LabelMalware:    90,
}

const defaultBaseRisk = 25

// ScoreRisk maps label, confidence, and features to an integer risk score
// in [0,100]. The base is weighted by confidence, then flat bonuses are
// added for attachment, sender, urgency, and keyword-corroboration
// signals before truncation and clamping.
func ScoreRisk(label models.Label, confidence float64, features models.FeatureVector) int {
	base, ok := baseRisk[label]
	if !ok {
		base = defaultBaseRisk
	}

	risk := base * confidence
	if features.HasAttachments {
		risk += 10
	}
	if features.HasSuspiciousSender {
		risk += 15
	}
	if features.HasUrgentWords {
		risk += 5
	}
	if label.IsThreat() && corroborated(label, features) {
		risk += 10
	}

	score := int(risk)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
