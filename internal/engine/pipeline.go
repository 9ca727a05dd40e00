package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guardianstack/guardian-engine/internal/extractors"
	"github.com/guardianstack/guardian-engine/internal/models"
)

// LabelSource defines the classification backend behaviour used by the
// pipeline.
type LabelSource interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Pipeline orchestrates the full analysis flow: classification, feature
// extraction, scoring, recommendations, and explanation.
type Pipeline struct {
	logger          *slog.Logger
	labelSource     LabelSource
	extractor       *extractors.Extractor
	rules           *RuleEngine
	explainer       *Explainer
	fallbackEnabled bool
}

// NewPipeline constructs an analysis pipeline.
func NewPipeline(
	logger *slog.Logger,
	labelSource LabelSource,
	rules *RuleEngine,
	explainer *Explainer,
	extractor *extractors.Extractor,
	fallbackEnabled bool,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extractors.NewExtractor()
	}

	return &Pipeline{
		logger:          logger,
		labelSource:     labelSource,
		extractor:       extractor,
		rules:           rules,
		explainer:       explainer,
		fallbackEnabled: fallbackEnabled,
	}
}

// HasLabelSource reports whether a remote classifier is configured.
func (p *Pipeline) HasLabelSource() bool {
	return p.labelSource != nil
}

// Analyze classifies one email and assembles the complete result.
func (p *Pipeline) Analyze(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.AnalysisResult{}, models.ErrEmptyInput
	}

	features := p.extractor.Extract(text)

	label, err := p.classify(ctx, text)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if p.rules != nil {
		label = p.rules.ApplyOverrides(label, text)
	}

	confidence := EstimateConfidence(label, features)
	riskScore := ScoreRisk(label, confidence, features)
	recommendations := Recommend(label, riskScore)

	explanation := localExplanation(label, confidence)
	aiUsed := false
	if p.explainer != nil {
		explanation, aiUsed = p.explainer.Explain(ctx, text, label, confidence)
	}

	return models.AnalysisResult{
		AnalysisID:      uuid.NewString(),
		Classification:  label,
		Confidence:      confidence,
		RiskScore:       riskScore,
		Explanation:     explanation,
		Features:        features,
		Recommendations: recommendations,
		AIUsed:          aiUsed,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// classify resolves the canonical label, degrading to the rule-based
// fallback when the backend is down and fallback is enabled.
func (p *Pipeline) classify(ctx context.Context, text string) (models.Label, error) {
	if p.labelSource == nil {
		if p.fallbackEnabled && p.rules != nil {
			return p.rules.FallbackLabel(text), nil
		}
		return "", models.ErrClassifierUnavailable
	}

	raw, err := p.labelSource.Classify(ctx, text)
	if err != nil {
		if p.fallbackEnabled && p.rules != nil &&
			(errors.Is(err, models.ErrClassifierUnavailable) || errors.Is(err, models.ErrClassifier)) {
			p.logger.Warn("classifier unavailable, using rule fallback", slog.Any("error", err))
			return p.rules.FallbackLabel(text), nil
		}
		return "", err
	}

	return NormalizeLabel(raw), nil
}
