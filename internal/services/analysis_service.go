package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/guardianstack/guardian-engine/internal/cache"
	"github.com/guardianstack/guardian-engine/internal/engine"
	"github.com/guardianstack/guardian-engine/internal/metrics"
	"github.com/guardianstack/guardian-engine/internal/models"
	"github.com/guardianstack/guardian-engine/internal/repo"
	"github.com/guardianstack/guardian-engine/internal/utils"
)

const (
	previewLimit = 200
	maxBatchSize = 10
)

// AnalysisService wraps the pipeline with persistence, metrics, and
// aggregate queries. It is the unit the HTTP handlers talk to.
type AnalysisService struct {
	logger    *slog.Logger
	pipeline  *engine.Pipeline
	store     repo.AnalysisStore
	cache     cache.Provider
	statsTTL  time.Duration
	latencies *utils.LatencyTracker
}

// NewAnalysisService constructs the service facade.
func NewAnalysisService(logger *slog.Logger, pipeline *engine.Pipeline, store repo.AnalysisStore, cacheProvider cache.Provider, statsTTL time.Duration) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = repo.NewMemoryStore(0)
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &AnalysisService{
		logger:    logger,
		pipeline:  pipeline,
		store:     store,
		cache:     cacheProvider,
		statsTTL:  statsTTL,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Analyze runs one email through the pipeline and persists the outcome.
// Persistence failures are logged, not returned.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	if s.pipeline == nil {
		return models.AnalysisResult{}, fmt.Errorf("pipeline not configured")
	}

	start := time.Now()
	result, err := s.pipeline.Analyze(ctx, req)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError, "")
		return models.AnalysisResult{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess, string(result.Classification))
	metrics.ObserveExplanation(result.AIUsed)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("analysis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	record := toRecord(req.Text, result, duration)
	if err := s.store.SaveAnalysis(ctx, record); err != nil {
		s.logger.Warn("failed to persist analysis", slog.Any("error", err))
	} else {
		// Aggregates changed, drop the cached stats payloads.
		s.invalidateStats(ctx)
	}

	return result, nil
}

// AnalyzeBatch processes up to maxBatchSize emails in request order. A
// failed item does not abort the batch; its slot carries the error.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []models.AnalysisRequest) ([]models.BatchItem, error) {
	if len(reqs) == 0 {
		return nil, models.ErrEmptyInput
	}
	if len(reqs) > maxBatchSize {
		return nil, fmt.Errorf("%w: batch limited to %d emails", models.ErrBatchTooLarge, maxBatchSize)
	}

	items := make([]models.BatchItem, len(reqs))
	for i, req := range reqs {
		result, err := s.Analyze(ctx, req)
		if err != nil {
			items[i] = models.BatchItem{Error: err}
			continue
		}
		items[i] = models.BatchItem{Result: &result}
	}
	return items, nil
}

// History returns persisted analyses, newest first.
func (s *AnalysisService) History(ctx context.Context, req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	return s.store.ListAnalyses(ctx, req)
}

// Stats computes aggregate counters for the requested range, served from
// cache when a fresh payload exists.
func (s *AnalysisService) Stats(ctx context.Context, rng models.StatsRange) (models.Stats, error) {
	key := statsCacheKey(rng)
	if payload, err := s.cache.Get(ctx, key); err == nil {
		var stats models.Stats
		if err := json.Unmarshal(payload, &stats); err == nil {
			return stats, nil
		}
	}

	stats, err := s.store.ComputeStats(ctx, rng)
	if err != nil {
		return models.Stats{}, err
	}

	if s.statsTTL > 0 {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.statsTTL); err != nil {
				s.logger.Debug("stats cache write failed", slog.Any("error", err))
			}
		}
	}
	return stats, nil
}

// ClassifierConfigured reports whether a remote label source is wired in.
func (s *AnalysisService) ClassifierConfigured() bool {
	return s.pipeline != nil && s.pipeline.HasLabelSource()
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func (s *AnalysisService) invalidateStats(ctx context.Context) {
	for _, rng := range []models.StatsRange{models.RangeToday, models.RangeWeek, models.RangeMonth, models.RangeQuarter} {
		if err := s.cache.Del(ctx, statsCacheKey(rng)); err != nil {
			s.logger.Debug("stats cache invalidation failed", slog.Any("error", err))
		}
	}
}

func statsCacheKey(rng models.StatsRange) string {
	return "guardian:stats:" + string(rng)
}

func toRecord(text string, result models.AnalysisResult, duration time.Duration) models.AnalysisRecord {
	preview := []rune(text)
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return models.AnalysisRecord{
		ID:               result.AnalysisID,
		TextPreview:      string(preview),
		Classification:   result.Classification,
		Confidence:       result.Confidence,
		RiskScore:        result.RiskScore,
		Explanation:      result.Explanation,
		Features:         result.Features,
		Recommendations:  result.Recommendations,
		ProcessingTimeMs: duration.Milliseconds(),
		AIUsed:           result.AIUsed,
		CreatedAt:        result.CreatedAt,
	}
}
