package repo

import (
	"context"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
	"github.com/guardianstack/guardian-engine/internal/utils"
)

// AnalysisStore persists analysis records and serves history and aggregate
// queries. Persistence is best effort; a failed save never fails the
// analysis that produced it.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error
	ListAnalyses(ctx context.Context, req models.ListAnalysesRequest) (models.ListAnalysesResponse, error)
	ComputeStats(ctx context.Context, rng models.StatsRange) (models.Stats, error)
	Close() error
}

// aggregateStats folds records into the stats payload. Records are expected
// newest first; only those inside the range window are counted. The trend
// carries one bucket per day of the range, so every counted record lands in
// exactly one bucket.
func aggregateStats(records []models.AnalysisRecord, rng models.StatsRange, now time.Time) models.Stats {
	days := rng.Days()
	windowStart := utils.StartOfDay(now.UTC()).AddDate(0, 0, -(days - 1))

	stats := models.Stats{
		Distribution: make(map[models.Label]int),
		Timestamp:    now.UTC(),
	}

	trendIndex := make(map[string]*models.TrendPoint, days)
	trend := make([]models.TrendPoint, days)
	for i := 0; i < days; i++ {
		day := utils.DayKey(now.UTC().AddDate(0, 0, i-(days-1)))
		trend[i] = models.TrendPoint{Date: day}
		trendIndex[day] = &trend[i]
	}

	var confidenceSum float64
	var processingSum int64
	reviewed := 0

	for _, record := range records {
		created := record.CreatedAt.UTC()
		if created.Before(windowStart) {
			continue
		}

		stats.TotalAnalyzed++
		stats.Distribution[record.Classification]++
		confidenceSum += record.Confidence
		processingSum += record.ProcessingTimeMs
		if record.Classification == models.LabelNeedsReview {
			reviewed++
		}
		switch record.Classification {
		case models.LabelSpam:
			stats.SpamDetected++
		case models.LabelPhishing:
			stats.PhishingBlocked++
		}

		if point, ok := trendIndex[utils.DayKey(created)]; ok {
			point.Total++
			switch record.Classification {
			case models.LabelSafe:
				point.Safe++
			case models.LabelSpam:
				point.Spam++
			case models.LabelPhishing:
				point.Phishing++
			case models.LabelSuspicious:
				point.Suspicious++
			default:
				point.Other++
			}
		}
	}

	if stats.TotalAnalyzed > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.TotalAnalyzed)
		stats.ProcessingTimeMs = processingSum / int64(stats.TotalAnalyzed)
		stats.SuccessRate = float64(stats.TotalAnalyzed-reviewed) / float64(stats.TotalAnalyzed) * 100
	}
	stats.WeeklyTrend = trend

	return stats
}

// filterRecords applies the history filters to a newest-first record slice.
func filterRecords(records []models.AnalysisRecord, req models.ListAnalysesRequest) []models.AnalysisRecord {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]models.AnalysisRecord, 0, limit)
	for _, record := range records {
		if req.Classification != "" && record.Classification != req.Classification {
			continue
		}
		out = append(out, record)
		if len(out) == limit {
			break
		}
	}
	return out
}
