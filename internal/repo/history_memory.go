package repo

import (
	"context"
	"sync"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// MemoryStore keeps analysis records in process memory, newest first.
// It backs deployments that run without Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []models.AnalysisRecord
	capacity int
}

// NewMemoryStore creates a bounded in-memory store.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{capacity: capacity}
}

// SaveAnalysis prepends the record, evicting the oldest beyond capacity.
func (s *MemoryStore) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]models.AnalysisRecord{record}, s.records...)
	if len(s.records) > s.capacity {
		s.records = s.records[:s.capacity]
	}
	return nil
}

// ListAnalyses returns filtered records plus the unfiltered total.
func (s *MemoryStore) ListAnalyses(ctx context.Context, req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.ListAnalysesResponse{
		Analyses: filterRecords(s.records, req),
		Total:    len(s.records),
	}, nil
}

// ComputeStats aggregates over the retained records.
func (s *MemoryStore) ComputeStats(ctx context.Context, rng models.StatsRange) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return aggregateStats(s.records, rng, time.Now()), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
