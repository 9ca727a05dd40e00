package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guardianstack/guardian-engine/internal/cache"
	"github.com/guardianstack/guardian-engine/internal/engine"
	"github.com/guardianstack/guardian-engine/internal/models"
)

type fakeLabelSource struct {
	label string
	err   error
}

func (f *fakeLabelSource) Classify(ctx context.Context, text string) (string, error) {
	return f.label, f.err
}

type fakeStore struct {
	mu      sync.Mutex
	saved   []models.AnalysisRecord
	saveErr error
	stats   models.Stats
	calls   int
}

func (f *fakeStore) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeStore) ListAnalyses(ctx context.Context, req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.ListAnalysesResponse{Analyses: f.saved, Total: len(f.saved)}, nil
}

func (f *fakeStore) ComputeStats(ctx context.Context, rng models.StatsRange) (models.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.stats, nil
}

func (f *fakeStore) Close() error { return nil }

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memoryCache) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Close() error { return nil }

func newTestService(t *testing.T, source engine.LabelSource, store *fakeStore, cacheProvider cache.Provider) *AnalysisService {
	t.Helper()
	rules, err := engine.NewRuleEngine("", nil)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}
	pipeline := engine.NewPipeline(nil, source, rules, engine.NewExplainer(nil, time.Second, nil), nil, true)
	return NewAnalysisService(nil, pipeline, store, cacheProvider, time.Minute)
}

func TestAnalyzePersistsRecord(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, &fakeLabelSource{label: "spam"}, store, nil)

	longBody := "You won the lottery! Click here for free money. " +
		"This paragraph keeps going so the stored preview gets truncated to its fixed limit, repeated once more: " +
		"you won the lottery, click here for free money, act now, congratulations on your prize."

	result, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: longBody})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(store.saved))
	}
	rec := store.saved[0]
	if rec.ID != result.AnalysisID {
		t.Fatalf("record ID %s != result ID %s", rec.ID, result.AnalysisID)
	}
	if rec.Classification != models.LabelSpam {
		t.Fatalf("record classification = %s", rec.Classification)
	}
	if got := len([]rune(rec.TextPreview)); got > 200 {
		t.Fatalf("preview too long: %d runes", got)
	}
	if rec.ProcessingTimeMs < 0 {
		t.Fatalf("negative processing time: %d", rec.ProcessingTimeMs)
	}
}

func TestAnalyzeSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("redis down")}
	svc := newTestService(t, &fakeLabelSource{label: "safe"}, store, nil)

	if _, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "see you tomorrow"}); err != nil {
		t.Fatalf("persistence failure must not fail the analysis: %v", err)
	}
}

func TestAnalyzeBatchLimits(t *testing.T) {
	svc := newTestService(t, &fakeLabelSource{label: "safe"}, &fakeStore{}, nil)

	reqs := make([]models.AnalysisRequest, 11)
	for i := range reqs {
		reqs[i] = models.AnalysisRequest{Text: "hello"}
	}
	if _, err := svc.AnalyzeBatch(context.Background(), reqs); !errors.Is(err, models.ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	if _, err := svc.AnalyzeBatch(context.Background(), nil); !errors.Is(err, models.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for empty batch, got %v", err)
	}
}

func TestAnalyzeBatchPartialFailure(t *testing.T) {
	svc := newTestService(t, &fakeLabelSource{label: "safe"}, &fakeStore{}, nil)

	items, err := svc.AnalyzeBatch(context.Background(), []models.AnalysisRequest{
		{Text: "first email body"},
		{Text: "   "},
		{Text: "third email body"},
	})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Result == nil || items[2].Result == nil {
		t.Fatal("expected results in slots 0 and 2")
	}
	if items[1].Error == nil {
		t.Fatal("expected error in slot 1")
	}
}

func TestStatsCaching(t *testing.T) {
	store := &fakeStore{stats: models.Stats{TotalAnalyzed: 5}}
	svc := newTestService(t, &fakeLabelSource{label: "safe"}, store, newMemoryCache())

	first, err := svc.Stats(context.Background(), models.RangeWeek)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if first.TotalAnalyzed != 5 {
		t.Fatalf("totalAnalyzed = %d", first.TotalAnalyzed)
	}

	if _, err := svc.Stats(context.Background(), models.RangeWeek); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store aggregation, got %d", store.calls)
	}

	// A new analysis invalidates the cached payload.
	if _, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "fresh email"}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := svc.Stats(context.Background(), models.RangeWeek); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected recomputation after invalidation, got %d calls", store.calls)
	}
}
