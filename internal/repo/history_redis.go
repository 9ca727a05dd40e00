package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guardianstack/guardian-engine/internal/models"
	"github.com/guardianstack/guardian-engine/internal/utils"
)

const historyKey = "guardian:history"

// RedisStore persists analysis records in a capped Redis list, newest
// first. Aggregation reads the retained window back and folds it in
// process, which keeps the Redis schema to a single key.
type RedisStore struct {
	client   *redis.Client
	capacity int64
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db, capacity int) (*RedisStore, error) {
	if capacity <= 0 {
		capacity = 1000
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, capacity: int64(capacity)}, nil
}

// SaveAnalysis pushes the record and trims the list to capacity.
func (s *RedisStore) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, historyKey, payload)
	pipe.LTrim(ctx, historyKey, 0, s.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return utils.NewAppError("repo.SaveAnalysis", "persist record", err)
	}
	return nil
}

// ListAnalyses returns filtered records plus the unfiltered total.
func (s *RedisStore) ListAnalyses(ctx context.Context, req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return models.ListAnalysesResponse{}, err
	}

	return models.ListAnalysesResponse{
		Analyses: filterRecords(records, req),
		Total:    len(records),
	}, nil
}

// ComputeStats aggregates over the retained records.
func (s *RedisStore) ComputeStats(ctx context.Context, rng models.StatsRange) (models.Stats, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return aggregateStats(records, rng, time.Now()), nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) loadRecords(ctx context.Context) ([]models.AnalysisRecord, error) {
	raw, err := s.client.LRange(ctx, historyKey, 0, s.capacity-1).Result()
	if err != nil {
		return nil, utils.NewAppError("repo.loadRecords", "load history", err)
	}

	records := make([]models.AnalysisRecord, 0, len(raw))
	for _, item := range raw {
		var record models.AnalysisRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			// Skip entries written by incompatible versions.
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
