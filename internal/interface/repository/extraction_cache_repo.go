package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"
)

// RedisExtractionCache implements ExtractionCache on Redis
type RedisExtractionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisExtractionCache creates a new extraction cache
func NewRedisExtractionCache(client *redis.Client, ttl time.Duration) repository.ExtractionCache {
	return &RedisExtractionCache{client: client, ttl: ttl}
}

func cacheKey(imageHash string) string {
	return fmt.Sprintf("travelscan:extraction:%s", imageHash)
}

// Get returns the cached extraction for an image hash, or an error on miss
func (c *RedisExtractionCache) Get(ctx context.Context, imageHash string) (*entity.ExtractedRecord, error) {
	data, err := c.client.Get(ctx, cacheKey(imageHash)).Bytes()
	if err != nil {
		return nil, err
	}

	var record entity.ExtractedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode cached extraction: %w", err)
	}
	return &record, nil
}

// Set stores an extraction under an image hash with the configured TTL
func (c *RedisExtractionCache) Set(ctx context.Context, imageHash string, record *entity.ExtractedRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode extraction: %w", err)
	}
	return c.client.Set(ctx, cacheKey(imageHash), data, c.ttl).Err()
}
