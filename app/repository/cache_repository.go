package repository

import (
	"context"
	"sort"
	"time"

	"github.com/latpategaurav/blu/internal/pkg/cache"
)

// cacheRepository implements the CacheRepository interface. It operates on
// Redis directly and is used by the admin cache panel to inspect catalog
// cache entries and OTP state.
type cacheRepository struct{}

// NewCacheRepository creates a new cache repository instance
func NewCacheRepository() CacheRepository {
	return &cacheRepository{}
}

// GetAllKeys retrieves all keys from the Redis cache
func (r *cacheRepository) GetAllKeys() ([]string, error) {
	return r.FindKeysByPatterns([]string{"*"})
}

// GetValue retrieves a value for a specific key from Redis
func (r *cacheRepository) GetValue(key string) (string, error) {
	return cache.GetClient().Get(context.Background(), key).Result()
}

// GetTTL retrieves the time-to-live for a specific key
func (r *cacheRepository) GetTTL(key string) (time.Duration, error) {
	ttl, err := cache.GetClient().TTL(context.Background(), key).Result()
	if err != nil {
		return -1, err
	}
	return ttl, nil
}

// DeleteKey deletes a specific key from Redis
func (r *cacheRepository) DeleteKey(key string) (int64, error) {
	return cache.GetClient().Del(context.Background(), key).Result()
}

// FindKeysByPatterns retrieves keys for the provided Redis match patterns using SCAN.
func (r *cacheRepository) FindKeysByPatterns(patterns []string) ([]string, error) {
	redisClient := cache.GetClient()
	ctx := context.Background()

	uniqueKeys := make(map[string]struct{})

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		var cursor uint64
		for {
			keys, nextCursor, err := redisClient.Scan(ctx, cursor, pattern, 500).Result()
			if err != nil {
				return nil, err
			}

			for _, key := range keys {
				uniqueKeys[key] = struct{}{}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}

	keys := make([]string, 0, len(uniqueKeys))
	for key := range uniqueKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys, nil
}

// DeleteKeys deletes keys in batches and returns the total number of deleted keys.
func (r *cacheRepository) DeleteKeys(keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	redisClient := cache.GetClient()
	ctx := context.Background()

	const batchSize = 500
	var totalDeleted int64

	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		deleted, err := redisClient.Del(ctx, keys[i:end]...).Result()
		if err != nil {
			return totalDeleted, err
		}
		totalDeleted += deleted
	}

	return totalDeleted, nil
}
