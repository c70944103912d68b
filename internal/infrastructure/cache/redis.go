package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/infrastructure/metrics"
)

const (
	// assetCacheKeyPrefix is the prefix for asset cache keys in Redis.
	assetCacheKeyPrefix = "asset:"
)

// assetJSON is the JSON representation of an Asset for caching.
// Using an explicit struct avoids coupling to the domain model's layout.
type assetJSON struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OriginalFileName string `json:"original_file_name"`
	Province         string `json:"province,omitempty"`
	City             string `json:"city,omitempty"`
	Place            string `json:"place,omitempty"`
	StorageKey       string `json:"storage_key"`
	SizeBytes        int64  `json:"size_bytes"`
	ContentType      string `json:"content_type"`
	Extension        string `json:"extension"`
	Description      string `json:"description,omitempty"`
	Tags             string `json:"tags,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// RedisAssetCache implements AssetCache using Redis as the backing store.
type RedisAssetCache struct {
	client *redis.Client
}

// NewRedisAssetCache creates a new Redis-backed asset cache.
func NewRedisAssetCache(client *redis.Client) *RedisAssetCache {
	return &RedisAssetCache{
		client: client,
	}
}

// Get retrieves an asset from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisAssetCache) Get(ctx context.Context, assetID uuid.UUID) (*model.Asset, error) {
	key := c.buildKey(assetID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
			return nil, nil // Cache miss
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	asset, err := c.deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize asset: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return asset, nil
}

// Set stores an asset in Redis cache with the specified TTL.
func (c *RedisAssetCache) Set(ctx context.Context, asset *model.Asset, ttl time.Duration) error {
	key := c.buildKey(asset.ID)

	data, err := c.serialize(asset)
	if err != nil {
		return fmt.Errorf("serialize asset: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// Delete removes an asset from Redis cache.
func (c *RedisAssetCache) Delete(ctx context.Context, assetID uuid.UUID) error {
	key := c.buildKey(assetID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
	return nil
}

// buildKey constructs the Redis key for an asset.
func (c *RedisAssetCache) buildKey(assetID uuid.UUID) string {
	return assetCacheKeyPrefix + assetID.String()
}

// serialize converts an Asset to JSON bytes.
func (c *RedisAssetCache) serialize(asset *model.Asset) ([]byte, error) {
	v := assetJSON{
		ID:               asset.ID.String(),
		Name:             asset.Name,
		OriginalFileName: asset.OriginalFileName,
		Province:         asset.Location.Province,
		City:             asset.Location.City,
		Place:            asset.Location.Place,
		StorageKey:       asset.StorageKey,
		SizeBytes:        asset.SizeBytes,
		ContentType:      asset.ContentType,
		Extension:        asset.Extension.String(),
		Description:      asset.Description,
		Tags:             asset.Tags,
		CreatedAt:        asset.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:        asset.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(v)
}

// deserialize converts JSON bytes to an Asset.
func (c *RedisAssetCache) deserialize(data []byte) (*model.Asset, error) {
	var v assetJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("parse asset ID: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.Asset{
		ID:               id,
		Name:             v.Name,
		OriginalFileName: v.OriginalFileName,
		Location: model.LocationPath{
			Province: v.Province,
			City:     v.City,
			Place:    v.Place,
		},
		StorageKey:  v.StorageKey,
		SizeBytes:   v.SizeBytes,
		ContentType: v.ContentType,
		Extension:   model.Extension(v.Extension),
		Description: v.Description,
		Tags:        v.Tags,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time verification that RedisAssetCache implements AssetCache.
var _ AssetCache = (*RedisAssetCache)(nil)
