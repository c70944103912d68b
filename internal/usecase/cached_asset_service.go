package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/infrastructure/cache"
	"github.com/trippix/mediavault/internal/infrastructure/metrics"
)

// CachedAssetServiceConfig holds configuration for CachedAssetService.
type CachedAssetServiceConfig struct {
	// CacheTTL is the TTL for cached asset metadata.
	CacheTTL time.Duration
}

// DefaultCachedAssetServiceConfig returns the default configuration.
func DefaultCachedAssetServiceConfig() CachedAssetServiceConfig {
	return CachedAssetServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedAssetService wraps AssetService with metadata caching. It
// implements the decorator pattern so the core service stays unaware of
// the cache; the cache is never authoritative and every cache failure
// degrades to the underlying index.
type cachedAssetService struct {
	delegate AssetService
	cache    cache.AssetCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedAssetService creates a new CachedAssetService wrapping the
// provided AssetService.
func NewCachedAssetService(
	delegate AssetService,
	assetCache cache.AssetCache,
	cfg CachedAssetServiceConfig,
) AssetService {
	return &cachedAssetService{
		delegate: delegate,
		cache:    assetCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// Save delegates to the underlying service.
// No caching for create operations - the asset is immediately returned.
func (s *cachedAssetService) Save(ctx context.Context, input SaveAssetInput) (*model.Asset, error) {
	return s.delegate.Save(ctx, input)
}

// Get streams bytes straight from the object store; binary content is
// not cached.
func (s *cachedAssetService) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.delegate.Get(ctx, key)
}

// Describe retrieves asset metadata with caching.
// Uses singleflight to prevent cache stampede on concurrent requests
// for the same asset.
func (s *cachedAssetService) Describe(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	result, err, shared := s.sfGroup.Do(id.String(), func() (any, error) {
		return s.describeWithCache(ctx, id)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.(*model.Asset), nil
}

// describeWithCache implements the cache-aside pattern.
func (s *cachedAssetService) describeWithCache(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	asset, err := s.cache.Get(ctx, id)
	if err != nil {
		// Log cache error but continue to the index
		slog.Warn("cache get failed, falling back to index",
			"asset_id", id,
			"error", err,
		)
	}

	if asset != nil {
		return asset, nil // Cache hit
	}

	asset, err = s.delegate.Describe(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, asset, s.cacheTTL); err != nil {
		slog.Warn("failed to cache asset",
			"asset_id", id,
			"error", err,
		)
	}

	return asset, nil
}

// Update invalidates the cache before delegating so stale metadata is
// not served while the update is in flight.
func (s *cachedAssetService) Update(ctx context.Context, input UpdateAssetInput) (*UpdateAssetOutput, error) {
	s.invalidate(ctx, input.ID)
	return s.delegate.Update(ctx, input)
}

// Delete invalidates the cache and delegates.
func (s *cachedAssetService) Delete(ctx context.Context, id uuid.UUID) DeleteResult {
	s.invalidate(ctx, id)
	return s.delegate.Delete(ctx, id)
}

// List delegates to the underlying service; listings are not cached.
func (s *cachedAssetService) List(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) (*AssetPage, error) {
	return s.delegate.List(ctx, filter, sort, page)
}

// Exists delegates to the underlying service.
func (s *cachedAssetService) Exists(ctx context.Context, key string) bool {
	return s.delegate.Exists(ctx, key)
}

// PublicURL delegates to the underlying service.
func (s *cachedAssetService) PublicURL(key string) string {
	return s.delegate.PublicURL(key)
}

func (s *cachedAssetService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, id); err != nil {
		// Cache invalidation failure is non-critical
		slog.Warn("failed to invalidate asset cache",
			"asset_id", id,
			"error", err,
		)
	}
}
