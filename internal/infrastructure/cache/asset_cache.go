package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trippix/mediavault/internal/domain/model"
)

// AssetCache defines the interface for caching asset metadata.
// Implementations should handle serialization/deserialization transparently.
type AssetCache interface {
	// Get retrieves an asset from cache by ID.
	// Returns nil, nil if the asset is not found in cache (cache miss).
	Get(ctx context.Context, assetID uuid.UUID) (*model.Asset, error)

	// Set stores an asset in cache with the specified TTL.
	Set(ctx context.Context, asset *model.Asset, ttl time.Duration) error

	// Delete removes an asset from cache by ID.
	// Returns nil if the asset was not in cache.
	Delete(ctx context.Context, assetID uuid.UUID) error
}
