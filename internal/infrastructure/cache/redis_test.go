package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trippix/mediavault/internal/domain/model"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func testAsset() *model.Asset {
	now := time.Now().Truncate(time.Microsecond)
	return &model.Asset{
		ID:               uuid.New(),
		Name:             "sunset",
		OriginalFileName: "sunset.jpg",
		Location:         model.LocationPath{Province: "golestan", City: "gorgan", Place: "naharkhoran"},
		StorageKey:       "golestan/gorgan/naharkhoran/sunset.jpg",
		SizeBytes:        1024,
		ContentType:      "image/jpeg",
		Extension:        model.ExtJPG,
		Description:      "evening shot",
		Tags:             "beach,evening",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestRedisAssetCache_Get_CacheHit(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)
	ctx := context.Background()

	asset := testAsset()

	if err := cache.Set(ctx, asset, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected asset, got nil")
	}

	if got.ID != asset.ID {
		t.Errorf("ID = %v, want %v", got.ID, asset.ID)
	}
	if got.Name != asset.Name {
		t.Errorf("Name = %v, want %v", got.Name, asset.Name)
	}
	if got.Location != asset.Location {
		t.Errorf("Location = %+v, want %+v", got.Location, asset.Location)
	}
	if got.StorageKey != asset.StorageKey {
		t.Errorf("StorageKey = %v, want %v", got.StorageKey, asset.StorageKey)
	}
	if got.SizeBytes != asset.SizeBytes {
		t.Errorf("SizeBytes = %v, want %v", got.SizeBytes, asset.SizeBytes)
	}
	if got.Extension != asset.Extension {
		t.Errorf("Extension = %v, want %v", got.Extension, asset.Extension)
	}
	if got.Tags != asset.Tags {
		t.Errorf("Tags = %v, want %v", got.Tags, asset.Tags)
	}
	if !got.CreatedAt.Equal(asset.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, asset.CreatedAt)
	}
}

func TestRedisAssetCache_Get_CacheMiss(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)

	got, err := cache.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on cache miss, got %+v", got)
	}
}

func TestRedisAssetCache_Get_CorruptEntry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)
	id := uuid.New()

	if err := mr.Set(assetCacheKeyPrefix+id.String(), "not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := cache.Get(context.Background(), id); err == nil {
		t.Error("expected an error for a corrupt cache entry")
	}
}

func TestRedisAssetCache_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)
	ctx := context.Background()

	asset := testAsset()
	if err := cache.Set(ctx, asset, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected expiry after TTL, got %+v", got)
	}
}

func TestRedisAssetCache_Delete(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)
	ctx := context.Background()

	asset := testAsset()
	if err := cache.Set(ctx, asset, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Delete(ctx, asset.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := cache.Get(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss after delete, got %+v", got)
	}
}

func TestRedisAssetCache_Delete_Missing(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisAssetCache(client)

	// Deleting an absent key is not an error.
	if err := cache.Delete(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
