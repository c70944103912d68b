package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
)

// mockAssetIndex provides a configurable mock for AssetIndex.
type mockAssetIndex struct {
	insertFn           func(ctx context.Context, asset *model.Asset) error
	findByNamePrefixFn func(ctx context.Context, stem string) (*model.Asset, error)
	findByIDFn         func(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	findByStorageKeyFn func(ctx context.Context, key string) (*model.Asset, error)
	listFn             func(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) ([]*model.Asset, int, error)
	replaceFn          func(ctx context.Context, asset *model.Asset) error
	deleteByIDFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAssetIndex) Insert(ctx context.Context, asset *model.Asset) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, asset)
	}
	return nil
}

func (m *mockAssetIndex) FindByNamePrefix(ctx context.Context, stem string) (*model.Asset, error) {
	if m.findByNamePrefixFn != nil {
		return m.findByNamePrefixFn(ctx, stem)
	}
	return nil, nil
}

func (m *mockAssetIndex) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, repository.ErrAssetNotFound
}

func (m *mockAssetIndex) FindByStorageKey(ctx context.Context, key string) (*model.Asset, error) {
	if m.findByStorageKeyFn != nil {
		return m.findByStorageKeyFn(ctx, key)
	}
	return nil, repository.ErrAssetNotFound
}

func (m *mockAssetIndex) List(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) ([]*model.Asset, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, sort, page)
	}
	return nil, 0, nil
}

func (m *mockAssetIndex) Replace(ctx context.Context, asset *model.Asset) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, asset)
	}
	return nil
}

func (m *mockAssetIndex) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	downloadFn                     func(ctx context.Context, key string) (io.ReadCloser, repository.ObjectInfo, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) bool
	statFn                         func(ctx context.Context, key string) (repository.ObjectInfo, error)
	publicURLFn                    func(key string) string
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, repository.ObjectInfo, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, repository.ObjectInfo{}, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) bool {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false
}

func (m *mockObjectStorage) Stat(ctx context.Context, key string) (repository.ObjectInfo, error) {
	if m.statFn != nil {
		return m.statFn(ctx, key)
	}
	return repository.ObjectInfo{}, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) PublicURL(key string) string {
	if m.publicURLFn != nil {
		return m.publicURLFn(key)
	}
	return "http://example.com/media/" + key
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download", nil
}

// mockReconcileQueue provides a configurable mock for ReconcileQueue.
type mockReconcileQueue struct {
	publishOrphanFn  func(ctx context.Context, event repository.OrphanEvent) error
	consumeOrphansFn func(ctx context.Context, handler func(event repository.OrphanEvent) error) error
}

func (m *mockReconcileQueue) PublishOrphan(ctx context.Context, event repository.OrphanEvent) error {
	if m.publishOrphanFn != nil {
		return m.publishOrphanFn(ctx, event)
	}
	return nil
}

func (m *mockReconcileQueue) ConsumeOrphans(ctx context.Context, handler func(event repository.OrphanEvent) error) error {
	if m.consumeOrphansFn != nil {
		return m.consumeOrphansFn(ctx, handler)
	}
	return nil
}

func (m *mockReconcileQueue) Close() error {
	return nil
}

// mockAssetCache provides a configurable mock for AssetCache.
type mockAssetCache struct {
	getFn    func(ctx context.Context, assetID uuid.UUID) (*model.Asset, error)
	setFn    func(ctx context.Context, asset *model.Asset, ttl time.Duration) error
	deleteFn func(ctx context.Context, assetID uuid.UUID) error
}

func (m *mockAssetCache) Get(ctx context.Context, assetID uuid.UUID) (*model.Asset, error) {
	if m.getFn != nil {
		return m.getFn(ctx, assetID)
	}
	return nil, nil
}

func (m *mockAssetCache) Set(ctx context.Context, asset *model.Asset, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, asset, ttl)
	}
	return nil
}

func (m *mockAssetCache) Delete(ctx context.Context, assetID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, assetID)
	}
	return nil
}

// mockProvinceRepository provides a configurable mock for ProvinceRepository.
type mockProvinceRepository struct {
	createFn  func(ctx context.Context, p *model.Province) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.Province, error)
	listFn    func(ctx context.Context, nameFilter string) ([]*model.Province, error)
	updateFn  func(ctx context.Context, p *model.Province) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProvinceRepository) Create(ctx context.Context, p *model.Province) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProvinceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Province, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrProvinceNotFound
}

func (m *mockProvinceRepository) List(ctx context.Context, nameFilter string) ([]*model.Province, error) {
	if m.listFn != nil {
		return m.listFn(ctx, nameFilter)
	}
	return nil, nil
}

func (m *mockProvinceRepository) Update(ctx context.Context, p *model.Province) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProvinceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockCityRepository provides a configurable mock for CityRepository.
type mockCityRepository struct {
	createFn         func(ctx context.Context, c *model.City) error
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*model.City, error)
	listByProvinceFn func(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error)
	listFn           func(ctx context.Context, nameFilter string) ([]*model.City, error)
	updateFn         func(ctx context.Context, c *model.City) error
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCityRepository) Create(ctx context.Context, c *model.City) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.City, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCityNotFound
}

func (m *mockCityRepository) ListByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error) {
	if m.listByProvinceFn != nil {
		return m.listByProvinceFn(ctx, provinceID)
	}
	return nil, nil
}

func (m *mockCityRepository) List(ctx context.Context, nameFilter string) ([]*model.City, error) {
	if m.listFn != nil {
		return m.listFn(ctx, nameFilter)
	}
	return nil, nil
}

func (m *mockCityRepository) Update(ctx context.Context, c *model.City) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockCityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockPlaceRepository provides a configurable mock for PlaceRepository.
type mockPlaceRepository struct {
	createFn     func(ctx context.Context, p *model.Place) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*model.Place, error)
	listByCityFn func(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error)
	listFn       func(ctx context.Context, nameFilter string) ([]*model.Place, error)
	updateFn     func(ctx context.Context, p *model.Place) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPlaceRepository) Create(ctx context.Context, p *model.Place) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockPlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrPlaceNotFound
}

func (m *mockPlaceRepository) ListByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error) {
	if m.listByCityFn != nil {
		return m.listByCityFn(ctx, cityID)
	}
	return nil, nil
}

func (m *mockPlaceRepository) List(ctx context.Context, nameFilter string) ([]*model.Place, error) {
	if m.listFn != nil {
		return m.listFn(ctx, nameFilter)
	}
	return nil, nil
}

func (m *mockPlaceRepository) Update(ctx context.Context, p *model.Place) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockTagRepository provides a configurable mock for TagRepository.
type mockTagRepository struct {
	createFn  func(ctx context.Context, t *model.Tag) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	listFn    func(ctx context.Context, nameFilter string) ([]*model.Tag, error)
	updateFn  func(ctx context.Context, t *model.Tag) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTagRepository) Create(ctx context.Context, t *model.Tag) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTagRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrTagNotFound
}

func (m *mockTagRepository) List(ctx context.Context, nameFilter string) ([]*model.Tag, error) {
	if m.listFn != nil {
		return m.listFn(ctx, nameFilter)
	}
	return nil, nil
}

func (m *mockTagRepository) Update(ctx context.Context, t *model.Tag) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return nil
}

func (m *mockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
