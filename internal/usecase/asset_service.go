package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/infrastructure/metrics"
)

// SaveAssetInput contains the input parameters for storing a new asset.
type SaveAssetInput struct {
	Name        string
	Location    model.LocationPath
	File        io.Reader
	SizeBytes   int64
	FileName    string
	Description string
	Tags        string
}

// UpdateAssetInput contains the input parameters for updating an asset.
// Nil pointer fields leave the corresponding attribute untouched. File
// is optional; when nil the stored bytes are kept (possibly re-keyed).
type UpdateAssetInput struct {
	ID              uuid.UUID
	NewName         *string
	NewLocation     *model.LocationPath
	File            io.Reader
	SizeBytes       int64
	FileName        string
	Description     *string
	Tags            *string
	CreateIfMissing bool
}

// UpdateAssetOutput carries the updated asset plus a non-fatal warning
// when a later side effect in the sequence failed after earlier ones
// had already committed.
type UpdateAssetOutput struct {
	Asset   *model.Asset
	Warning string
}

// DeleteResult reports the outcome of a delete. Delete never returns an
/// error to the caller: failures are folded into Success/Message, and
// object-store trouble that did not block the index delete lands in
// Warning.
type DeleteResult struct {
	Success bool
	Message string
	Warning string
}

// AssetPage is one page of a listing plus the total match count.
type AssetPage struct {
	Items      []*model.Asset
	TotalCount int
}

// AssetService defines the business logic for media assets. It is the
// only component that touches both storage backends, in a fixed order
// with documented partial-failure behavior.
type AssetService interface {
	// Save validates, uploads the bytes, then indexes the metadata.
	Save(ctx context.Context, input SaveAssetInput) (*model.Asset, error)

	// Get streams the object stored under key. The content type is
	// resolved purely from the key's extension; no index lookup happens.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Describe returns the indexed metadata for an asset.
	Describe(ctx context.Context, id uuid.UUID) (*model.Asset, error)

	// Update modifies content and/or metadata of an existing asset, or
	// behaves as Save when the asset is missing and CreateIfMissing is set.
	Update(ctx context.Context, input UpdateAssetInput) (*UpdateAssetOutput, error)

	// Delete removes the object and the index entry. Never returns an error.
	Delete(ctx context.Context, id uuid.UUID) DeleteResult

	// List is a pure read-through to the metadata index.
	List(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) (*AssetPage, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) bool

	// PublicURL derives the externally reachable URL for key. Pure.
	PublicURL(key string) string
}

// AssetServiceConfig holds configuration for AssetService.
type AssetServiceConfig struct {
	// StorageTimeout bounds each object-store call.
	StorageTimeout time.Duration
	// IndexTimeout bounds each metadata-index call.
	IndexTimeout time.Duration
}

// DefaultAssetServiceConfig returns the default configuration.
func DefaultAssetServiceConfig() AssetServiceConfig {
	return AssetServiceConfig{
		StorageTimeout: 30 * time.Second,
		IndexTimeout:   10 * time.Second,
	}
}

type assetService struct {
	index   repository.AssetIndex
	storage repository.ObjectStorage
	queue   repository.ReconcileQueue

	storageTimeout time.Duration
	indexTimeout   time.Duration
}

// NewAssetService creates a new AssetService instance.
func NewAssetService(
	index repository.AssetIndex,
	storage repository.ObjectStorage,
	queue repository.ReconcileQueue,
	cfg AssetServiceConfig,
) AssetService {
	return &assetService{
		index:          index,
		storage:        storage,
		queue:          queue,
		storageTimeout: cfg.StorageTimeout,
		indexTimeout:   cfg.IndexTimeout,
	}
}

// Save stores a new asset. Order of side effects: object store first,
// index second. A failed upload leaves no partial state; a failed index
// insert leaves the uploaded object in place and reports the storage
// key loudly, because losing the binary is worse than having a
// temporarily unindexed one.
func (s *assetService) Save(ctx context.Context, input SaveAssetInput) (*model.Asset, error) {
	asset, err := model.NewAsset(input.Name, input.Location, input.FileName, input.SizeBytes)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusError).Inc()
		return nil, err
	}
	asset.Description = input.Description
	asset.Tags = input.Tags

	// Advisory uniqueness check. The unique index on the name column is
	// the final arbiter; this only catches the common case before the
	// upload side effect.
	existing, err := s.findByNamePrefix(ctx, asset.Name)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusError).Inc()
		return nil, err
	}
	if existing != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusError).Inc()
		return nil, fmt.Errorf("%w: %q collides with %q", repository.ErrDuplicateAsset, asset.Name, existing.Name)
	}

	if err := s.upload(ctx, asset.StorageKey, input.File, input.SizeBytes, asset.ContentType); err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusError).Inc()
		return nil, err
	}

	if err := s.insert(ctx, asset); err != nil {
		// The object is already committed. It is deliberately not
		// deleted here: the orphan is reported for out-of-band repair
		// instead, carrying the storage key.
		s.reportOrphan(ctx, repository.OrphanEvent{
			Kind:       repository.OrphanObjectOnly,
			StorageKey: asset.StorageKey,
			Reason:     fmt.Sprintf("index insert failed: %v", err),
			OccurredAt: time.Now(),
		})
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusError).Inc()
		return nil, fmt.Errorf("index insert failed for stored object %q: %w", asset.StorageKey, err)
	}

	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpSave, metrics.StatusSuccess).Inc()
	return asset, nil
}

// Get streams raw object bytes. The content type comes from the
// requested path's extension alone, falling back to
// application/octet-stream; the index is never consulted.
func (s *assetService) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	contentType := model.ExtensionOf(key).ContentType()

	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	reader, _, err := s.storage.Download(ctx, key)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpGet, metrics.StatusError).Inc()
		return nil, "", err
	}

	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpGet, metrics.StatusSuccess).Inc()
	return reader, contentType, nil
}

// Describe returns indexed metadata by id.
func (s *assetService) Describe(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.FindByID(ctx, id)
}

// Update mirrors Save's ordering: new object first, index second. When
// the storage key changes, the old object is deleted only after both
// the new object and the index row are confirmed, so there is never a
// window with zero valid copies of the bytes.
func (s *assetService) Update(ctx context.Context, input UpdateAssetInput) (*UpdateAssetOutput, error) {
	asset, err := s.findByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) && input.CreateIfMissing {
			return s.createFromUpdate(ctx, input)
		}
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
		return nil, err
	}

	oldKey := asset.StorageKey

	if input.File != nil {
		if err := asset.ReplaceContent(input.FileName, input.SizeBytes); err != nil {
			metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
			return nil, err
		}
	}

	if input.NewName != nil || input.NewLocation != nil {
		name := asset.Name
		if input.NewName != nil {
			name = *input.NewName
		}
		loc := asset.Location
		if input.NewLocation != nil {
			loc = *input.NewLocation
		}

		if name != asset.Name {
			collision, err := s.findByNamePrefix(ctx, name)
			if err != nil {
				metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
				return nil, err
			}
			if collision != nil && collision.ID != asset.ID {
				metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
				return nil, fmt.Errorf("%w: %q collides with %q", repository.ErrDuplicateAsset, name, collision.Name)
			}
		}

		if err := asset.Rename(name, loc); err != nil {
			metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
			return nil, err
		}
	}

	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.Tags != nil {
		asset.Tags = *input.Tags
	}
	asset.UpdatedAt = time.Now()

	keyChanged := asset.StorageKey != oldKey

	switch {
	case input.File != nil:
		// New content always overwrites at the (possibly new) key.
		if err := s.upload(ctx, asset.StorageKey, input.File, input.SizeBytes, asset.ContentType); err != nil {
			metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
			return nil, err
		}
	case keyChanged:
		// Rename without new content: copy the existing bytes to the new
		// key before touching the index.
		if err := s.copyObject(ctx, oldKey, asset.StorageKey, asset.ContentType); err != nil {
			metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
			return nil, err
		}
	}

	if err := s.replace(ctx, asset); err != nil {
		if keyChanged || input.File != nil {
			s.reportOrphan(ctx, repository.OrphanEvent{
				Kind:       repository.OrphanObjectOnly,
				AssetID:    asset.ID,
				StorageKey: asset.StorageKey,
				Reason:     fmt.Sprintf("index replace failed: %v", err),
				OccurredAt: time.Now(),
			})
		}
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
		return nil, fmt.Errorf("index replace failed for stored object %q: %w", asset.StorageKey, err)
	}

	out := &UpdateAssetOutput{Asset: asset}

	if keyChanged {
		// Both the new object and the index row are confirmed; the old
		// object is now redundant. Its deletion is best effort.
		if err := s.deleteObject(ctx, oldKey); err != nil {
			out.Warning = fmt.Sprintf("previous object %q could not be deleted: %v", oldKey, err)
			slog.Warn("stale object left behind after rename",
				slog.String("asset_id", asset.ID.String()),
				slog.String("old_key", oldKey),
				slog.String("error", err.Error()),
			)
			s.reportOrphan(ctx, repository.OrphanEvent{
				Kind:       repository.OrphanObjectOnly,
				AssetID:    asset.ID,
				StorageKey: oldKey,
				Reason:     "stale object after rename",
				OccurredAt: time.Now(),
			})
			metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusWarning).Inc()
			return out, nil
		}
	}

	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusSuccess).Inc()
	return out, nil
}

// createFromUpdate handles the CreateIfMissing path of Update.
func (s *assetService) createFromUpdate(ctx context.Context, input UpdateAssetInput) (*UpdateAssetOutput, error) {
	if input.File == nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpUpdate, metrics.StatusError).Inc()
		return nil, model.ErrEmptyFile
	}

	save := SaveAssetInput{
		File:      input.File,
		SizeBytes: input.SizeBytes,
		FileName:  input.FileName,
	}
	if input.NewName != nil {
		save.Name = *input.NewName
	}
	if input.NewLocation != nil {
		save.Location = *input.NewLocation
	}
	if input.Description != nil {
		save.Description = *input.Description
	}
	if input.Tags != nil {
		save.Tags = *input.Tags
	}

	asset, err := s.Save(ctx, save)
	if err != nil {
		return nil, err
	}
	return &UpdateAssetOutput{Asset: asset}, nil
}

// Delete removes the index entry and, best effort, the object. The
// index delete decides the overall outcome: an index entry pointing at
// a missing object is strictly worse than an orphaned object, so
// object-store failure only produces a warning.
func (s *assetService) Delete(ctx context.Context, id uuid.UUID) DeleteResult {
	asset, err := s.findByID(ctx, id)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusError).Inc()
		if errors.Is(err, repository.ErrAssetNotFound) {
			return DeleteResult{Success: false, Message: "not found"}
		}
		return DeleteResult{Success: false, Message: err.Error()}
	}

	result := DeleteResult{}

	// The recorded storage key is authoritative; it is never recomputed
	// here in case the naming scheme changed since the asset was written.
	if err := s.deleteObject(ctx, asset.StorageKey); err != nil {
		result.Warning = fmt.Sprintf("object %q could not be deleted: %v", asset.StorageKey, err)
		slog.Warn("object-store delete failed, proceeding with index delete",
			slog.String("asset_id", id.String()),
			slog.String("storage_key", asset.StorageKey),
			slog.String("error", err.Error()),
		)
		s.reportOrphan(ctx, repository.OrphanEvent{
			Kind:       repository.OrphanObjectOnly,
			AssetID:    asset.ID,
			StorageKey: asset.StorageKey,
			Reason:     "delete left object behind",
			OccurredAt: time.Now(),
		})
	}

	if err := s.deleteIndexEntry(ctx, id); err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusError).Inc()
		result.Success = false
		result.Message = fmt.Sprintf("index delete failed: %v", err)
		return result
	}

	result.Success = true
	result.Message = "deleted"
	if result.Warning != "" {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusWarning).Inc()
	} else {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusSuccess).Inc()
	}
	return result
}

// List is a pure read-through to the index; the object store is never touched.
func (s *assetService) List(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) (*AssetPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()

	items, total, err := s.index.List(ctx, filter, sort, page)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpList, metrics.StatusError).Inc()
		return nil, err
	}

	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpList, metrics.StatusSuccess).Inc()
	return &AssetPage{Items: items, TotalCount: total}, nil
}

// Exists reports whether an object is stored under key.
func (s *assetService) Exists(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.storage.Exists(ctx, key)
}

// PublicURL derives the externally reachable URL for key.
func (s *assetService) PublicURL(key string) string {
	return s.storage.PublicURL(key)
}

// copyObject streams the object at src into dst. Used for renames
// without fresh content.
func (s *assetService) copyObject(ctx context.Context, src, dst, contentType string) error {
	downloadCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	reader, info, err := s.storage.Download(downloadCtx, src)
	if err != nil {
		return err
	}
	defer reader.Close()

	return s.upload(ctx, dst, reader, info.Size, contentType)
}

func (s *assetService) findByNamePrefix(ctx context.Context, stem string) (*model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.FindByNamePrefix(ctx, stem)
}

func (s *assetService) findByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.FindByID(ctx, id)
}

func (s *assetService) insert(ctx context.Context, asset *model.Asset) error {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.Insert(ctx, asset)
}

func (s *assetService) replace(ctx context.Context, asset *model.Asset) error {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.Replace(ctx, asset)
}

func (s *assetService) deleteIndexEntry(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.indexTimeout)
	defer cancel()
	return s.index.DeleteByID(ctx, id)
}

func (s *assetService) upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.storage.Upload(ctx, key, reader, size, contentType)
}

func (s *assetService) deleteObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.storage.Delete(ctx, key)
}

// reportOrphan publishes a partial-failure report. Best effort: a
// publish failure is logged and counted, never propagated, and the
// publish survives cancellation of the request that caused the orphan.
func (s *assetService) reportOrphan(ctx context.Context, event repository.OrphanEvent) {
	if s.queue == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.indexTimeout)
	defer cancel()

	if err := s.queue.PublishOrphan(publishCtx, event); err != nil {
		metrics.OrphanEventsTotal.WithLabelValues(string(event.Kind), metrics.OrphanStagePublishFailed).Inc()
		slog.Warn("failed to publish orphan event",
			slog.String("kind", string(event.Kind)),
			slog.String("storage_key", event.StorageKey),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.OrphanEventsTotal.WithLabelValues(string(event.Kind), metrics.OrphanStagePublished).Inc()
}
