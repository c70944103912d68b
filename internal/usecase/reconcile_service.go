package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/infrastructure/metrics"
)

const (
	// DefaultReconcileMaxRetries is the retry budget before an orphan
	// event is dropped with an error log.
	DefaultReconcileMaxRetries = 3
)

// ReconcileServiceConfig holds configuration for ReconcileService.
type ReconcileServiceConfig struct {
	// MaxRetries is the maximum number of retry attempts before giving
	// up on an orphan event.
	MaxRetries int
}

// DefaultReconcileServiceConfig returns the default configuration.
func DefaultReconcileServiceConfig() ReconcileServiceConfig {
	return ReconcileServiceConfig{
		MaxRetries: DefaultReconcileMaxRetries,
	}
}

// ReconcileService repairs partial-failure orphans reported by the
// asset service. It re-checks both backends before acting, because the
// inconsistency may have healed (or worsened) since the event was
// published.
type ReconcileService interface {
	// ProcessEvent handles one orphan event from the queue.
	// Returns nil on success or permanent failure (max retries exceeded).
	// Returns an error for transient failures that should trigger a retry.
	ProcessEvent(ctx context.Context, event repository.OrphanEvent) error
}

type reconcileService struct {
	index   repository.AssetIndex
	storage repository.ObjectStorage

	maxRetries int
}

// NewReconcileService creates a new ReconcileService instance.
func NewReconcileService(
	index repository.AssetIndex,
	storage repository.ObjectStorage,
	cfg ReconcileServiceConfig,
) ReconcileService {
	return &reconcileService{
		index:      index,
		storage:    storage,
		maxRetries: cfg.MaxRetries,
	}
}

// ProcessEvent verifies the reported inconsistency still holds and
// repairs it. Retry exhaustion is a permanent failure: the event is
// logged and dropped rather than requeued forever.
func (s *reconcileService) ProcessEvent(ctx context.Context, event repository.OrphanEvent) error {
	if event.RetryCount > s.maxRetries {
		slog.Error("orphan event exceeded retry budget, dropping",
			slog.String("kind", string(event.Kind)),
			slog.String("storage_key", event.StorageKey),
			slog.Int("retry_count", event.RetryCount),
		)
		return nil
	}

	switch event.Kind {
	case repository.OrphanObjectOnly:
		return s.repairObjectOnly(ctx, event)
	case repository.OrphanIndexOnly:
		return s.repairIndexOnly(ctx, event)
	default:
		slog.Warn("unknown orphan kind, dropping event",
			slog.String("kind", string(event.Kind)),
			slog.String("storage_key", event.StorageKey),
		)
		return nil
	}
}

// repairObjectOnly handles an object with no index entry: if an entry
// has appeared under the same storage key the state healed itself;
// otherwise the unreferenced object is removed.
func (s *reconcileService) repairObjectOnly(ctx context.Context, event repository.OrphanEvent) error {
	_, err := s.index.FindByStorageKey(ctx, event.StorageKey)
	switch {
	case err == nil:
		// An index entry now references this key; nothing to repair.
		slog.Info("orphan already healed, index entry exists",
			slog.String("storage_key", event.StorageKey),
		)
		return nil
	case !errors.Is(err, repository.ErrAssetNotFound):
		return fmt.Errorf("check index for %q: %w", event.StorageKey, err)
	}

	if !s.storage.Exists(ctx, event.StorageKey) {
		// Object is gone too; nothing to do.
		return nil
	}

	if err := s.storage.Delete(ctx, event.StorageKey); err != nil {
		return fmt.Errorf("delete orphaned object %q: %w", event.StorageKey, err)
	}

	metrics.OrphanEventsTotal.WithLabelValues(string(event.Kind), metrics.OrphanStageRepaired).Inc()
	slog.Info("removed orphaned object",
		slog.String("storage_key", event.StorageKey),
		slog.String("reason", event.Reason),
	)
	return nil
}

// repairIndexOnly handles an index entry whose object is missing. The
// index is authoritative for what should exist, so the entry is not
// deleted automatically; the inconsistency is surfaced for operator
// review unless the object has meanwhile reappeared.
func (s *reconcileService) repairIndexOnly(ctx context.Context, event repository.OrphanEvent) error {
	if event.AssetID == uuid.Nil {
		slog.Warn("index-only orphan without asset id, dropping",
			slog.String("storage_key", event.StorageKey),
		)
		return nil
	}

	asset, err := s.index.FindByID(ctx, event.AssetID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			// Entry is gone; state is consistent again.
			return nil
		}
		return fmt.Errorf("check index for asset %s: %w", event.AssetID, err)
	}

	if s.storage.Exists(ctx, asset.StorageKey) {
		slog.Info("orphan already healed, object exists",
			slog.String("storage_key", asset.StorageKey),
		)
		return nil
	}

	metrics.OrphanEventsTotal.WithLabelValues(string(event.Kind), metrics.OrphanStageRepaired).Inc()
	slog.Error("index entry references missing object, manual repair required",
		slog.String("asset_id", asset.ID.String()),
		slog.String("storage_key", asset.StorageKey),
		slog.String("reason", event.Reason),
	)
	return nil
}
