package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrphanKind classifies which backend holds the surviving half of a
// partially failed write.
type OrphanKind string

const (
	// OrphanObjectOnly: the object store holds bytes with no index entry
	// (index insert failed or was cancelled after a successful Put).
	OrphanObjectOnly OrphanKind = "object_only"

	// OrphanIndexOnly: the index holds an entry whose object is gone
	// (object-store delete succeeded out of band, or never completed).
	OrphanIndexOnly OrphanKind = "index_only"
)

// OrphanEvent is published when a cross-store operation partially
// fails. It carries everything a reconciliation pass needs: the storage
// key and, when known, the index id.
type OrphanEvent struct {
	Kind       OrphanKind `json:"kind"`
	AssetID    uuid.UUID  `json:"asset_id,omitempty"`
	StorageKey string     `json:"storage_key"`
	Reason     string     `json:"reason"`
	OccurredAt time.Time  `json:"occurred_at"`
	RetryCount int        `json:"retry_count"`
}

// ReconcileQueue defines the interface for the orphan-event queue.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type ReconcileQueue interface {
	// PublishOrphan sends an orphan report to the queue.
	// Used by the API server when a cross-store write partially fails.
	PublishOrphan(ctx context.Context, event OrphanEvent) error

	// ConsumeOrphans starts consuming orphan events from the queue.
	// The handler function is called for each received event.
	// Used by the reconciler service.
	ConsumeOrphans(ctx context.Context, handler func(event OrphanEvent) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
