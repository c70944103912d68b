// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mediavault"

var (
	// AssetOperationsTotal tracks media-asset operations.
	// Labels:
	//   - operation: save, get, update, delete, list
	//   - status: success, error, warning
	AssetOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_operations_total",
			Help:      "Total number of media asset operations",
		},
		[]string{"operation", "status"},
	)

	// OrphanEventsTotal tracks partial-failure orphan reports.
	// Labels:
	//   - kind: object_only, index_only
	//   - stage: published, repaired, publish_failed
	OrphanEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_events_total",
			Help:      "Total number of orphan events observed",
		},
		[]string{"kind", "stage"},
	)

	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Asset operation constants.
const (
	AssetOpSave   = "save"
	AssetOpGet    = "get"
	AssetOpUpdate = "update"
	AssetOpDelete = "delete"
	AssetOpList   = "list"
)

// Operation status constants.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
)

// Orphan event stage constants.
const (
	OrphanStagePublished     = "published"
	OrphanStageRepaired      = "repaired"
	OrphanStagePublishFailed = "publish_failed"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
