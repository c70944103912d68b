package repository

import "errors"

var (
	// ErrAssetNotFound is returned when an asset cannot be found in the index.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrDuplicateAsset is returned when an asset name collides with an
	// existing one. The unique index on the name column is the final
	// arbiter; the service-level prefix lookup is only an advisory fast path.
	ErrDuplicateAsset = errors.New("asset name already exists")

	// ErrObjectNotFound is returned when an object is absent from the object store.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrStorageBackend wraps object-store transport or backend failures.
	ErrStorageBackend = errors.New("object storage backend error")

	// ErrIndexBackend wraps metadata-index transport or backend failures.
	ErrIndexBackend = errors.New("metadata index backend error")

	ErrProvinceNotFound = errors.New("province not found")
	ErrCityNotFound     = errors.New("city not found")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrTagNotFound      = errors.New("tag not found")

	// ErrDuplicateName is returned when a catalog entry name collides
	// within its collection.
	ErrDuplicateName = errors.New("name already exists")

	// ErrInUse is returned when a catalog entry still has dependents.
	ErrInUse = errors.New("entry is referenced by other records")
)
