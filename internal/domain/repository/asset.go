package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trippix/mediavault/internal/domain/model"
)

// SortField identifies an asset column assets may be sorted by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByProvince  SortField = "province"
	SortByCity      SortField = "city"
	SortByPlace     SortField = "place"
	SortBySize      SortField = "size_bytes"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

func (f SortField) IsValid() bool {
	switch f {
	case SortByName, SortByProvince, SortByCity, SortByPlace, SortBySize, SortByCreatedAt, SortByUpdatedAt:
		return true
	default:
		return false
	}
}

// AssetFilter narrows a listing. All string fields match
// case-insensitively as substrings; Query is ORed across name, original
// file name, province, place, description and tags.
type AssetFilter struct {
	Query       string
	Name        string
	Province    string
	City        string
	Place       string
	Extension   string
	Tags        string
	Description string
}

// AssetSort describes listing order. A zero value sorts by creation
// time, newest first.
type AssetSort struct {
	Field      SortField
	Descending bool
}

// Page describes offset/limit pagination. Page numbering starts at 1.
type Page struct {
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps the page parameters into their valid ranges.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the number of rows to skip: (page-1) * perPage.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// AssetIndex defines the metadata-index contract for assets.
// Implementations should be provided by the infrastructure layer.
type AssetIndex interface {
	// Insert persists a new asset document. The index assigns the ID and
	// returns it on the entity. Returns ErrDuplicateAsset when the name
	// violates the backend uniqueness guarantee.
	Insert(ctx context.Context, asset *model.Asset) error

	// FindByNamePrefix returns the first asset whose name starts with
	// stem, compared case-insensitively. Returns nil, nil when no asset
	// matches.
	FindByNamePrefix(ctx context.Context, stem string) (*model.Asset, error)

	// FindByID retrieves an asset by id.
	// Returns ErrAssetNotFound if no such asset exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)

	// FindByStorageKey retrieves an asset by its recorded storage key.
	// Returns ErrAssetNotFound if no such asset exists.
	FindByStorageKey(ctx context.Context, key string) (*model.Asset, error)

	// List returns the filtered, sorted page of assets plus the total
	// match count across all pages.
	List(ctx context.Context, filter AssetFilter, sort AssetSort, page Page) ([]*model.Asset, int, error)

	// Replace overwrites the document identified by asset.ID.
	// Returns ErrAssetNotFound if no row was replaced.
	Replace(ctx context.Context, asset *model.Asset) error

	// DeleteByID removes the document.
	// Returns ErrAssetNotFound if no row was deleted.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
