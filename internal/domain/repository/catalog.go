package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trippix/mediavault/internal/domain/model"
)

// ProvinceRepository persists provinces.
type ProvinceRepository interface {
	Create(ctx context.Context, p *model.Province) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Province, error)
	List(ctx context.Context, nameFilter string) ([]*model.Province, error)
	Update(ctx context.Context, p *model.Province) error
	// Delete removes a province. Returns ErrInUse if cities still
	// reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CityRepository persists cities.
type CityRepository interface {
	Create(ctx context.Context, c *model.City) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.City, error)
	ListByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error)
	List(ctx context.Context, nameFilter string) ([]*model.City, error)
	Update(ctx context.Context, c *model.City) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlaceRepository persists places.
type PlaceRepository interface {
	Create(ctx context.Context, p *model.Place) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Place, error)
	ListByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error)
	List(ctx context.Context, nameFilter string) ([]*model.Place, error)
	Update(ctx context.Context, p *model.Place) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, t *model.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	List(ctx context.Context, nameFilter string) ([]*model.Tag, error)
	Update(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}
