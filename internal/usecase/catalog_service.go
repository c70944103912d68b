package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
)

// ErrEmptyCatalogName is returned when a catalog entry name is blank.
var ErrEmptyCatalogName = errors.New("name cannot be empty")

// CatalogService is the pass-through CRUD tier over the catalog
// collections. It only adds input trimming and referential checks; the
// repositories' unique indexes enforce name uniqueness.
type CatalogService interface {
	CreateProvince(ctx context.Context, name string) (*model.Province, error)
	GetProvince(ctx context.Context, id uuid.UUID) (*model.Province, error)
	ListProvinces(ctx context.Context, nameFilter string) ([]*model.Province, error)
	RenameProvince(ctx context.Context, id uuid.UUID, name string) (*model.Province, error)
	DeleteProvince(ctx context.Context, id uuid.UUID) error

	CreateCity(ctx context.Context, provinceID uuid.UUID, name string) (*model.City, error)
	GetCity(ctx context.Context, id uuid.UUID) (*model.City, error)
	ListCities(ctx context.Context, nameFilter string) ([]*model.City, error)
	ListCitiesByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error)
	RenameCity(ctx context.Context, id uuid.UUID, name string) (*model.City, error)
	DeleteCity(ctx context.Context, id uuid.UUID) error

	CreatePlace(ctx context.Context, cityID uuid.UUID, name, description string) (*model.Place, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error)
	ListPlaces(ctx context.Context, nameFilter string) ([]*model.Place, error)
	ListPlacesByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error)
	UpdatePlace(ctx context.Context, id uuid.UUID, name, description string) (*model.Place, error)
	DeletePlace(ctx context.Context, id uuid.UUID) error

	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	ListTags(ctx context.Context, nameFilter string) ([]*model.Tag, error)
	RenameTag(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	provinces repository.ProvinceRepository
	cities    repository.CityRepository
	places    repository.PlaceRepository
	tags      repository.TagRepository
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(
	provinces repository.ProvinceRepository,
	cities repository.CityRepository,
	places repository.PlaceRepository,
	tags repository.TagRepository,
) CatalogService {
	return &catalogService{
		provinces: provinces,
		cities:    cities,
		places:    places,
		tags:      tags,
	}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyCatalogName
	}
	return name, nil
}

func (s *catalogService) CreateProvince(ctx context.Context, name string) (*model.Province, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &model.Province{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.provinces.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) GetProvince(ctx context.Context, id uuid.UUID) (*model.Province, error) {
	return s.provinces.GetByID(ctx, id)
}

func (s *catalogService) ListProvinces(ctx context.Context, nameFilter string) ([]*model.Province, error) {
	return s.provinces.List(ctx, nameFilter)
}

func (s *catalogService) RenameProvince(ctx context.Context, id uuid.UUID, name string) (*model.Province, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	p, err := s.provinces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	if err := s.provinces.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) DeleteProvince(ctx context.Context, id uuid.UUID) error {
	return s.provinces.Delete(ctx, id)
}

func (s *catalogService) CreateCity(ctx context.Context, provinceID uuid.UUID, name string) (*model.City, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	// A city must hang under an existing province.
	if _, err := s.provinces.GetByID(ctx, provinceID); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &model.City{ProvinceID: provinceID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.cities.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) GetCity(ctx context.Context, id uuid.UUID) (*model.City, error) {
	return s.cities.GetByID(ctx, id)
}

func (s *catalogService) ListCities(ctx context.Context, nameFilter string) ([]*model.City, error) {
	return s.cities.List(ctx, nameFilter)
}

func (s *catalogService) ListCitiesByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error) {
	return s.cities.ListByProvince(ctx, provinceID)
}

func (s *catalogService) RenameCity(ctx context.Context, id uuid.UUID, name string) (*model.City, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.cities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	if err := s.cities.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) DeleteCity(ctx context.Context, id uuid.UUID) error {
	return s.cities.Delete(ctx, id)
}

func (s *catalogService) CreatePlace(ctx context.Context, cityID uuid.UUID, name, description string) (*model.Place, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.cities.GetByID(ctx, cityID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &model.Place{CityID: cityID, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	if err := s.places.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	return s.places.GetByID(ctx, id)
}

func (s *catalogService) ListPlaces(ctx context.Context, nameFilter string) ([]*model.Place, error) {
	return s.places.List(ctx, nameFilter)
}

func (s *catalogService) ListPlacesByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error) {
	return s.places.ListByCity(ctx, cityID)
}

func (s *catalogService) UpdatePlace(ctx context.Context, id uuid.UUID, name, description string) (*model.Place, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	if err := s.places.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) DeletePlace(ctx context.Context, id uuid.UUID) error {
	return s.places.Delete(ctx, id)
}

func (s *catalogService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	t := &model.Tag{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *catalogService) ListTags(ctx context.Context, nameFilter string) ([]*model.Tag, error) {
	return s.tags.List(ctx, nameFilter)
}

func (s *catalogService) RenameTag(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.UpdatedAt = time.Now()
	if err := s.tags.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *catalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.tags.Delete(ctx, id)
}
