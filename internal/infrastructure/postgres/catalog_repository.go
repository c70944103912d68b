package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
)

// The catalog repositories are thin pass-through CRUD over single
// tables. Name collisions within a collection map 23505 to
// ErrDuplicateName; deletes blocked by dependents map 23503 to ErrInUse.

// ProvinceRepository implements repository.ProvinceRepository using PostgreSQL.
type ProvinceRepository struct {
	db DBTX
}

func NewProvinceRepository(db DBTX) *ProvinceRepository {
	return &ProvinceRepository{db: db}
}

func (r *ProvinceRepository) Create(ctx context.Context, p *model.Province) error {
	const query = `
		INSERT INTO provinces (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return mapCatalogError("create province", err)
}

func (r *ProvinceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Province, error) {
	const query = `SELECT id, name, created_at, updated_at FROM provinces WHERE id = $1`

	var p model.Province
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProvinceNotFound
		}
		return nil, fmt.Errorf("%w: get province: %v", repository.ErrIndexBackend, err)
	}
	return &p, nil
}

func (r *ProvinceRepository) List(ctx context.Context, nameFilter string) ([]*model.Province, error) {
	const query = `
		SELECT id, name, created_at, updated_at FROM provinces
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: list provinces: %v", repository.ErrIndexBackend, err)
	}
	defer rows.Close()

	var out []*model.Province
	for rows.Next() {
		var p model.Province
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan province: %v", repository.ErrIndexBackend, err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate provinces: %v", repository.ErrIndexBackend, err)
	}
	return out, nil
}

func (r *ProvinceRepository) Update(ctx context.Context, p *model.Province) error {
	const query = `UPDATE provinces SET name = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, p.ID, p.Name, p.UpdatedAt)
	if err != nil {
		return mapCatalogError("update province", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrProvinceNotFound
	}
	return nil
}

func (r *ProvinceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM provinces WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapCatalogError("delete province", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrProvinceNotFound
	}
	return nil
}

// CityRepository implements repository.CityRepository using PostgreSQL.
type CityRepository struct {
	db DBTX
}

func NewCityRepository(db DBTX) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) Create(ctx context.Context, c *model.City) error {
	const query = `
		INSERT INTO cities (province_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, c.ProvinceID, c.Name, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return mapCatalogError("create city", err)
}

func (r *CityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.City, error) {
	const query = `SELECT id, province_id, name, created_at, updated_at FROM cities WHERE id = $1`

	var c model.City
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.ProvinceID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCityNotFound
		}
		return nil, fmt.Errorf("%w: get city: %v", repository.ErrIndexBackend, err)
	}
	return &c, nil
}

func (r *CityRepository) ListByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error) {
	const query = `
		SELECT id, province_id, name, created_at, updated_at FROM cities
		WHERE province_id = $1
		ORDER BY name
	`
	return r.scanCities(ctx, query, provinceID)
}

func (r *CityRepository) List(ctx context.Context, nameFilter string) ([]*model.City, error) {
	const query = `
		SELECT id, province_id, name, created_at, updated_at FROM cities
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	return r.scanCities(ctx, query, nameFilter)
}

func (r *CityRepository) scanCities(ctx context.Context, query string, arg any) ([]*model.City, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%w: list cities: %v", repository.ErrIndexBackend, err)
	}
	defer rows.Close()

	var out []*model.City
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan city: %v", repository.ErrIndexBackend, err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate cities: %v", repository.ErrIndexBackend, err)
	}
	return out, nil
}

func (r *CityRepository) Update(ctx context.Context, c *model.City) error {
	const query = `UPDATE cities SET province_id = $2, name = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, c.ID, c.ProvinceID, c.Name, c.UpdatedAt)
	if err != nil {
		return mapCatalogError("update city", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCityNotFound
	}
	return nil
}

func (r *CityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM cities WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapCatalogError("delete city", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCityNotFound
	}
	return nil
}

// PlaceRepository implements repository.PlaceRepository using PostgreSQL.
type PlaceRepository struct {
	db DBTX
}

func NewPlaceRepository(db DBTX) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Create(ctx context.Context, p *model.Place) error {
	const query = `
		INSERT INTO places (city_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, p.CityID, p.Name, nullString(p.Description), p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return mapCatalogError("create place", err)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	const query = `SELECT id, city_id, name, description, created_at, updated_at FROM places WHERE id = $1`

	p, err := scanPlace(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: get place: %v", repository.ErrIndexBackend, err)
	}
	return p, nil
}

func (r *PlaceRepository) ListByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error) {
	const query = `
		SELECT id, city_id, name, description, created_at, updated_at FROM places
		WHERE city_id = $1
		ORDER BY name
	`
	return r.scanPlaces(ctx, query, cityID)
}

func (r *PlaceRepository) List(ctx context.Context, nameFilter string) ([]*model.Place, error) {
	const query = `
		SELECT id, city_id, name, description, created_at, updated_at FROM places
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	return r.scanPlaces(ctx, query, nameFilter)
}

func (r *PlaceRepository) scanPlaces(ctx context.Context, query string, arg any) ([]*model.Place, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%w: list places: %v", repository.ErrIndexBackend, err)
	}
	defer rows.Close()

	var out []*model.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan place: %v", repository.ErrIndexBackend, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate places: %v", repository.ErrIndexBackend, err)
	}
	return out, nil
}

func (r *PlaceRepository) Update(ctx context.Context, p *model.Place) error {
	const query = `UPDATE places SET city_id = $2, name = $3, description = $4, updated_at = $5 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, p.ID, p.CityID, p.Name, nullString(p.Description), p.UpdatedAt)
	if err != nil {
		return mapCatalogError("update place", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaceNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM places WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapCatalogError("delete place", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaceNotFound
	}
	return nil
}

// TagRepository implements repository.TagRepository using PostgreSQL.
type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, t *model.Tag) error {
	const query = `
		INSERT INTO tags (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, t.Name, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	return mapCatalogError("create tag", err)
}

func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	const query = `SELECT id, name, created_at, updated_at FROM tags WHERE id = $1`

	var t model.Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTagNotFound
		}
		return nil, fmt.Errorf("%w: get tag: %v", repository.ErrIndexBackend, err)
	}
	return &t, nil
}

func (r *TagRepository) List(ctx context.Context, nameFilter string) ([]*model.Tag, error) {
	const query = `
		SELECT id, name, created_at, updated_at FROM tags
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: list tags: %v", repository.ErrIndexBackend, err)
	}
	defer rows.Close()

	var out []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan tag: %v", repository.ErrIndexBackend, err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tags: %v", repository.ErrIndexBackend, err)
	}
	return out, nil
}

func (r *TagRepository) Update(ctx context.Context, t *model.Tag) error {
	const query = `UPDATE tags SET name = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, t.ID, t.Name, t.UpdatedAt)
	if err != nil {
		return mapCatalogError("update tag", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM tags WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapCatalogError("delete tag", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTagNotFound
	}
	return nil
}

func scanPlace(row pgx.Row) (*model.Place, error) {
	var (
		p           model.Place
		description *string
	)
	if err := row.Scan(&p.ID, &p.CityID, &p.Name, &description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	return &p, nil
}

func mapCatalogError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return repository.ErrDuplicateName
		case "23503":
			return repository.ErrInUse
		}
	}
	return fmt.Errorf("%w: %s: %v", repository.ErrIndexBackend, op, err)
}

var (
	_ repository.ProvinceRepository = (*ProvinceRepository)(nil)
	_ repository.CityRepository     = (*CityRepository)(nil)
	_ repository.PlaceRepository    = (*PlaceRepository)(nil)
	_ repository.TagRepository      = (*TagRepository)(nil)
)
