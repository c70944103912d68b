package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const assetColumns = `id, name, original_file_name, province, city, place,
	storage_key, size_bytes, content_type, extension, description, tags,
	created_at, updated_at`

// AssetIndex implements repository.AssetIndex using PostgreSQL.
// Name uniqueness is enforced by a unique index on lower(name); the
// insert surfaces violations as ErrDuplicateAsset so the service-level
// prefix lookup stays advisory.
type AssetIndex struct {
	db DBTX
}

// NewAssetIndex creates a new AssetIndex instance.
func NewAssetIndex(db DBTX) *AssetIndex {
	return &AssetIndex{db: db}
}

// Insert persists a new asset document. The database assigns the id.
func (r *AssetIndex) Insert(ctx context.Context, asset *model.Asset) error {
	const query = `
		INSERT INTO assets (name, original_file_name, province, city, place,
			storage_key, size_bytes, content_type, extension, description, tags,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		asset.Name,
		asset.OriginalFileName,
		nullString(asset.Location.Province),
		nullString(asset.Location.City),
		nullString(asset.Location.Place),
		asset.StorageKey,
		asset.SizeBytes,
		asset.ContentType,
		asset.Extension.String(),
		nullString(asset.Description),
		nullString(asset.Tags),
		asset.CreatedAt,
		asset.UpdatedAt,
	).Scan(&asset.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateAsset
		}
		return fmt.Errorf("%w: insert asset: %v", repository.ErrIndexBackend, err)
	}

	return nil
}

// FindByNamePrefix returns the first asset whose name starts with stem,
// compared case-insensitively. Returns nil, nil when nothing matches.
func (r *AssetIndex) FindByNamePrefix(ctx context.Context, stem string) (*model.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM assets
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT 1
	`, assetColumns)

	asset, err := scanAsset(r.db.QueryRow(ctx, query, escapeLike(stem)+"%"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find asset by name prefix: %v", repository.ErrIndexBackend, err)
	}

	return asset, nil
}

// FindByID retrieves an asset by its unique identifier.
func (r *AssetIndex) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1`, assetColumns)

	asset, err := scanAsset(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAssetNotFound
		}
		return nil, fmt.Errorf("%w: find asset by id: %v", repository.ErrIndexBackend, err)
	}

	return asset, nil
}

// FindByStorageKey retrieves an asset by its recorded storage key.
func (r *AssetIndex) FindByStorageKey(ctx context.Context, key string) (*model.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE storage_key = $1`, assetColumns)

	asset, err := scanAsset(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAssetNotFound
		}
		return nil, fmt.Errorf("%w: find asset by storage key: %v", repository.ErrIndexBackend, err)
	}

	return asset, nil
}

// List returns the filtered, sorted page of assets plus the total match
// count. Text filters match case-insensitive substrings; the free-text
// query is ORed across name, original file name, province, place,
// description and tags.
func (r *AssetIndex) List(ctx context.Context, filter repository.AssetFilter, sort repository.AssetSort, page repository.Page) ([]*model.Asset, int, error) {
	page = page.Normalize()

	where, args := buildAssetFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM assets
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, assetColumns, where, orderClause(sort), len(args)+1, len(args)+2)

	args = append(args, page.PerPage, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list assets: %v", repository.ErrIndexBackend, err)
	}
	defer rows.Close()

	var (
		assets []*model.Asset
		total  int
	)
	for rows.Next() {
		asset, rowTotal, err := scanAssetWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scan asset: %v", repository.ErrIndexBackend, err)
		}
		assets = append(assets, asset)
		total = rowTotal
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterate assets: %v", repository.ErrIndexBackend, err)
	}

	return assets, total, nil
}

// Replace overwrites the document identified by asset.ID.
func (r *AssetIndex) Replace(ctx context.Context, asset *model.Asset) error {
	const query = `
		UPDATE assets
		SET name = $2, original_file_name = $3, province = $4, city = $5,
			place = $6, storage_key = $7, size_bytes = $8, content_type = $9,
			extension = $10, description = $11, tags = $12, updated_at = $13
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		asset.ID,
		asset.Name,
		asset.OriginalFileName,
		nullString(asset.Location.Province),
		nullString(asset.Location.City),
		nullString(asset.Location.Place),
		asset.StorageKey,
		asset.SizeBytes,
		asset.ContentType,
		asset.Extension.String(),
		nullString(asset.Description),
		nullString(asset.Tags),
		asset.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateAsset
		}
		return fmt.Errorf("%w: replace asset: %v", repository.ErrIndexBackend, err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrAssetNotFound
	}

	return nil
}

// DeleteByID removes the document.
func (r *AssetIndex) DeleteByID(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM assets WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: delete asset: %v", repository.ErrIndexBackend, err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrAssetNotFound
	}

	return nil
}

// buildAssetFilter constructs the WHERE clause and its arguments.
func buildAssetFilter(filter repository.AssetFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	contains := func(expr, value string) {
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", expr, len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR original_file_name ILIKE $%d OR province ILIKE $%d OR place ILIKE $%d OR description ILIKE $%d OR tags ILIKE $%d)",
			n, n, n, n, n, n,
		))
	}
	if filter.Name != "" {
		contains("name", filter.Name)
	}
	if filter.Province != "" {
		contains("province", filter.Province)
	}
	if filter.City != "" {
		contains("city", filter.City)
	}
	if filter.Place != "" {
		contains("place", filter.Place)
	}
	if filter.Extension != "" {
		contains("extension", filter.Extension)
	}
	if filter.Tags != "" {
		contains("tags", filter.Tags)
	}
	if filter.Description != "" {
		contains("description", filter.Description)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderClause maps the sort spec onto a whitelisted ORDER BY clause.
// Unknown fields fall back to created_at DESC.
func orderClause(sort repository.AssetSort) string {
	field := sort.Field
	if !field.IsValid() {
		return "created_at DESC"
	}
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", field, dir)
}

// escapeLike escapes LIKE/ILIKE metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanAsset(row pgx.Row) (*model.Asset, error) {
	var (
		asset       model.Asset
		province    *string
		city        *string
		place       *string
		extension   string
		description *string
		tags        *string
	)

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.OriginalFileName,
		&province,
		&city,
		&place,
		&asset.StorageKey,
		&asset.SizeBytes,
		&asset.ContentType,
		&extension,
		&description,
		&tags,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fillAsset(&asset, province, city, place, extension, description, tags)
	return &asset, nil
}

func scanAssetWithTotal(rows pgx.Rows) (*model.Asset, int, error) {
	var (
		asset       model.Asset
		province    *string
		city        *string
		place       *string
		extension   string
		description *string
		tags        *string
		total       int
	)

	err := rows.Scan(
		&asset.ID,
		&asset.Name,
		&asset.OriginalFileName,
		&province,
		&city,
		&place,
		&asset.StorageKey,
		&asset.SizeBytes,
		&asset.ContentType,
		&extension,
		&description,
		&tags,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	fillAsset(&asset, province, city, place, extension, description, tags)
	return &asset, total, nil
}

func fillAsset(asset *model.Asset, province, city, place *string, extension string, description, tags *string) {
	asset.Extension = model.Extension(extension)
	if province != nil {
		asset.Location.Province = *province
	}
	if city != nil {
		asset.Location.City = *city
	}
	if place != nil {
		asset.Location.Place = *place
	}
	if description != nil {
		asset.Description = *description
	}
	if tags != nil {
		asset.Tags = *tags
	}
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Compile-time verification that AssetIndex implements repository.AssetIndex.
var _ repository.AssetIndex = (*AssetIndex)(nil)
