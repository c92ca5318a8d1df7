// Package storage is the pgx-backed media catalog repository. All row access
// for media_assets and blog_posts goes through here; multi-row folder and
// reorder mutations execute as single statements or one transaction so a
// partial failure cannot leave the catalog split.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swairua/kennedynespot/internal/entities"
)

type dbStorage struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, databaseDSN string) (*dbStorage, error) {
	pool, err := pgxpool.New(ctx, databaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &dbStorage{dbpool: pool}, nil
}

func (s *dbStorage) Ping(ctx context.Context) error {
	return s.dbpool.Ping(ctx)
}

func (s *dbStorage) Close() {
	s.dbpool.Close()
}

const assetColumns = `id, url, alt, credit, folder, order_index, sizes,
	original_size, optimized_size, width, height, created_at, updated_at`

// InsertAsset creates one catalog row and returns it with generated fields
// filled in.
func (s *dbStorage) InsertAsset(ctx context.Context, a entities.MediaAsset) (entities.MediaAsset, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	sizes, err := json.Marshal(a.Sizes)
	if err != nil {
		return entities.MediaAsset{}, fmt.Errorf("marshal sizes: %w", err)
	}

	row := s.dbpool.QueryRow(ctx, `
		INSERT INTO media_assets
			(id, url, alt, credit, folder, order_index, sizes, original_size, optimized_size, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+assetColumns,
		a.ID, a.URL, a.Alt, a.Credit, a.Folder, a.OrderIndex, sizes,
		a.OriginalSize, a.OptimizedSize, a.Width, a.Height,
	)

	return scanAsset(row)
}

// ListAssets returns the whole catalog in presentation order: root (null
// folder) first, then folders ascending; explicit order wins inside a folder,
// ties break newest-first.
func (s *dbStorage) ListAssets(ctx context.Context) ([]entities.MediaAsset, error) {
	rows, err := s.dbpool.Query(ctx, `
		SELECT `+assetColumns+`
		FROM media_assets
		ORDER BY folder ASC NULLS FIRST, order_index ASC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []entities.MediaAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *dbStorage) GetAsset(ctx context.Context, id string) (entities.MediaAsset, error) {
	row := s.dbpool.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM media_assets WHERE id = $1`, id)

	a, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.MediaAsset{}, entities.ErrNotFound
	}
	return a, err
}

// UpdateAsset merges the non-nil fields of upd into the row.
func (s *dbStorage) UpdateAsset(ctx context.Context, id string, upd entities.AssetUpdate) error {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(expr string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf(expr, len(args)))
	}

	switch {
	case upd.ClearAlt:
		set = append(set, "alt = NULL")
	case upd.Alt != nil:
		add("alt = $%d", *upd.Alt)
	}
	if upd.Credit != nil {
		add("credit = $%d", *upd.Credit)
	}
	switch {
	case upd.ClearFolder:
		set = append(set, "folder = NULL")
	case upd.Folder != nil:
		add("folder = $%d", *upd.Folder)
	}
	if upd.OrderIndex != nil {
		add("order_index = $%d", *upd.OrderIndex)
	}

	tag, err := s.dbpool.Exec(ctx,
		fmt.Sprintf("UPDATE media_assets SET %s WHERE id = $1", strings.Join(set, ", ")), args...)
	if err != nil {
		return fmt.Errorf("update asset %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (s *dbStorage) DeleteAsset(ctx context.Context, id string) error {
	tag, err := s.dbpool.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// ReorderAssets rewrites order_index for the given id sequence inside one
// transaction: ids[i] gets startIndex+i.
func (s *dbStorage) ReorderAssets(ctx context.Context, ids []string, startIndex int) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			`UPDATE media_assets SET order_index = $2, updated_at = now() WHERE id = $1`,
			id, startIndex+i)
		if err != nil {
			return fmt.Errorf("reorder asset %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return entities.ErrNotFound
		}
	}

	return tx.Commit(ctx)
}

// RenameFolder moves every asset from oldName to newName in one statement and
// reports how many rows moved.
func (s *dbStorage) RenameFolder(ctx context.Context, oldName, newName string) (int64, error) {
	tag, err := s.dbpool.Exec(ctx,
		`UPDATE media_assets SET folder = $2, updated_at = now() WHERE folder = $1`,
		oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("rename folder %q: %w", oldName, err)
	}
	return tag.RowsAffected(), nil
}

// ClearFolder sends every asset in the folder back to root (folder NULL).
func (s *dbStorage) ClearFolder(ctx context.Context, name string) (int64, error) {
	tag, err := s.dbpool.Exec(ctx,
		`UPDATE media_assets SET folder = NULL, updated_at = now() WHERE folder = $1`,
		name)
	if err != nil {
		return 0, fmt.Errorf("clear folder %q: %w", name, err)
	}
	return tag.RowsAffected(), nil
}

// ListPublishedPosts feeds the build-time OG generator.
func (s *dbStorage) ListPublishedPosts(ctx context.Context) ([]entities.BlogPost, error) {
	rows, err := s.dbpool.Query(ctx, `
		SELECT id, slug, title, excerpt, meta_title, meta_description,
			og_title, og_description, og_image_url, featured_image_url,
			published, status, published_at
		FROM blog_posts
		WHERE published = true AND status = 'published'`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []entities.BlogPost
	for rows.Next() {
		var p entities.BlogPost
		err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.MetaTitle,
			&p.MetaDescription, &p.OGTitle, &p.OGDescription, &p.OGImageURL,
			&p.FeaturedImageURL, &p.Published, &p.Status, &p.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanAsset(row pgx.Row) (entities.MediaAsset, error) {
	var (
		a         entities.MediaAsset
		sizes     []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&a.ID, &a.URL, &a.Alt, &a.Credit, &a.Folder, &a.OrderIndex,
		&sizes, &a.OriginalSize, &a.OptimizedSize, &a.Width, &a.Height,
		&createdAt, &updatedAt)
	if err != nil {
		return entities.MediaAsset{}, err
	}
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt

	a.Sizes = map[string]string{}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &a.Sizes); err != nil {
			return entities.MediaAsset{}, fmt.Errorf("unmarshal sizes for %s: %w", a.ID, err)
		}
	}
	return a, nil
}
