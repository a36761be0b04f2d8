package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/playback-token-service/internal/domain"
)

// VideoRepository encapsulates catalog persistence. GetActiveByID is the
// MediaLocator resolution step behind token issuance and verification.
type VideoRepository interface {
	CreateIfAbsent(ctx context.Context, video *domain.Video) (bool, error)
	GetActiveByID(ctx context.Context, id string) (*domain.Video, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.Video, error)
	CountActive(ctx context.Context) (int64, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository instantiates repository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

// CreateIfAbsent inserts the video unless one with the same title exists.
// Returns whether a row was inserted.
func (r *videoRepository) CreateIfAbsent(ctx context.Context, video *domain.Video) (bool, error) {
	const query = `
        INSERT INTO videos (title, description, provider_video_id, thumbnail_url, is_active)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (title) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query,
		video.Title,
		video.Description,
		video.Locator,
		video.ThumbnailURL,
		video.IsActive,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *videoRepository) GetActiveByID(ctx context.Context, id string) (*domain.Video, error) {
	const query = `
        SELECT id, title, description, provider_video_id, thumbnail_url, is_active, created_at
        FROM videos WHERE id=$1 AND is_active=TRUE`
	var video domain.Video
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.Locator,
		&video.ThumbnailURL,
		&video.IsActive,
		&video.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) ListActive(ctx context.Context, limit, offset int) ([]domain.Video, error) {
	const query = `
        SELECT id, title, description, provider_video_id, thumbnail_url, is_active, created_at
        FROM videos WHERE is_active=TRUE
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]domain.Video, 0, limit)
	for rows.Next() {
		var video domain.Video
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Description,
			&video.Locator,
			&video.ThumbnailURL,
			&video.IsActive,
			&video.CreatedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func (r *videoRepository) CountActive(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM videos WHERE is_active=TRUE`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
