package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/playback-token-service/internal/domain"
)

// WatchProgressRepository stores how far each user has watched each video.
type WatchProgressRepository interface {
	Upsert(ctx context.Context, progress *domain.WatchProgress) error
	GetByUserAndVideo(ctx context.Context, userID, videoID string) (*domain.WatchProgress, error)
}

type watchProgressRepository struct {
	pool *pgxpool.Pool
}

// NewWatchProgressRepository instantiates repository.
func NewWatchProgressRepository(pool *pgxpool.Pool) WatchProgressRepository {
	return &watchProgressRepository{pool: pool}
}

func (r *watchProgressRepository) Upsert(ctx context.Context, progress *domain.WatchProgress) error {
	const query = `
        INSERT INTO watch_progress (user_id, video_id, progress_seconds)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id, video_id)
        DO UPDATE SET progress_seconds=EXCLUDED.progress_seconds, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		progress.UserID,
		progress.VideoID,
		progress.ProgressSeconds,
	).Scan(&progress.UpdatedAt)
}

func (r *watchProgressRepository) GetByUserAndVideo(ctx context.Context, userID, videoID string) (*domain.WatchProgress, error) {
	const query = `
        SELECT user_id, video_id, progress_seconds, updated_at
        FROM watch_progress WHERE user_id=$1 AND video_id=$2`
	var progress domain.WatchProgress
	if err := r.pool.QueryRow(ctx, query, userID, videoID).Scan(
		&progress.UserID,
		&progress.VideoID,
		&progress.ProgressSeconds,
		&progress.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &progress, nil
}
