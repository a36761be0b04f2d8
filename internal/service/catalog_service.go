package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/playback-token-service/internal/domain"
	"github.com/spec-kit/playback-token-service/internal/events"
	"github.com/spec-kit/playback-token-service/internal/repository"
	apperrors "github.com/spec-kit/playback-token-service/pkg/util/errorutil"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// CatalogPage bundles a listing page with its pagination info.
type CatalogPage struct {
	Videos []domain.Video
	Page   int
	Limit  int
	Total  int64
	Pages  int64
}

// CatalogService serves the client-facing catalog and watch progress.
type CatalogService struct {
	videos     repository.VideoRepository
	progress   repository.WatchProgressRepository
	dispatcher events.Dispatcher
}

// NewCatalogService builds the service.
func NewCatalogService(videos repository.VideoRepository, progress repository.WatchProgressRepository, dispatcher events.Dispatcher) *CatalogService {
	return &CatalogService{videos: videos, progress: progress, dispatcher: dispatcher}
}

// ListVideos returns a page of active catalog entries. Locators stay in the
// domain objects; the DTO layer is responsible for not serializing them.
func (s *CatalogService) ListVideos(ctx context.Context, page, limit int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	videos, err := s.videos.ListActive(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.videos.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &CatalogPage{
		Videos: videos,
		Page:   page,
		Limit:  limit,
		Total:  total,
		Pages:  (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// TrackProgress upserts the user's watch position for a video.
func (s *CatalogService) TrackProgress(ctx context.Context, userID, videoID string, progressSeconds int) error {
	if videoID == "" {
		return apperrors.NewValidationError("video id is required", nil)
	}
	if progressSeconds < 0 {
		return apperrors.NewValidationError("progress must not be negative", nil)
	}

	if _, err := s.videos.GetActiveByID(ctx, videoID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("video", nil)
		}
		return err
	}

	record := &domain.WatchProgress{
		UserID:          userID,
		VideoID:         videoID,
		ProgressSeconds: progressSeconds,
	}
	if err := s.progress.Upsert(ctx, record); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventProgressTracked,
			UserID:  userID,
			VideoID: videoID,
			Payload: events.ProgressTrackedPayload{ProgressSeconds: progressSeconds},
		})
	}
	return nil
}

// SeedSampleVideos inserts the sample catalog, skipping titles that already
// exist. Intended for development environments.
func (s *CatalogService) SeedSampleVideos(ctx context.Context) (int, error) {
	inserted := 0
	for _, sample := range sampleVideos() {
		created, err := s.videos.CreateIfAbsent(ctx, &sample)
		if err != nil {
			return inserted, err
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}

func sampleVideos() []domain.Video {
	entries := []struct {
		title       string
		description string
		locator     domain.MediaLocator
	}{
		{
			title:       "The Power of Believing You Can Improve",
			description: "Carol Dweck talks about the growth mindset and how our beliefs about learning shape our success.",
			locator:     "_X0mgOOSpLU",
		},
		{
			title:       "How Great Leaders Inspire Action",
			description: "Simon Sinek explains the golden circle and why some leaders and organizations are more innovative.",
			locator:     "qp0HIF3SfI4",
		},
		{
			title:       "Your Body Language Shapes Who You Are",
			description: "Amy Cuddy shows how power posing can change your mind, body, and life.",
			locator:     "Ks-_Mh1QhMc",
		},
		{
			title:       "The Happy Secret to Better Work",
			description: "Shawn Achor reveals how positive psychology can boost happiness and productivity.",
			locator:     "fLJsdqxnZb0",
		},
		{
			title:       "The Skill of Self Confidence",
			description: "Dr. Ivan Joseph explains how self-confidence is developed through practice and persistence.",
			locator:     "w-HYZv6HzAs",
		},
	}

	videos := make([]domain.Video, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, domain.Video{
			Title:        e.title,
			Description:  e.description,
			Locator:      e.locator,
			ThumbnailURL: "https://img.youtube.com/vi/" + string(e.locator) + "/maxresdefault.jpg",
			IsActive:     true,
		})
	}
	return videos
}
