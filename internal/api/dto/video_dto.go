package dto

import (
	"time"

	"github.com/spec-kit/playback-token-service/internal/domain"
)

// VideoResponse is the catalog view of a video. The media locator is not a
// field here on purpose; clients reach playback only through tokens.
type VideoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Pagination describes a listing page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// DashboardResponse is the paginated catalog listing.
type DashboardResponse struct {
	Videos     []VideoResponse `json:"videos"`
	Pagination Pagination      `json:"pagination"`
}

// StreamResponse carries a freshly issued playback token.
type StreamResponse struct {
	VideoID        string    `json:"video_id"`
	PlaybackToken  string    `json:"playback_token"`
	StreamEndpoint string    `json:"stream_endpoint"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// PlayResponse is the redemption result.
type PlayResponse struct {
	EmbedURL string `json:"embed_url"`
	Title    string `json:"title"`
}

// TrackRequest payload for watch-progress updates.
type TrackRequest struct {
	VideoID         string `json:"video_id"`
	ProgressSeconds int    `json:"progress_seconds"`
}

// NewVideoResponse maps a domain video to its catalog view.
func NewVideoResponse(video domain.Video) VideoResponse {
	return VideoResponse{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		ThumbnailURL: video.ThumbnailURL,
		IsActive:     video.IsActive,
		CreatedAt:    video.CreatedAt,
	}
}

// NewDashboardResponse maps a catalog page to its client view.
func NewDashboardResponse(page []domain.Video, pagination Pagination) DashboardResponse {
	videos := make([]VideoResponse, 0, len(page))
	for _, video := range page {
		videos = append(videos, NewVideoResponse(video))
	}
	return DashboardResponse{Videos: videos, Pagination: pagination}
}
