package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-token-service/internal/api/dto"
	"github.com/spec-kit/playback-token-service/internal/auth"
	"github.com/spec-kit/playback-token-service/internal/service"
	apperrors "github.com/spec-kit/playback-token-service/pkg/util/errorutil"
)

// VideosHandler exposes catalog and playback endpoints.
type VideosHandler struct {
	catalog  *service.CatalogService
	playback *service.PlaybackService
}

// NewVideosHandler constructs handler.
func NewVideosHandler(catalog *service.CatalogService, playback *service.PlaybackService) *VideosHandler {
	return &VideosHandler{catalog: catalog, playback: playback}
}

// Dashboard handles GET /api/video/dashboard.
func (h *VideosHandler) Dashboard(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.catalog.ListVideos(c.Context(), page, limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", dto.NewDashboardResponse(result.Videos, dto.Pagination{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Pages: result.Pages,
	}))
}

// Stream handles GET /api/video/:id/stream — issues a playback token.
func (h *VideosHandler) Stream(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	videoID := c.Params("id")
	if videoID == "" {
		return apperrors.NewValidationError("video id is required", nil)
	}

	grant, err := h.playback.RequestStream(c.Context(), principal.User.ID, videoID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", dto.StreamResponse{
		VideoID:        grant.VideoID,
		PlaybackToken:  grant.PlaybackToken,
		StreamEndpoint: grant.StreamEndpoint,
		ExpiresAt:      grant.ExpiresAt,
	})
}

// Play handles GET /api/video/play — redeems a playback token.
func (h *VideosHandler) Play(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	playable, err := h.playback.Play(c.Context(), principal.User.ID, c.Query("token"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", dto.PlayResponse{
		EmbedURL: playable.EmbedURL,
		Title:    playable.Title,
	})
}

// Track handles POST /api/video/track.
func (h *VideosHandler) Track(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.catalog.TrackProgress(c.Context(), principal.User.ID, req.VideoID, req.ProgressSeconds); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Progress tracked", nil)
}

// Seed handles POST /api/video/seed — development catalog seeding.
func (h *VideosHandler) Seed(c *fiber.Ctx) error {
	inserted, err := h.catalog.SeedSampleVideos(c.Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Catalog seeded", fiber.Map{"inserted_count": inserted})
}
