package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/playback-token-service/internal/config"
	"github.com/spec-kit/playback-token-service/internal/events"
	"github.com/spec-kit/playback-token-service/internal/replay"
	"github.com/spec-kit/playback-token-service/internal/repository"
	"github.com/spec-kit/playback-token-service/internal/token"
	apperrors "github.com/spec-kit/playback-token-service/pkg/util/errorutil"
)

// StreamGrant is the issuance result handed back to the client.
type StreamGrant struct {
	VideoID        string
	PlaybackToken  string
	StreamEndpoint string
	ExpiresAt      time.Time
}

// Playable is the redemption result: an embeddable URL derived from the
// resolved media locator, never the locator's catalog record itself.
type Playable struct {
	EmbedURL string
	Title    string
}

// PlaybackService coordinates the playback-token flow: catalog lookup and
// token minting on the request-stream side; verification, replay policy and
// locator resolution on the play side.
type PlaybackService struct {
	videos     repository.VideoRepository
	issuer     *token.Issuer
	verifier   *token.Verifier
	policy     replay.Policy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	tokenTTL   time.Duration
	embedBase  string
	singleUse  bool
	now        func() time.Time
}

// PlaybackDependencies encapsulates collaborator requirements.
type PlaybackDependencies struct {
	VideoRepo  repository.VideoRepository
	Policy     replay.Policy
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPlaybackService builds the service. The signing secret lives inside the
// issuer/verifier pair and is not retained here.
func NewPlaybackService(cfg config.PlaybackConfig, deps PlaybackDependencies) *PlaybackService {
	secret := []byte(cfg.SigningSecret)
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaybackService{
		videos:     deps.VideoRepo,
		issuer:     token.NewIssuer(secret, cfg.MaxTokenTTL()),
		verifier:   token.NewVerifier(secret),
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		tokenTTL:   cfg.TokenTTL(),
		embedBase:  cfg.EmbedBaseURL,
		singleUse:  cfg.SingleUse,
		now:        time.Now,
	}
}

// RequestStream issues a playback token for the given catalog item. The
// video must exist and be active; the response carries the opaque token and
// the endpoint to redeem it at, never the media locator.
func (s *PlaybackService) RequestStream(ctx context.Context, userID, videoID string) (*StreamGrant, error) {
	if _, err := s.videos.GetActiveByID(ctx, videoID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("video", nil)
		}
		return nil, err
	}

	tokenStr, claim, err := s.issuer.Issue(userID, videoID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Unix(claim.ExpiresAt, 0)
	s.publish(ctx, events.Event{
		Type:    events.EventTokenIssued,
		UserID:  userID,
		VideoID: videoID,
		Payload: events.TokenIssuedPayload{ExpiresAt: expiresAt, SingleUse: s.singleUse},
	})

	return &StreamGrant{
		VideoID:        videoID,
		PlaybackToken:  tokenStr,
		StreamEndpoint: "/api/video/play?token=" + tokenStr,
		ExpiresAt:      expiresAt,
	}, nil
}

// Play redeems a playback token for the requesting user. All verification
// failures collapse to one generic client error; the actual cause is logged
// at debug level only.
func (s *PlaybackService) Play(ctx context.Context, userID, tokenStr string) (*Playable, error) {
	if tokenStr == "" {
		return nil, apperrors.NewValidationError("playback token is required", nil)
	}

	claim, err := s.verifier.Verify(tokenStr, userID, s.now())
	if err != nil {
		s.logger.Debug("playback token rejected", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewInvalidPlaybackToken()
	}

	video, err := s.videos.GetActiveByID(ctx, claim.MediaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("video", nil)
		}
		return nil, err
	}

	// Consumption is the last step so a failed lookup does not burn a
	// single-use token. The check-and-set itself is atomic.
	if err := s.policy.Consume(ctx, claim); err != nil {
		if errors.Is(err, token.ErrReplayedToken) {
			s.logger.Debug("playback token replayed", zap.String("user_id", userID))
			return nil, apperrors.NewInvalidPlaybackToken()
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTokenRedeemed,
		UserID:  userID,
		VideoID: video.ID,
		Payload: events.TokenRedeemedPayload{Title: video.Title},
	})

	return &Playable{
		EmbedURL: s.embedBase + string(video.Locator),
		Title:    video.Title,
	}, nil
}

func (s *PlaybackService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
