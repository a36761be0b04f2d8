package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/playback-token-service/internal/events"
)

// AuditService records playback activity from domain events. Log fields are
// limited to identifiers already visible to the acting client.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit handlers to playback events.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTokenIssued, s.record)
	s.dispatcher.Subscribe(events.EventTokenRedeemed, s.record)
	s.dispatcher.Subscribe(events.EventProgressTracked, s.record)
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	s.logger.Info("playback activity",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("video_id", event.VideoID),
		zap.Time("at", event.Timestamp),
	)
	return nil
}
