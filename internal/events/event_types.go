package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued     EventType = "playback_token_issued"
	EventTokenRedeemed   EventType = "playback_token_redeemed"
	EventProgressTracked EventType = "watch_progress_tracked"
)

// Event represents a domain event emitted by services. Payloads never carry
// token strings, nonces, or media locators.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	VideoID   string      `json:"video_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
	SingleUse bool      `json:"single_use"`
}

// TokenRedeemedPayload payload.
type TokenRedeemedPayload struct {
	Title string `json:"title"`
}

// ProgressTrackedPayload payload.
type ProgressTrackedPayload struct {
	ProgressSeconds int `json:"progress_seconds"`
}
