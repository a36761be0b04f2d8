package domain

import "time"

// MediaLocator is the backend-only reference to the streamable resource
// (the hosting provider's video identifier). It is never included in
// catalog listings or token payloads; clients only ever reach it through
// a verified playback token.
type MediaLocator string

// Video is the catalog entry shown to clients. Locator stays server-side.
type Video struct {
	ID           string
	Title        string
	Description  string
	Locator      MediaLocator
	ThumbnailURL string
	IsActive     bool
	CreatedAt    time.Time
}

// WatchProgress records how far a user has watched a video.
type WatchProgress struct {
	UserID          string
	VideoID         string
	ProgressSeconds int
	UpdatedAt       time.Time
}
