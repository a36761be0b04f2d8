package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/playback-token-service/internal/config"
	"github.com/spec-kit/playback-token-service/internal/domain"
	"github.com/spec-kit/playback-token-service/internal/replay"
	apperrors "github.com/spec-kit/playback-token-service/pkg/util/errorutil"
)

// fakeVideoRepo serves a fixed catalog from memory.
type fakeVideoRepo struct {
	videos map[string]domain.Video
}

func newFakeVideoRepo(videos ...domain.Video) *fakeVideoRepo {
	repo := &fakeVideoRepo{videos: make(map[string]domain.Video)}
	for _, v := range videos {
		repo.videos[v.ID] = v
	}
	return repo
}

func (r *fakeVideoRepo) CreateIfAbsent(_ context.Context, video *domain.Video) (bool, error) {
	for _, v := range r.videos {
		if v.Title == video.Title {
			return false, nil
		}
	}
	if video.ID == "" {
		video.ID = fmt.Sprintf("v%d", len(r.videos)+1)
	}
	r.videos[video.ID] = *video
	return true, nil
}

func (r *fakeVideoRepo) GetActiveByID(_ context.Context, id string) (*domain.Video, error) {
	video, ok := r.videos[id]
	if !ok || !video.IsActive {
		return nil, pgx.ErrNoRows
	}
	return &video, nil
}

func (r *fakeVideoRepo) ListActive(_ context.Context, limit, offset int) ([]domain.Video, error) {
	out := make([]domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if v.IsActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, v := range r.videos {
		if v.IsActive {
			count++
		}
	}
	return count, nil
}

func testPlaybackConfig(singleUse bool) config.PlaybackConfig {
	return config.PlaybackConfig{
		SigningSecret:      "service-test-secret",
		TokenTTLSeconds:    60,
		MaxTokenTTLSeconds: 3600,
		SingleUse:          singleUse,
		ReplayStore:        config.ReplayStoreMemory,
		EmbedBaseURL:       "https://www.youtube.com/embed/",
	}
}

func newTestPlaybackService(singleUse bool) *PlaybackService {
	repo := newFakeVideoRepo(domain.Video{
		ID:       "m42",
		Title:    "The Skill of Self Confidence",
		Locator:  "w-HYZv6HzAs",
		IsActive: true,
	}, domain.Video{
		ID:      "m-inactive",
		Title:   "Retired Talk",
		Locator: "gone",
	})

	var policy replay.Policy = replay.NewMultiUse()
	if singleUse {
		policy = replay.NewMemoryStore()
	}
	return NewPlaybackService(testPlaybackConfig(singleUse), PlaybackDependencies{
		VideoRepo: repo,
		Policy:    policy,
	})
}

func domainCode(t *testing.T, err error) (string, int) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Code, domainErr.HTTPStatus
}

func TestRequestStreamAndPlay(t *testing.T) {
	svc := newTestPlaybackService(false)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}
	if grant.PlaybackToken == "" {
		t.Fatal("empty playback token")
	}
	if !strings.Contains(grant.StreamEndpoint, grant.PlaybackToken) {
		t.Errorf("stream endpoint %q does not carry the token", grant.StreamEndpoint)
	}
	if strings.Contains(grant.PlaybackToken, "w-HYZv6HzAs") {
		t.Error("token leaks the media locator")
	}

	playable, err := svc.Play(context.Background(), "u1", grant.PlaybackToken)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if playable.EmbedURL != "https://www.youtube.com/embed/w-HYZv6HzAs" {
		t.Errorf("EmbedURL = %q", playable.EmbedURL)
	}
	if playable.Title != "The Skill of Self Confidence" {
		t.Errorf("Title = %q", playable.Title)
	}
}

func TestRequestStreamUnknownOrInactiveVideo(t *testing.T) {
	svc := newTestPlaybackService(false)

	for _, videoID := range []string{"missing", "m-inactive"} {
		_, err := svc.RequestStream(context.Background(), "u1", videoID)
		code, status := domainCode(t, err)
		if code != "NOT_FOUND" || status != 404 {
			t.Errorf("RequestStream(%q): code=%s status=%d, want NOT_FOUND 404", videoID, code, status)
		}
	}
}

func TestPlayPrincipalMismatchIsGeneric(t *testing.T) {
	svc := newTestPlaybackService(false)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}

	_, err = svc.Play(context.Background(), "u2", grant.PlaybackToken)
	code, status := domainCode(t, err)
	if code != "INVALID_PLAYBACK_TOKEN" || status != 400 {
		t.Errorf("code=%s status=%d, want INVALID_PLAYBACK_TOKEN 400", code, status)
	}
}

func TestPlayAfterExpiry(t *testing.T) {
	svc := newTestPlaybackService(false)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}

	// 61 seconds past issuance on a 60 second token
	svc.now = func() time.Time { return time.Now().Add(61 * time.Second) }

	_, err = svc.Play(context.Background(), "u1", grant.PlaybackToken)
	code, _ := domainCode(t, err)
	if code != "INVALID_PLAYBACK_TOKEN" {
		t.Errorf("code=%s, want INVALID_PLAYBACK_TOKEN", code)
	}
}

func TestPlaySingleUsePolicy(t *testing.T) {
	svc := newTestPlaybackService(true)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}

	if _, err := svc.Play(context.Background(), "u1", grant.PlaybackToken); err != nil {
		t.Fatalf("first Play failed: %v", err)
	}

	_, err = svc.Play(context.Background(), "u1", grant.PlaybackToken)
	code, _ := domainCode(t, err)
	if code != "INVALID_PLAYBACK_TOKEN" {
		t.Errorf("replayed token: code=%s, want INVALID_PLAYBACK_TOKEN", code)
	}
}

func TestPlaySingleUseConcurrentRedemption(t *testing.T) {
	svc := newTestPlaybackService(true)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Play(context.Background(), "u1", grant.PlaybackToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if code, _ := domainCode(t, err); code != "INVALID_PLAYBACK_TOKEN" {
			t.Fatalf("unexpected failure code %s", code)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestPlayMultiUsePolicy(t *testing.T) {
	svc := newTestPlaybackService(false)

	grant, err := svc.RequestStream(context.Background(), "u1", "m42")
	if err != nil {
		t.Fatalf("RequestStream failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Play(context.Background(), "u1", grant.PlaybackToken); err != nil {
			t.Fatalf("Play #%d failed: %v", i+1, err)
		}
	}
}

func TestPlayMissingToken(t *testing.T) {
	svc := newTestPlaybackService(false)

	_, err := svc.Play(context.Background(), "u1", "")
	code, status := domainCode(t, err)
	if code != "VALIDATION_FAILED" || status != 400 {
		t.Errorf("code=%s status=%d, want VALIDATION_FAILED 400", code, status)
	}
}

func TestPlayGarbageToken(t *testing.T) {
	svc := newTestPlaybackService(false)

	for _, garbage := range []string{"x", "a.b", "!!!.???", strings.Repeat("A", 10000)} {
		_, err := svc.Play(context.Background(), "u1", garbage)
		code, _ := domainCode(t, err)
		if code != "INVALID_PLAYBACK_TOKEN" {
			t.Errorf("Play(%q): code=%s, want INVALID_PLAYBACK_TOKEN", garbage, code)
		}
	}
}
