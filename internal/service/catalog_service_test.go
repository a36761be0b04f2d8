package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spec-kit/playback-token-service/internal/domain"
)

type fakeProgressRepo struct {
	mu      sync.Mutex
	records map[string]*domain.WatchProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*domain.WatchProgress)}
}

func (r *fakeProgressRepo) Upsert(_ context.Context, progress *domain.WatchProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[progress.UserID+"|"+progress.VideoID] = progress
	return nil
}

func (r *fakeProgressRepo) GetByUserAndVideo(_ context.Context, userID, videoID string) (*domain.WatchProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID+"|"+videoID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return record, nil
}

func TestListVideosClampsPaging(t *testing.T) {
	repo := newFakeVideoRepo(domain.Video{ID: "v1", Title: "One", IsActive: true})
	svc := NewCatalogService(repo, newFakeProgressRepo(), nil)

	page, err := svc.ListVideos(context.Background(), -3, 500)
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("Page = %d, want 1", page.Page)
	}
	if page.Limit != maxPageLimit {
		t.Errorf("Limit = %d, want %d", page.Limit, maxPageLimit)
	}
	if page.Total != 1 || page.Pages != 1 {
		t.Errorf("Total=%d Pages=%d, want 1 and 1", page.Total, page.Pages)
	}
}

func TestTrackProgress(t *testing.T) {
	videos := newFakeVideoRepo(domain.Video{ID: "v1", Title: "One", IsActive: true})
	progress := newFakeProgressRepo()
	svc := NewCatalogService(videos, progress, nil)

	if err := svc.TrackProgress(context.Background(), "u1", "v1", 42); err != nil {
		t.Fatalf("TrackProgress failed: %v", err)
	}

	record, err := progress.GetByUserAndVideo(context.Background(), "u1", "v1")
	if err != nil {
		t.Fatalf("progress not stored: %v", err)
	}
	if record.ProgressSeconds != 42 {
		t.Errorf("ProgressSeconds = %d, want 42", record.ProgressSeconds)
	}
}

func TestTrackProgressValidation(t *testing.T) {
	videos := newFakeVideoRepo(domain.Video{ID: "v1", Title: "One", IsActive: true})
	svc := NewCatalogService(videos, newFakeProgressRepo(), nil)

	tests := []struct {
		name     string
		videoID  string
		seconds  int
		wantCode string
	}{
		{"missing video id", "", 10, "VALIDATION_FAILED"},
		{"negative progress", "v1", -1, "VALIDATION_FAILED"},
		{"unknown video", "nope", 10, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.TrackProgress(context.Background(), "u1", tt.videoID, tt.seconds)
			code, _ := domainCode(t, err)
			if code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestSeedSampleVideosIsIdempotent(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := NewCatalogService(repo, newFakeProgressRepo(), nil)

	first, err := svc.SeedSampleVideos(context.Background())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if first != len(sampleVideos()) {
		t.Errorf("first seed inserted %d, want %d", first, len(sampleVideos()))
	}

	second, err := svc.SeedSampleVideos(context.Background())
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if second != 0 {
		t.Errorf("second seed inserted %d, want 0", second)
	}
}
