package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/playback-token-service/internal/token"
)

func testClaim(nonce string, expiresAt int64) token.PlaybackClaim {
	return token.PlaybackClaim{
		SubjectUserID: "u1",
		MediaID:       "m42",
		IssuedAt:      expiresAt - 60,
		ExpiresAt:     expiresAt,
		Nonce:         nonce,
	}
}

func TestMemoryStoreSequentialReplay(t *testing.T) {
	store := NewMemoryStore()
	claim := testClaim("n1", time.Now().Add(time.Minute).Unix())

	if err := store.Consume(context.Background(), claim); err != nil {
		t.Fatalf("first Consume failed: %v", err)
	}
	if err := store.Consume(context.Background(), claim); !errors.Is(err, token.ErrReplayedToken) {
		t.Errorf("second Consume = %v, want ErrReplayedToken", err)
	}
}

func TestMemoryStoreDistinctNoncesIndependent(t *testing.T) {
	store := NewMemoryStore()
	expiresAt := time.Now().Add(time.Minute).Unix()

	if err := store.Consume(context.Background(), testClaim("n1", expiresAt)); err != nil {
		t.Fatalf("Consume n1 failed: %v", err)
	}
	if err := store.Consume(context.Background(), testClaim("n2", expiresAt)); err != nil {
		t.Errorf("Consume n2 failed: %v", err)
	}
}

func TestMemoryStoreConcurrentRedemption(t *testing.T) {
	store := NewMemoryStore()
	claim := testClaim("race", time.Now().Add(time.Minute).Unix())

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Consume(context.Background(), claim)
		}()
	}
	wg.Wait()
	close(results)

	successes, replays := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, token.ErrReplayedToken):
			replays++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if replays != attempts-1 {
		t.Errorf("replays = %d, want %d", replays, attempts-1)
	}
}

func TestMemoryStorePurgesExpiredEntries(t *testing.T) {
	store := NewMemoryStore()
	base := time.Now()
	store.now = func() time.Time { return base.Add(time.Hour) }

	expired := base.Add(time.Minute).Unix()
	for i := 0; i < purgeInterval; i++ {
		claim := testClaim(fmt.Sprintf("n%d", i), expired)
		if err := store.Consume(context.Background(), claim); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
	}

	// the sweep on the purgeInterval-th consumption dropped everything expired
	store.mu.Lock()
	remaining := len(store.consumed)
	store.mu.Unlock()

	if remaining >= purgeInterval {
		t.Errorf("expired entries not purged: %d remaining", remaining)
	}
}

func TestMultiUseAllowsRepeatedRedemption(t *testing.T) {
	policy := NewMultiUse()
	claim := testClaim("n1", time.Now().Add(time.Minute).Unix())

	for i := 0; i < 3; i++ {
		if err := policy.Consume(context.Background(), claim); err != nil {
			t.Fatalf("Consume #%d failed: %v", i+1, err)
		}
	}
}
