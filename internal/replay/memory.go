package replay

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/playback-token-service/internal/token"
)

// purgeInterval is how many consumptions pass between sweeps of expired
// entries. A replay past expiry is already rejected by the verifier, so
// expired entries are pure garbage.
const purgeInterval = 256

// MemoryStore is the single-use policy backed by an in-process table.
// Check-and-set runs under one lock, so concurrent redemptions of the same
// nonce can never both succeed.
type MemoryStore struct {
	mu         sync.Mutex
	consumed   map[string]int64
	sincePurge int
	now        func() time.Time
}

// NewMemoryStore builds an empty consumption table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{consumed: make(map[string]int64), now: time.Now}
}

// Consume marks the claim's nonce consumed, failing with
// token.ErrReplayedToken if it already was.
func (s *MemoryStore) Consume(_ context.Context, claim token.PlaybackClaim) error {
	key := claimKey(claim)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sincePurge++
	if s.sincePurge >= purgeInterval {
		s.purgeLocked(s.now().Unix())
		s.sincePurge = 0
	}

	if _, seen := s.consumed[key]; seen {
		return token.ErrReplayedToken
	}
	s.consumed[key] = claim.ExpiresAt
	return nil
}

func (s *MemoryStore) purgeLocked(nowUnix int64) {
	for key, expiresAt := range s.consumed {
		if nowUnix > expiresAt {
			delete(s.consumed, key)
		}
	}
}
