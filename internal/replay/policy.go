package replay

import (
	"context"

	"github.com/spec-kit/playback-token-service/internal/token"
)

// Policy decides whether a verified token may be redeemed. Consume must be
// atomic: when two redemptions of the same single-use token race, exactly one
// call returns nil and the other token.ErrReplayedToken.
type Policy interface {
	Consume(ctx context.Context, claim token.PlaybackClaim) error
}

// MultiUse allows unlimited redemptions before expiry and tracks nothing.
type MultiUse struct{}

// NewMultiUse returns the stateless multi-use policy.
func NewMultiUse() MultiUse { return MultiUse{} }

// Consume always permits redemption.
func (MultiUse) Consume(_ context.Context, _ token.PlaybackClaim) error { return nil }

func claimKey(claim token.PlaybackClaim) string {
	return claim.SubjectUserID + "|" + claim.MediaID + "|" + claim.Nonce
}
