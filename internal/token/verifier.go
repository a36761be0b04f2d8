package token

import (
	"crypto/hmac"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Verifier checks playback tokens against the issuing secret.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier sharing the issuer's secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify validates the opaque token string for the requesting user at the
// given instant and returns the embedded claim. Checks run in order:
// signature (constant-time), structure, expiry, principal binding. A token
// is still valid at exactly its expiry second; it fails strictly after.
//
// Replay policy and media resolution are the caller's concern; Verify
// touches no mutable state.
func (v *Verifier) Verify(tokenStr, requestingUserID string, now time.Time) (PlaybackClaim, error) {
	encodedPart, sigPart, found := strings.Cut(tokenStr, ".")
	if !found || encodedPart == "" || sigPart == "" {
		return PlaybackClaim{}, fmt.Errorf("%w: not a payload.signature pair", ErrMalformedToken)
	}
	if len(encodedPart) > base64.RawURLEncoding.EncodedLen(maxEncodedClaim) {
		return PlaybackClaim{}, fmt.Errorf("%w: payload too large", ErrMalformedToken)
	}

	encoded, err := base64.RawURLEncoding.DecodeString(encodedPart)
	if err != nil {
		return PlaybackClaim{}, fmt.Errorf("%w: payload encoding: %v", ErrMalformedToken, err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return PlaybackClaim{}, fmt.Errorf("%w: signature encoding: %v", ErrMalformedToken, err)
	}

	expected := sign(v.secret, encoded)
	if !hmac.Equal(sig, expected) {
		return PlaybackClaim{}, ErrInvalidSignature
	}

	claim, err := Decode(encoded)
	if err != nil {
		return PlaybackClaim{}, err
	}

	if now.Unix() > claim.ExpiresAt {
		return PlaybackClaim{}, ErrExpiredToken
	}
	if claim.SubjectUserID != requestingUserID {
		return PlaybackClaim{}, ErrPrincipalMismatch
	}
	return claim, nil
}
