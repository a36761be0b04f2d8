package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// Issuer mints signed playback tokens. The signing secret is fixed at
// construction and never leaves the process.
type Issuer struct {
	secret []byte
	maxTTL time.Duration
	now    func() time.Time
}

// NewIssuer builds an issuer. maxTTL caps how long any minted token may live.
func NewIssuer(secret []byte, maxTTL time.Duration) *Issuer {
	if maxTTL <= 0 {
		maxTTL = 24 * time.Hour
	}
	return &Issuer{secret: secret, maxTTL: maxTTL, now: time.Now}
}

// Issue mints a fresh token binding userID to mediaID for the given ttl.
// Every call generates a new 128-bit random nonce, so two issuances for the
// same pair never collide and expire independently.
func (i *Issuer) Issue(userID, mediaID string, ttl time.Duration) (string, PlaybackClaim, error) {
	if ttl <= 0 || ttl > i.maxTTL {
		return "", PlaybackClaim{}, ErrTTLOutOfRange
	}

	issuedAt := i.now()
	claim := PlaybackClaim{
		SubjectUserID: userID,
		MediaID:       mediaID,
		IssuedAt:      issuedAt.Unix(),
		ExpiresAt:     issuedAt.Add(ttl).Unix(),
		Nonce:         uuid.NewString(),
	}

	encoded, err := Encode(claim)
	if err != nil {
		return "", PlaybackClaim{}, err
	}

	sig := sign(i.secret, encoded)
	tokenStr := base64.RawURLEncoding.EncodeToString(encoded) + "." + base64.RawURLEncoding.EncodeToString(sig)
	return tokenStr, claim, nil
}

func sign(secret, encoded []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(encoded)
	return mac.Sum(nil)
}
