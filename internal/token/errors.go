package token

import "errors"

// Verification and issuance failures. Callers collapse the verification
// errors into a single client-facing message; the distinction exists for
// logging and tests only.
var (
	ErrMalformedToken    = errors.New("malformed playback token")
	ErrInvalidSignature  = errors.New("playback token signature mismatch")
	ErrExpiredToken      = errors.New("playback token expired")
	ErrPrincipalMismatch = errors.New("playback token bound to a different user")
	ErrReplayedToken     = errors.New("playback token already redeemed")
	ErrTTLOutOfRange     = errors.New("playback token ttl out of range")
)
