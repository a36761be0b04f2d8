package token

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// maxEncodedClaim bounds attacker-supplied payloads before they reach the
// JSON decoder.
const maxEncodedClaim = 4096

// PlaybackClaim is the signed payload of a playback token. Timestamps are
// unix seconds so the encoding stays deterministic and the decoder can
// reject non-numeric values outright.
type PlaybackClaim struct {
	SubjectUserID string `json:"user_id"`
	MediaID       string `json:"video_id"`
	IssuedAt      int64  `json:"issued_at"`
	ExpiresAt     int64  `json:"expires_at"`
	Nonce         string `json:"nonce"`
}

// Encode serializes a claim to its canonical byte form. Field order follows
// the struct declaration, so the same claim always yields the same bytes and
// the signature over them is reproducible.
func Encode(claim PlaybackClaim) ([]byte, error) {
	if err := validateClaim(claim); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(claim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return encoded, nil
}

// Decode parses canonical claim bytes. Any structural defect (oversized
// payload, unknown fields, wrong types, missing fields, inverted timestamps)
// returns an error wrapping ErrMalformedToken; it never panics on garbage.
func Decode(encoded []byte) (PlaybackClaim, error) {
	var claim PlaybackClaim
	if len(encoded) == 0 {
		return claim, fmt.Errorf("%w: empty payload", ErrMalformedToken)
	}
	if len(encoded) > maxEncodedClaim {
		return claim, fmt.Errorf("%w: payload exceeds %d bytes", ErrMalformedToken, maxEncodedClaim)
	}

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&claim); err != nil {
		return PlaybackClaim{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if dec.More() {
		return PlaybackClaim{}, fmt.Errorf("%w: trailing data", ErrMalformedToken)
	}

	if err := validateClaim(claim); err != nil {
		return PlaybackClaim{}, err
	}
	return claim, nil
}

func validateClaim(claim PlaybackClaim) error {
	switch {
	case claim.SubjectUserID == "":
		return fmt.Errorf("%w: missing user id", ErrMalformedToken)
	case claim.MediaID == "":
		return fmt.Errorf("%w: missing video id", ErrMalformedToken)
	case claim.Nonce == "":
		return fmt.Errorf("%w: missing nonce", ErrMalformedToken)
	case claim.IssuedAt <= 0:
		return fmt.Errorf("%w: invalid issued_at", ErrMalformedToken)
	case claim.ExpiresAt <= claim.IssuedAt:
		return fmt.Errorf("%w: expires_at not after issued_at", ErrMalformedToken)
	}
	return nil
}
