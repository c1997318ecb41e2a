package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewRefreshToken generates a cryptographically random 64-character hex token.
func NewRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewOpaque generates a time-suffixed opaque token with the given prefix,
// e.g. "access_1735689600_9f2c1a3b". These are mock credentials used when
// no JWT signing keys are configured; they carry no verifiable claims.
func NewOpaque(prefix string, now time.Time) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate %s token: %w", prefix, err)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, now.Unix(), hex.EncodeToString(b)), nil
}
