package usecase

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// resetTokenTTL is how long a password-reset token stays redeemable.
const resetTokenTTL = 10 * time.Minute

// newResetToken generates a password-reset token. The plain form is emailed
// to the user exactly once; only the sha256 hex digest is persisted, so a
// database leak does not expose redeemable tokens.
func newResetToken(now time.Time) (plain, hashed string, expires time.Time, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	plain = hex.EncodeToString(buf)
	return plain, hashResetToken(plain), now.Add(resetTokenTTL), nil
}

// hashResetToken maps a presented plain token to its stored form.
func hashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
