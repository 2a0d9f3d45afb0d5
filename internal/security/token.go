package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// inviteTokenPrefix is the prefix used for generated invite tokens.
const inviteTokenPrefix = "inv_"

// tempPasswordAlphabet excludes lookalike characters since temp passwords
// are copied by hand.
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInviteToken creates a new opaque invitation token.
func GenerateInviteToken() (string, error) {
	secret := make([]byte, 24)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return inviteTokenPrefix + hex.EncodeToString(secret), nil
}

// GenerateTempPassword creates a one-time password of the given length.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		length = 12
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate temp password: %w", err)
	}
	out := make([]byte, length)
	for i, b := range raw {
		out[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(out), nil
}

// HashEmail returns the hex SHA-256 of the lowercase, trimmed email.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
