package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"slackproxy/utils"
)

// ID prefixes used across the proxy.
const (
	RelationIDPrefix     = "rel"
	InstallationIDPrefix = "inst"
	SelectionIDPrefix    = "sel"
)

// NewID generates a new ULID with the given prefix, e.g. core.NewID("rel")
// returns "rel_01G0EZ1XTM37C5X11SQTDNCTM1".
func NewID(prefix string) string {
	utils.AssertInvariant(prefix != "" && strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// IsValidULID reports whether id has the form prefix_ULID with a lowercase
// alphanumeric prefix.
func IsValidULID(id string) bool {
	prefix, ulidPart, ok := strings.Cut(id, "_")
	if !ok || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != ulid.EncodedSize || strings.ToUpper(ulidPart) != ulidPart {
		return false
	}

	_, err := ulid.ParseStrict(ulidPart)
	return err == nil
}

// NewOpaqueToken returns 32 random bytes, URL-safe base64 encoded. Used for
// OAuth state values and anything else that must not be guessable.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
