package shortlink

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CodeLength is the number of characters kept from the encoded digest.
const CodeLength = 8

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

// Identity builds the hash input for a resource: id, name and creation time
// concatenated, followed by an optional salt used after a collision.
func Identity(res Resource, salt string) string {
	return strconv.FormatInt(res.ID, 10) +
		res.Name +
		res.CreatedAt.UTC().Format(time.RFC3339Nano) +
		salt
}

// GenerateCode computes the SHA256 digest of identity, encodes it with the
// URL-safe base64 alphabet and keeps the first CodeLength characters.
func GenerateCode(identity string) Code {
	sum := sha256.Sum256([]byte(identity))

	return Code(base64.URLEncoding.EncodeToString(sum[:])[:CodeLength])
}

// ParseCode validates raw as a short code.
func ParseCode(raw string) (Code, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty code", ErrInvalidCode)
	}

	if !codePattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, raw)
	}

	return Code(raw), nil
}
