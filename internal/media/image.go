// Package media validates base64 data URI images attached to recipes and plans.
package media

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/serroba/foodgram-go/internal/apperror"
)

// MaxImageSize is the largest decoded image accepted, in bytes.
const MaxImageSize = 5 * 1024 * 1024

// AllowedFormats lists the accepted image subtypes.
var AllowedFormats = []string{"jpeg", "jpg", "png", "gif"}

var (
	ErrInvalidImage  = fmt.Errorf("image: %w", apperror.ErrInvalidInput)
	ErrImageFormat   = fmt.Errorf("%w: unsupported format", ErrInvalidImage)
	ErrImageTooLarge = fmt.Errorf("%w: larger than 5MB", ErrInvalidImage)
)

// Image is a decoded data URI.
type Image struct {
	Format string
	Data   []byte
}

// DecodeImage parses a "data:image/<format>;base64,<payload>" string.
func DecodeImage(raw string) (*Image, error) {
	if !strings.HasPrefix(raw, "data:image") {
		return nil, fmt.Errorf("%w: missing data:image prefix", ErrInvalidImage)
	}

	header, payload, ok := strings.Cut(raw, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: missing base64 separator", ErrInvalidImage)
	}

	_, format, _ := strings.Cut(header, "/")
	format = strings.ToLower(format)

	if !slices.Contains(AllowedFormats, format) {
		return nil, fmt.Errorf("%w %q", ErrImageFormat, format)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+2 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	return &Image{Format: format, Data: data}, nil
}
