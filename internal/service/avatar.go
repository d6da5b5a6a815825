package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Register the decoders for the accepted upload formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// Avatar upload constraints and the normalized output geometry.
const (
	// AvatarMaxBytes is the maximum accepted upload size (1 MB).
	AvatarMaxBytes = 1_000_000

	// avatarSize is the square edge length of the stored image.
	avatarSize = 250
)

// Avatar validation errors
var (
	// ErrAvatarTooLarge is returned when the upload exceeds AvatarMaxBytes.
	ErrAvatarTooLarge = errors.New("avatar exceeds the maximum allowed size")

	// ErrAvatarUnsupported is returned when the upload is not a JPEG or PNG
	// image.
	ErrAvatarUnsupported = errors.New("avatar must be a JPEG or PNG image")
)

// AvatarProcessor validates and normalizes avatar uploads: accepted images
// are resized and center-cropped to a fixed square and re-encoded as PNG, so
// every stored avatar has identical geometry and encoding.
type AvatarProcessor struct{}

// NewAvatarProcessor creates a new AvatarProcessor.
func NewAvatarProcessor() *AvatarProcessor {
	return &AvatarProcessor{}
}

// Normalize validates the raw upload and returns the normalized PNG bytes.
// Returns an error wrapping domain.ErrValidation when the upload is oversized
// or not an accepted image format.
func (p *AvatarProcessor) Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrAvatarUnsupported)
	}
	if len(data) > AvatarMaxBytes {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrAvatarTooLarge)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrAvatarUnsupported)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrAvatarUnsupported)
	}

	normalized := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
