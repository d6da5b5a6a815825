package service_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/service"
)

// makeTestPNG encodes a solid-color PNG of the given dimensions.
func makeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// makeTestJPEG encodes a solid-color JPEG of the given dimensions.
func makeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// assertNormalizedPNG decodes the bytes and checks the stored geometry.
func assertNormalizedPNG(t *testing.T, data []byte) {
	t.Helper()

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())
}

func TestAvatarProcessor_NormalizePNG(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	out, err := p.Normalize(makeTestPNG(t, 600, 400))
	require.NoError(t, err)
	assertNormalizedPNG(t, out)
}

func TestAvatarProcessor_NormalizeJPEG(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	out, err := p.Normalize(makeTestJPEG(t, 120, 500))
	require.NoError(t, err)
	assertNormalizedPNG(t, out)
}

func TestAvatarProcessor_SmallImagesAreUpscaled(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	out, err := p.Normalize(makeTestPNG(t, 40, 40))
	require.NoError(t, err)
	assertNormalizedPNG(t, out)
}

func TestAvatarProcessor_RejectsEmptyUpload(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	_, err := p.Normalize(nil)
	assert.ErrorIs(t, err, service.ErrAvatarUnsupported)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAvatarProcessor_RejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	_, err := p.Normalize(make([]byte, service.AvatarMaxBytes+1))
	assert.ErrorIs(t, err, service.ErrAvatarTooLarge)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAvatarProcessor_RejectsNonImageData(t *testing.T) {
	t.Parallel()

	p := service.NewAvatarProcessor()

	_, err := p.Normalize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, service.ErrAvatarUnsupported)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
