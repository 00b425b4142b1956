package preview

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, w, h int) models.UploadFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return models.UploadFile{Filename: "a.png", ContentType: "image/png", Data: buf.Bytes()}
}

func decodePreview(t *testing.T, dataURL string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(dataURL, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestRenderShrinksLargeImages(t *testing.T) {
	r := NewRenderer(100, 0)

	out, err := r.Render(pngFile(t, 400, 200))
	require.NoError(t, err)

	bounds := decodePreview(t, out).Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 50, bounds.Dy())
}

func TestRenderKeepsSmallImages(t *testing.T) {
	r := NewRenderer(0, 0)

	out, err := r.Render(pngFile(t, 40, 30))
	require.NoError(t, err)

	bounds := decodePreview(t, out).Bounds()
	assert.Equal(t, 40, bounds.Dx())
	assert.Equal(t, 30, bounds.Dy())
}

func TestRenderRejectsNonImages(t *testing.T) {
	_, err := NewRenderer(0, 0).Render(models.UploadFile{Filename: "a.txt", Data: []byte("hello")})
	assert.Error(t, err)
}

func TestValidateImage(t *testing.T) {
	file := pngFile(t, 10, 10)

	assert.NoError(t, ValidateImage(file, 1<<20, 0))
	assert.ErrorContains(t, ValidateImage(file, 10, 0), "exceeds maximum")
	assert.ErrorContains(t, ValidateImage(file, 1<<20, 99), "exceed maximum of 99 pixels")
	assert.ErrorContains(t, ValidateImage(models.UploadFile{}, 1<<20, 0), "empty file")
	assert.ErrorContains(t, ValidateImage(models.UploadFile{Data: []byte("nope")}, 1<<20, 0), "invalid image format")
}

// forgedPNG returns a tiny valid PNG whose IHDR claims w x h pixels.
func forgedPNG(t *testing.T, w, h uint32) models.UploadFile {
	t.Helper()
	file := pngFile(t, 1, 1)
	data := append([]byte{}, file.Data...)

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	file.Data = data
	return file
}

func TestForgedHeaderIsRejectedBeforeDecoding(t *testing.T) {
	file := forgedPNG(t, 60000, 60000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	require.NoError(t, err)
	require.Equal(t, 60000, cfg.Width)

	assert.ErrorContains(t, ValidateImage(file, 1<<20, 0), "image dimensions 60000x60000 exceed maximum")

	_, err = NewRenderer(320, 0).Render(file)
	assert.ErrorContains(t, err, "image dimensions 60000x60000 exceed maximum")
}
