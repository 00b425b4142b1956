package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/vector-art/internal/models"
	_ "golang.org/x/image/webp"
)

const (
	defaultSize    = 320
	defaultQuality = 80
)

// Renderer turns an uploaded file into a small inline preview, independent of the network.
type Renderer struct {
	size      int
	quality   int
	maxPixels int64
}

func NewRenderer(size int, maxPixels int64) *Renderer {
	if size <= 0 {
		size = defaultSize
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Renderer{size: size, quality: defaultQuality, maxPixels: maxPixels}
}

// Render returns a data URL holding a JPEG thumbnail that fits in size x size.
func (r *Renderer) Render(file models.UploadFile) (string, error) {
	if err := checkDimensions(file.Data, r.maxPixels); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := r.fit(img)

	buffer := &bytes.Buffer{}
	if err := imaging.Encode(buffer, thumb, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

func (r *Renderer) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= r.size && bounds.Dy() <= r.size {
		return img
	}
	return imaging.Fit(img, r.size, r.size, imaging.Lanczos)
}
