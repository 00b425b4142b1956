package preview

import (
	"bytes"
	"fmt"
	"image"

	"github.com/phambaophuc/vector-art/internal/models"
)

// DefaultMaxPixels bounds width*height of accepted images (40 megapixels).
const DefaultMaxPixels = 40_000_000

// ValidateImage checks the size limit and that the bytes decode as a supported
// image no larger than maxPixels.
func ValidateImage(file models.UploadFile, maxSize, maxPixels int64) error {
	if file.Size() == 0 {
		return fmt.Errorf("empty file")
	}

	if file.Size() > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", file.Size(), maxSize)
	}

	return checkDimensions(file.Data, maxPixels)
}

// checkDimensions reads only the image header. Decoders allocate the full
// canvas up front, so the header is the last safe place to refuse.
func checkDimensions(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid image format: %w", err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("image dimensions %dx%d exceed maximum of %d pixels", cfg.Width, cfg.Height, maxPixels)
	}

	return nil
}
