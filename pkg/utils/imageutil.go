package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultUploadExtension = "jpg"

var addressExtPattern = regexp.MustCompile(`(?i)\.(jpe?g|png|webp)`)

// DownloadImage fetches imageURL together with its sniffed content type.
// Bodies larger than maxSize are an error, never truncated.
func DownloadImage(ctx context.Context, client *http.Client, imageURL string, maxSize int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(imageData)) > maxSize {
		return nil, "", fmt.Errorf("image exceeds maximum size %d", maxSize)
	}

	if len(imageData) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	contentType := http.DetectContentType(imageData)
	if !IsValidImageType(contentType) {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	return imageData, contentType, nil
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/bmp",
		"image/tiff",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

// UploadExtension returns the extension of the picked file name without the dot,
// or DefaultUploadExtension when the name has none.
func UploadExtension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return DefaultUploadExtension
	}
	return ext
}

// InferExtension picks the extension for a saved artifact. The declared
// content type wins over the address, and png is the fallback.
func InferExtension(contentType, address string) string {
	ct := strings.ToLower(contentType)
	if ct != "" {
		if strings.Contains(ct, "jpeg") || strings.Contains(ct, "jpg") {
			return "jpg"
		}
		if strings.Contains(ct, "png") {
			return "png"
		}
	}

	if match := addressExtPattern.FindStringSubmatch(address); match != nil {
		ext := strings.ToLower(match[1])
		if ext == "jpeg" {
			return "jpg"
		}
		return ext
	}

	return "png"
}

// ArtifactFilename builds the local name of a downloaded result.
func ArtifactFilename(ext string) string {
	return fmt.Sprintf("vector-art-%s.%s", NanoID(ArtifactNanoIDLength), ext)
}

// CacheBust appends a t=<unix millis> query parameter to address.
func CacheBust(address string, now time.Time) string {
	sep := "?"
	if strings.Contains(address, "?") {
		sep = "&"
	}
	return address + sep + "t=" + strconv.FormatInt(now.UnixMilli(), 10)
}
