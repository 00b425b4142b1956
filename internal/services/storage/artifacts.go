package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phambaophuc/vector-art/internal/models"
	"go.uber.org/zap"
)

// Save writes the artifact under the artifact directory and, when a bucket is
// configured, mirrors it there. The returned location is the bucket's public
// URL if mirrored, the local path otherwise.
func (s *StorageService) Save(ctx context.Context, artifact *models.Artifact) (string, error) {
	localPath, err := s.saveLocal(artifact)
	if err != nil {
		return "", err
	}

	if s.sbClient == nil {
		return localPath, nil
	}

	publicURL, err := s.Upload(ctx, artifact.Data, "artifacts/"+artifact.Name)
	if err != nil {
		s.logger.Warn("Failed to mirror artifact to bucket",
			zap.String("name", artifact.Name),
			zap.Error(err))
		return localPath, nil
	}
	return publicURL, nil
}

func (s *StorageService) saveLocal(artifact *models.Artifact) (string, error) {
	if err := os.MkdirAll(s.artifactPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	path := filepath.Join(s.artifactPath, filepath.Base(artifact.Name))
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// Upload uploads data to the supabase bucket under key and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, data []byte, key string) (string, error) {
	if s.sbClient == nil {
		return "", fmt.Errorf("supabase storage not configured")
	}

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}
