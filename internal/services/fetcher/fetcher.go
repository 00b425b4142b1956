package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

// ArtifactSaver persists a retrieved artifact and returns where it was written.
type ArtifactSaver interface {
	Save(ctx context.Context, artifact *models.Artifact) (string, error)
}

type Fetcher struct {
	strategies []Strategy
	saver      ArtifactSaver
	logger     *zap.Logger
}

// New builds a Fetcher; saver may be nil, in which case artifacts are only returned.
func New(saver ArtifactSaver, logger *zap.Logger, strategies ...Strategy) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		strategies: strategies,
		saver:      saver,
		logger:     logger,
	}
}

// ResolveAddress normalises a result descriptor to its first element and
// returns its mediaUrl, or image when mediaUrl is absent.
func ResolveAddress(result *models.ResultDescriptor) (string, error) {
	item, ok := result.First()
	if !ok {
		return "", ErrMissingResult
	}
	address := strings.TrimSpace(item.Address())
	if address == "" {
		return "", ErrMissingResult
	}
	return address, nil
}

func (f *Fetcher) ResolveAndDownload(ctx context.Context, result *models.ResultDescriptor) (*models.Artifact, error) {
	address, err := ResolveAddress(result)
	if err != nil {
		return nil, err
	}
	return f.Download(ctx, address)
}

// Download retrieves address with the configured strategies, names the
// artifact and hands it to the saver.
func (f *Fetcher) Download(ctx context.Context, address string) (*models.Artifact, error) {
	artifact, err := Chain(ctx, f.logger, address, f.strategies)
	if err != nil {
		return nil, err
	}

	artifact.Name = utils.ArtifactFilename(utils.InferExtension(artifact.ContentType, address))

	if f.saver != nil {
		location, err := f.saver.Save(ctx, artifact)
		if err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", artifact.Name, err)
		}
		artifact.Location = location
	}

	f.logger.Info("Result downloaded",
		zap.String("name", artifact.Name),
		zap.String("source", artifact.Source),
		zap.Int("size", len(artifact.Data)))

	return artifact, nil
}
