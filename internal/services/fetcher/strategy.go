package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

const DefaultMaxDownloadSize = 25 * 1024 * 1024

// FetchFunc retrieves the bytes behind a media address.
type FetchFunc func(ctx context.Context, address string) (*models.Artifact, error)

// Strategy is one named way of retrieving a result.
type Strategy struct {
	Name  string
	Fetch FetchFunc
}

// Chain tries strategies in order and returns the first success. Failures are
// logged and collected into a DownloadExhaustedError.
func Chain(ctx context.Context, logger *zap.Logger, address string, strategies []Strategy) (*models.Artifact, error) {
	attempts := make([]error, 0, len(strategies))

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		artifact, err := s.Fetch(ctx, address)
		if err == nil {
			artifact.Source = s.Name
			return artifact, nil
		}

		logger.Warn("Download strategy failed",
			zap.String("strategy", s.Name),
			zap.String("address", address),
			zap.Error(err))
		attempts = append(attempts, &strategyError{strategy: s.Name, err: err})
	}

	return nil, &DownloadExhaustedError{Address: address, Attempts: attempts}
}

// ProxyStrategy fetches the address through {proxyBase}/download-proxy.
func ProxyStrategy(client *http.Client, proxyBase string, maxSize int64) Strategy {
	base := strings.TrimRight(proxyBase, "/")
	return Strategy{
		Name: "proxy",
		Fetch: func(ctx context.Context, address string) (*models.Artifact, error) {
			return get(ctx, client, base+"/download-proxy?url="+url.QueryEscape(address), maxSize)
		},
	}
}

// DirectStrategy fetches the address itself with a cache-busting parameter.
func DirectStrategy(client *http.Client, now func() time.Time, maxSize int64) Strategy {
	if now == nil {
		now = time.Now
	}
	return Strategy{
		Name: "direct",
		Fetch: func(ctx context.Context, address string) (*models.Artifact, error) {
			return get(ctx, client, utils.CacheBust(address, now()), maxSize)
		},
	}
}

func get(ctx context.Context, client *http.Client, target string, maxSize int64) (*models.Artifact, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxDownloadSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("body exceeds maximum size %d", maxSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	return &models.Artifact{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
