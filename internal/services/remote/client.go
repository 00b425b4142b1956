package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/phambaophuc/vector-art/internal/config"
	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultMaxPolls     = 60

	acceptHeader = "application/json, text/plain, */*"
)

type Options struct {
	APIBase      string
	ContentBase  string
	UserID       string
	Model        string
	ToolType     string
	EffectID     string
	PollInterval time.Duration
	MaxPolls     int
	HTTPClient   *http.Client
	Logger       *zap.Logger

	// Sleep waits between polls; it must return early with ctx.Err() when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client talks to the image-effects service: signed uploads, job submission and status polling.
type Client struct {
	apiBase      string
	contentBase  string
	userID       string
	model        string
	toolType     string
	effectID     string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
	logger       *zap.Logger
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	maxPolls := opts.MaxPolls
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Client{
		apiBase:      strings.TrimRight(opts.APIBase, "/"),
		contentBase:  strings.TrimRight(opts.ContentBase, "/"),
		userID:       opts.UserID,
		model:        defaultString(opts.Model, "image-effects"),
		toolType:     defaultString(opts.ToolType, "image-effects"),
		effectID:     defaultString(opts.EffectID, "photoToVectorArt"),
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		httpClient:   httpClient,
		logger:       logger,
		sleep:        sleep,
	}
}

// NewClientFromConfig builds a Client from the remote section of the service config.
func NewClientFromConfig(cfg config.RemoteConfig, logger *zap.Logger) *Client {
	return NewClient(Options{
		APIBase:      cfg.APIBase,
		ContentBase:  cfg.ContentBase,
		UserID:       cfg.UserID,
		Model:        cfg.Model,
		ToolType:     cfg.ToolType,
		EffectID:     cfg.EffectID,
		PollInterval: cfg.PollInterval,
		MaxPolls:     cfg.MaxPolls,
		HTTPClient:   &http.Client{Timeout: cfg.RequestTimeout},
		Logger:       logger,
	})
}

func (c *Client) PollInterval() time.Duration {
	return c.pollInterval
}

func (c *Client) MaxPolls() int {
	return c.maxPolls
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
