package orchestrator

import (
	"context"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/remote"
)

type Uploader interface {
	Upload(ctx context.Context, file models.UploadFile) (string, error)
}

type Submitter interface {
	Submit(ctx context.Context, contentAddress string) (*models.Job, error)
}

type Poller interface {
	Poll(ctx context.Context, jobID string, progress remote.ProgressFunc) (*models.Job, error)
}

type Downloader interface {
	Download(ctx context.Context, address string) (*models.Artifact, error)
}

type PreviewRenderer interface {
	Render(file models.UploadFile) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.SessionEvent) error
}

// Reporter receives the presentation callbacks of one session.
type Reporter interface {
	OnStatus(text string)
	OnError(message string)
	OnResultReady(address string)
	OnDownloadReady(address string)
}

type ResultCache interface {
	RememberResult(ctx context.Context, jobID, address string) error
}
