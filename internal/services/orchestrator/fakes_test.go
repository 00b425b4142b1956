package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/remote"
)

type fakeUploader struct {
	address string
	err     error

	mu    sync.Mutex
	files []models.UploadFile
}

func (f *fakeUploader) Upload(_ context.Context, file models.UploadFile) (string, error) {
	f.mu.Lock()
	f.files = append(f.files, file)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.address, nil
}

func (f *fakeUploader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fakeSubmitter struct {
	job *models.Job
	err error

	mu        sync.Mutex
	addresses []string
}

func (f *fakeSubmitter) Submit(_ context.Context, contentAddress string) (*models.Job, error) {
	f.mu.Lock()
	f.addresses = append(f.addresses, contentAddress)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.addresses)
}

// fakePoller reports progress `progress` times, then returns job/err.
// With block set it waits for ctx to end instead.
type fakePoller struct {
	progress int
	job      *models.Job
	err      error
	block    bool
	started  chan struct{}
}

func (f *fakePoller) Poll(ctx context.Context, _ string, progress remote.ProgressFunc) (*models.Job, error) {
	if f.started != nil {
		close(f.started)
	}
	for i := 1; i <= f.progress; i++ {
		progress(i)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.job, f.err
}

type fakeDownloader struct {
	artifact *models.Artifact
	err      error
	address  string
}

func (f *fakeDownloader) Download(_ context.Context, address string) (*models.Artifact, error) {
	f.address = address
	if f.err != nil {
		return nil, f.err
	}
	return f.artifact, nil
}

type fakePreview struct {
	err error
}

func (f *fakePreview) Render(models.UploadFile) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "data:image/jpeg;base64,AAAA", nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []models.SessionEvent
	err    error
}

func (e *eventRecorder) Publish(_ context.Context, event models.SessionEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *eventRecorder) payloads(typ models.EventType) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.events {
		if ev.Type == typ {
			out = append(out, ev.Payload)
		}
	}
	return out
}

var errBoom = errors.New("boom")

type resultRecorder struct {
	mu      sync.Mutex
	results map[string]string
}

func (r *resultRecorder) RememberResult(_ context.Context, jobID, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]string)
	}
	r.results[jobID] = address
	return nil
}
