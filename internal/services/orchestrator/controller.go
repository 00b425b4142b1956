package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/fetcher"
	"github.com/phambaophuc/vector-art/internal/services/storage"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

type Options struct {
	Sessions   storage.SessionStore
	Uploader   Uploader
	Submitter  Submitter
	Poller     Poller
	Downloader Downloader
	Preview    PreviewRenderer
	Events     EventPublisher
	Results    ResultCache
	Logger     *zap.Logger
	Now        func() time.Time
}

// Controller drives the upload, generate, download and reset actions of
// sessions. At most one action runs per session; Reset cancels it and any
// write the cancelled action would still make is dropped.
type Controller struct {
	sessions   storage.SessionStore
	uploader   Uploader
	submitter  Submitter
	poller     Poller
	downloader Downloader
	preview    PreviewRenderer
	events     EventPublisher
	results    ResultCache
	logger     *zap.Logger
	now        func() time.Time

	mu   sync.Mutex
	runs map[string]*run
	wg   sync.WaitGroup
}

type run struct {
	sessionID string
	ctx       context.Context
	cancel    context.CancelFunc
	reset     bool
}

// storeCtx keeps session writes alive after the action itself was cancelled.
func (r *run) storeCtx() context.Context {
	return context.WithoutCancel(r.ctx)
}

func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		sessions:   opts.Sessions,
		uploader:   opts.Uploader,
		submitter:  opts.Submitter,
		poller:     opts.Poller,
		downloader: opts.Downloader,
		preview:    opts.Preview,
		events:     opts.Events,
		results:    opts.Results,
		logger:     logger,
		now:        now,
		runs:       make(map[string]*run),
	}
}

func (c *Controller) CreateSession(ctx context.Context) (*models.Session, error) {
	s := models.NewSession(uuid.NewString(), c.now())
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	c.logger.Info("Session created", zap.String("session_id", s.ID))
	return s, nil
}

func (c *Controller) Session(ctx context.Context, id string) (*models.Session, error) {
	return c.sessions.Get(ctx, id)
}

// FileSelected renders the local preview, then uploads the file and stores
// its content address on the session.
func (c *Controller) FileSelected(ctx context.Context, id string, file models.UploadFile) (*models.Session, error) {
	r, err := c.begin(ctx, id)
	if err != nil {
		return nil, err
	}
	defer c.finish(r)

	preview := c.renderPreview(id, file)
	if _, err := c.apply(r, func(s *models.Session) error {
		s.Clear()
		s.Preview = preview
		s.State = models.SessionUploading
		return nil
	}); err != nil {
		return nil, err
	}

	rep := c.reporter(r)
	rep.OnStatus(StatusUploading)

	address, err := c.uploader.Upload(r.ctx, file)
	if err != nil {
		return nil, c.fail(r, rep, err)
	}

	if _, err := c.apply(r, func(s *models.Session) error {
		s.ContentAddress = address
		s.State = models.SessionReady
		return nil
	}); err != nil {
		return nil, err
	}
	rep.OnStatus(StatusReady)

	return c.sessions.Get(r.storeCtx(), id)
}

// Generate submits the uploaded image and blocks until the job is terminal.
func (c *Controller) Generate(ctx context.Context, id string) (*models.Session, error) {
	r, content, err := c.prepareGenerate(ctx, id)
	if err != nil {
		return nil, err
	}
	defer c.finish(r)

	if err := c.generate(r, content); err != nil {
		return nil, err
	}
	return c.sessions.Get(r.storeCtx(), id)
}

// StartGenerate validates the request synchronously and runs the job in the
// background; progress is observable on the session.
func (c *Controller) StartGenerate(ctx context.Context, id string) error {
	r, content, err := c.prepareGenerate(context.WithoutCancel(ctx), id)
	if err != nil {
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.finish(r)
		_ = c.generate(r, content)
	}()
	return nil
}

func (c *Controller) prepareGenerate(ctx context.Context, id string) (*run, string, error) {
	r, err := c.begin(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var content string
	_, err = c.apply(r, func(s *models.Session) error {
		if !s.HasUpload() {
			return ErrNoUpload
		}
		content = s.ContentAddress
		s.State = models.SessionGenerating
		s.Error = ""
		s.JobID = ""
		s.ResultAddress = ""
		s.DisplayAddress = ""
		s.Artifact = ""
		return nil
	})
	if err != nil {
		c.finish(r)
		return nil, "", err
	}
	return r, content, nil
}

func (c *Controller) generate(r *run, content string) error {
	rep := c.reporter(r)
	rep.OnStatus(StatusSubmitting)

	job, err := c.submitter.Submit(r.ctx, content)
	if err != nil {
		return c.fail(r, rep, err)
	}

	if _, err := c.apply(r, func(s *models.Session) error {
		s.JobID = job.JobID
		return nil
	}); err != nil {
		return err
	}
	rep.OnStatus(StatusQueued)

	done, err := c.poller.Poll(r.ctx, job.JobID, func(attempt int) {
		rep.OnStatus(processingStatus(attempt))
	})
	if err != nil {
		return c.fail(r, rep, err)
	}

	address, err := fetcher.ResolveAddress(done.Result)
	if err != nil {
		return c.fail(r, rep, err)
	}

	c.logger.Info("Result ready",
		zap.String("session_id", r.sessionID),
		zap.String("job_id", job.JobID),
		zap.String("address", address))

	if c.results != nil {
		if err := c.results.RememberResult(r.storeCtx(), job.JobID, address); err != nil {
			c.logger.Warn("Failed to cache result address",
				zap.String("job_id", job.JobID),
				zap.Error(err))
		}
	}

	rep.OnResultReady(utils.CacheBust(address, c.now()))
	rep.OnDownloadReady(address)
	if _, err := c.apply(r, func(s *models.Session) error {
		s.State = models.SessionComplete
		return nil
	}); err != nil {
		return err
	}
	rep.OnStatus(StatusComplete)
	return nil
}

// Download retrieves the session's result. When every retrieval strategy
// fails the session keeps its result and the error only tells the user to
// save it manually.
func (c *Controller) Download(ctx context.Context, id string) (*models.Artifact, error) {
	r, err := c.begin(ctx, id)
	if err != nil {
		return nil, err
	}
	defer c.finish(r)

	var address, previous string
	if _, err := c.apply(r, func(s *models.Session) error {
		if !s.HasResult() {
			return ErrNoResult
		}
		address = s.ResultAddress
		previous = s.StatusText
		return nil
	}); err != nil {
		return nil, err
	}

	rep := c.reporter(r)
	rep.OnStatus(StatusDownloading)

	artifact, err := c.downloader.Download(r.ctx, address)
	if err != nil {
		c.logger.Warn("Download failed",
			zap.String("session_id", id),
			zap.String("address", address),
			zap.Error(err))
		rep.OnError(err.Error())
		rep.OnStatus(previous)
		return nil, err
	}

	if _, err := c.apply(r, func(s *models.Session) error {
		s.Artifact = artifact.Location
		if s.Artifact == "" {
			s.Artifact = artifact.Name
		}
		return nil
	}); err != nil {
		return nil, err
	}
	rep.OnStatus(previous)

	return artifact, nil
}

// Reset cancels the running action of the session, if any, and clears it.
func (c *Controller) Reset(ctx context.Context, id string) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.runs[id]; ok {
		r.reset = true
		r.cancel()
		delete(c.runs, id)
	}

	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Clear()
	s.UpdatedAt = c.now()
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	c.logger.Info("Session reset", zap.String("session_id", id))
	return s, nil
}

// Close cancels every running action and waits for background generations.
func (c *Controller) Close() {
	c.mu.Lock()
	for id, r := range c.runs {
		r.cancel()
		delete(c.runs, id)
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) begin(ctx context.Context, id string) (*run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.runs[id]; busy {
		return nil, ErrBusy
	}

	rctx, cancel := context.WithCancel(ctx)
	r := &run{sessionID: id, ctx: rctx, cancel: cancel}
	c.runs[id] = r
	return r, nil
}

func (c *Controller) finish(r *run) {
	c.mu.Lock()
	if c.runs[r.sessionID] == r {
		delete(c.runs, r.sessionID)
	}
	c.mu.Unlock()

	r.cancel()
}

// apply mutates the session of r under the controller lock. Runs cancelled by
// Reset get errSuperseded and leave the session untouched.
func (c *Controller) apply(r *run, fn func(s *models.Session) error) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.reset {
		return nil, errSuperseded
	}

	ctx := r.storeCtx()
	s, err := c.sessions.Get(ctx, r.sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = c.now()
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Controller) fail(r *run, rep Reporter, err error) error {
	c.logger.Error("Session action failed",
		zap.String("session_id", r.sessionID),
		zap.Error(err))

	if _, applyErr := c.apply(r, func(s *models.Session) error {
		s.State = models.SessionError
		return nil
	}); applyErr != nil {
		return err
	}
	rep.OnStatus(StatusError)
	rep.OnError(err.Error())
	return err
}

func (c *Controller) renderPreview(id string, file models.UploadFile) string {
	if c.preview == nil {
		return ""
	}
	preview, err := c.preview.Render(file)
	if err != nil {
		c.logger.Warn("Failed to render preview",
			zap.String("session_id", id),
			zap.String("filename", file.Filename),
			zap.Error(err))
		return ""
	}
	return preview
}
