package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phambaophuc/vector-art/internal/models"
	"go.uber.org/zap"
)

// ProgressFunc receives the 1-based number of each in-progress poll.
type ProgressFunc func(attempt int)

// Poll queries the job status every poll interval until the job completes,
// fails, or maxPolls attempts have been made. Transport failures end polling
// immediately. ctx is checked between attempts.
func (c *Client) Poll(ctx context.Context, jobID string, progress ProgressFunc) (*models.Job, error) {
	for attempt := 0; attempt < c.maxPolls; attempt++ {
		job, err := c.status(ctx, jobID)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("Polled job",
			zap.String("job_id", jobID),
			zap.Int("poll", attempt+1),
			zap.String("status", string(job.Status)))

		switch {
		case job.Status == models.StatusCompleted:
			if job.JobID == "" {
				job.JobID = jobID
			}
			return job, nil
		case job.Status.IsFailure():
			msg := job.Error
			if msg == "" {
				msg = defaultJobFailure
			}
			return nil, &JobFailedError{JobID: jobID, Message: msg}
		}

		if progress != nil {
			progress(attempt + 1)
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, fmt.Errorf("polling job %s stopped: %w", jobID, err)
		}
	}

	return nil, &TimeoutError{JobID: jobID, Attempts: c.maxPolls}
}

func (c *Client) status(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "check status"

	endpoint := fmt.Sprintf("%s/image-gen/%s/%s/status", c.apiBase, url.PathEscape(c.userID), url.PathEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp)
	}

	var job models.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job status: %w", err)
	}
	return &job, nil
}
