package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phambaophuc/vector-art/internal/models"
	"go.uber.org/zap"
)

// Submit starts the effect job for an uploaded content address.
func (c *Client) Submit(ctx context.Context, contentAddress string) (*models.Job, error) {
	const op = "submit job"

	body, err := json.Marshal(models.ImageGenRequest{
		Model:           c.model,
		ToolType:        c.toolType,
		EffectID:        c.effectID,
		ImageURL:        contentAddress,
		UserID:          c.userID,
		RemoveWatermark: true,
		IsPrivate:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/image-gen", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")

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
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.JobID == "" {
		return nil, fmt.Errorf("failed to submit job: response has no job id")
	}

	c.logger.Info("Job submitted",
		zap.String("job_id", job.JobID),
		zap.String("status", string(job.Status)))

	return &job, nil
}
