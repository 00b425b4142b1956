package remote

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const defaultJobFailure = "Job processing failed"

// TransportError is a failed single-shot call to the remote service: either a
// non-2xx response or a request that never got one.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("Failed to %s: %s", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// JobFailedError carries the message the service reported for a failed job.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	return e.Message
}

// TimeoutError means the job was still in progress after the poll bound.
type TimeoutError struct {
	JobID    string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Job timed out after %d polls", e.Attempts)
}

func statusError(op string, resp *http.Response) *TransportError {
	return &TransportError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
