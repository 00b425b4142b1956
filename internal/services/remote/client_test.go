package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

type recordedPut struct {
	path        string
	contentType string
	body        []byte
}

type fakeService struct {
	t   *testing.T
	srv *httptest.Server

	signedURLStatus int
	putStatus       int
	submitStatus    int
	submitBody      string
	statuses        []string

	mu          sync.Mutex
	signedNames []string
	puts        []recordedPut
	submits     []models.ImageGenRequest
	statusCalls int32
}

func newFakeService(t *testing.T) *fakeService {
	f := &fakeService{
		t:               t,
		signedURLStatus: http.StatusOK,
		putStatus:       http.StatusOK,
		submitStatus:    http.StatusOK,
		submitBody:      `{"jobId":"j1","status":"queued"}`,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/get-emd-upload-url":
		f.mu.Lock()
		f.signedNames = append(f.signedNames, r.URL.Query().Get("fileName"))
		f.mu.Unlock()
		if f.signedURLStatus != http.StatusOK {
			w.WriteHeader(f.signedURLStatus)
			return
		}
		_, _ = io.WriteString(w, f.srv.URL+"/signed/"+r.URL.Query().Get("fileName")+"\n")
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/signed/"):
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.puts = append(f.puts, recordedPut{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		f.mu.Unlock()
		w.WriteHeader(f.putStatus)
	case r.Method == http.MethodPost && r.URL.Path == "/image-gen":
		var req models.ImageGenRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.submits = append(f.submits, req)
		f.mu.Unlock()
		w.WriteHeader(f.submitStatus)
		if f.submitStatus == http.StatusOK {
			_, _ = io.WriteString(w, f.submitBody)
		}
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/image-gen/"+testUserID+"/"):
		n := int(atomic.AddInt32(&f.statusCalls, 1))
		body := f.statuses[len(f.statuses)-1]
		if n <= len(f.statuses) {
			body = f.statuses[n-1]
		}
		if body == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, body)
	default:
		http.NotFound(w, r)
	}
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestClient(f *fakeService, rec *sleepRecorder) *Client {
	opts := Options{
		APIBase:      f.srv.URL,
		ContentBase:  "https://contents.example/",
		UserID:       testUserID,
		PollInterval: 2 * time.Second,
		MaxPolls:     60,
		HTTPClient:   f.srv.Client(),
	}
	if rec != nil {
		opts.Sleep = rec.sleep
	}
	return NewClient(opts)
}

func repeat(body string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = body
	}
	return out
}

func TestUploadReturnsContentAddress(t *testing.T) {
	f := newFakeService(t)
	c := newTestClient(f, nil)

	addr, err := c.Upload(context.Background(), models.UploadFile{
		Filename:    "cat.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)

	require.Len(t, f.signedNames, 1)
	name := f.signedNames[0]
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{21}\.png$`), name)
	assert.Equal(t, "https://contents.example/"+name, addr)

	require.Len(t, f.puts, 1)
	assert.Equal(t, "/signed/"+name, f.puts[0].path)
	assert.Equal(t, "image/png", f.puts[0].contentType)
	assert.Equal(t, []byte("png-bytes"), f.puts[0].body)
}

func TestUploadDefaultsExtension(t *testing.T) {
	f := newFakeService(t)
	c := newTestClient(f, nil)

	addr, err := c.Upload(context.Background(), models.UploadFile{Filename: "camera-roll", Data: []byte("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(addr, ".jpg"))
	assert.Equal(t, "application/octet-stream", f.puts[0].contentType)
}

func TestUploadSignedURLFailureSkipsTransfer(t *testing.T) {
	f := newFakeService(t)
	f.signedURLStatus = http.StatusForbidden
	c := newTestClient(f, nil)

	_, err := c.Upload(context.Background(), models.UploadFile{Filename: "a.jpg", Data: []byte("x")})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
	assert.Contains(t, err.Error(), "Forbidden")
	assert.Contains(t, err.Error(), "get signed URL")
	assert.Empty(t, f.puts)
}

func TestUploadTransferFailure(t *testing.T) {
	f := newFakeService(t)
	f.putStatus = http.StatusServiceUnavailable
	c := newTestClient(f, nil)

	_, err := c.Upload(context.Background(), models.UploadFile{Filename: "a.jpg", Data: []byte("x")})

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "upload file", transportErr.Op)
	assert.Contains(t, err.Error(), "Service Unavailable")
}

func TestSubmitSendsEffectRequest(t *testing.T) {
	f := newFakeService(t)
	c := newTestClient(f, nil)

	job, err := c.Submit(context.Background(), "https://contents.example/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.JobID)
	assert.Equal(t, models.StatusQueued, job.Status)

	require.Len(t, f.submits, 1)
	assert.Equal(t, models.ImageGenRequest{
		Model:           "image-effects",
		ToolType:        "image-effects",
		EffectID:        "photoToVectorArt",
		ImageURL:        "https://contents.example/a.jpg",
		UserID:          testUserID,
		RemoveWatermark: true,
		IsPrivate:       true,
	}, f.submits[0])
}

func TestSubmitFailure(t *testing.T) {
	f := newFakeService(t)
	f.submitStatus = http.StatusBadGateway
	c := newTestClient(f, nil)

	_, err := c.Submit(context.Background(), "https://contents.example/a.jpg")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "Failed to submit job: Bad Gateway", err.Error())
	assert.Len(t, f.submits, 1)
}

func TestSubmitWithoutJobID(t *testing.T) {
	f := newFakeService(t)
	f.submitBody = `{"status":"queued"}`
	c := newTestClient(f, nil)

	_, err := c.Submit(context.Background(), "https://contents.example/a.jpg")
	assert.ErrorContains(t, err, "no job id")
}

func TestPollCompletesOnLastAttempt(t *testing.T) {
	f := newFakeService(t)
	f.statuses = append(repeat(`{"status":"processing"}`, 59), `{"status":"completed","result":{"mediaUrl":"X"}}`)
	rec := &sleepRecorder{}
	c := newTestClient(f, rec)

	var attempts []int
	job, err := c.Poll(context.Background(), "j1", func(attempt int) {
		attempts = append(attempts, attempt)
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, job.Status)
	item, ok := job.Result.First()
	require.True(t, ok)
	assert.Equal(t, "X", item.MediaURL)

	require.Len(t, attempts, 59)
	for i, a := range attempts {
		assert.Equal(t, i+1, a)
	}
	assert.EqualValues(t, 60, atomic.LoadInt32(&f.statusCalls))
}

func TestPollTimesOut(t *testing.T) {
	f := newFakeService(t)
	f.statuses = []string{`{"status":"processing"}`}
	rec := &sleepRecorder{}
	c := newTestClient(f, rec)

	_, err := c.Poll(context.Background(), "j1", nil)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 60, timeoutErr.Attempts)
	assert.Equal(t, "Job timed out after 60 polls", err.Error())
	assert.EqualValues(t, 60, atomic.LoadInt32(&f.statusCalls))

	require.Len(t, rec.sleeps, 60)
	for _, d := range rec.sleeps {
		assert.Equal(t, 2*time.Second, d)
	}
}

func TestPollJobFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"failed with message", `{"status":"failed","error":"NSFW content"}`, "NSFW content"},
		{"error without message", `{"status":"error"}`, "Job processing failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeService(t)
			f.statuses = []string{`{"status":"queued"}`, tt.body}
			c := newTestClient(f, &sleepRecorder{})

			_, err := c.Poll(context.Background(), "j1", nil)

			var failedErr *JobFailedError
			require.True(t, errors.As(err, &failedErr))
			assert.Equal(t, tt.want, err.Error())
			assert.EqualValues(t, 2, atomic.LoadInt32(&f.statusCalls))
		})
	}
}

func TestPollTransportFailureIsNotRetried(t *testing.T) {
	f := newFakeService(t)
	f.statuses = []string{`{"status":"processing"}`, "500"}
	c := newTestClient(f, &sleepRecorder{})

	_, err := c.Poll(context.Background(), "j1", nil)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "check status", transportErr.Op)
	assert.EqualValues(t, 2, atomic.LoadInt32(&f.statusCalls))
}

func TestPollStopsWhenCancelled(t *testing.T) {
	f := newFakeService(t)
	f.statuses = []string{`{"status":"processing"}`}
	c := NewClient(Options{
		APIBase:      f.srv.URL,
		UserID:       testUserID,
		PollInterval: time.Hour,
		HTTPClient:   f.srv.Client(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.Poll(ctx, "j1", func(int) { cancel() })

	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.statusCalls))
}
