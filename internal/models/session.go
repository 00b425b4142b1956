package models

import "time"

type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionUploading  SessionState = "uploading"
	SessionReady      SessionState = "ready"
	SessionGenerating SessionState = "generating"
	SessionComplete   SessionState = "complete"
	SessionError      SessionState = "error"
)

// Session is one user's client state across the upload, generate and
// download actions. ContentAddress is non-empty only between a successful
// upload and the next reset.
type Session struct {
	ID             string       `json:"id"`
	State          SessionState `json:"state"`
	StatusText     string       `json:"status_text"`
	Error          string       `json:"error,omitempty"`
	ContentAddress string       `json:"content_address,omitempty"`
	Preview        string       `json:"preview,omitempty"`
	JobID          string       `json:"job_id,omitempty"`
	ResultAddress  string       `json:"result_address,omitempty"`
	DisplayAddress string       `json:"display_address,omitempty"`
	Artifact       string       `json:"artifact,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     SessionIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) HasUpload() bool {
	return s.ContentAddress != ""
}

func (s *Session) HasResult() bool {
	return s.ResultAddress != ""
}

// Clear drops everything the user produced and returns to the empty artboard.
func (s *Session) Clear() {
	s.State = SessionIdle
	s.StatusText = ""
	s.Error = ""
	s.ContentAddress = ""
	s.Preview = ""
	s.JobID = ""
	s.ResultAddress = ""
	s.DisplayAddress = ""
	s.Artifact = ""
}
