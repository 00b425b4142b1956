package models

import "time"

type EventType string

const (
	EventStatus        EventType = "status"
	EventError         EventType = "error"
	EventResultReady   EventType = "result_ready"
	EventDownloadReady EventType = "download_ready"
)

// SessionEvent is a presentation callback recorded for a session.
type SessionEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"type"`
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
