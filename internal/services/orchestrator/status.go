package orchestrator

import "fmt"

const (
	StatusUploading   = "UPLOADING..."
	StatusReady       = "READY"
	StatusSubmitting  = "SUBMITTING JOB..."
	StatusQueued      = "JOB QUEUED..."
	StatusComplete    = "COMPLETE"
	StatusError       = "ERROR"
	StatusDownloading = "Downloading..."
)

func processingStatus(attempt int) string {
	return fmt.Sprintf("PROCESSING... (%d)", attempt)
}
