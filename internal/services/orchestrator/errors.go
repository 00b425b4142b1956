package orchestrator

import "errors"

var (
	ErrNoUpload = errors.New("Please upload an image first.")
	ErrNoResult = errors.New("No result to download yet.")
	ErrBusy     = errors.New("Another action is still running for this session.")

	errSuperseded = errors.New("session was reset")
)
