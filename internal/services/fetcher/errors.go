package fetcher

import (
	"errors"
	"fmt"
)

// ErrMissingResult is returned for a completed job whose result has no media address.
var ErrMissingResult = errors.New("No image URL in response")

// ManualSaveMessage is shown when every retrieval strategy failed.
const ManualSaveMessage = "Download failed: automated download is blocked. Please open the image and save it manually."

// DownloadExhaustedError records one error per retrieval strategy that was tried.
type DownloadExhaustedError struct {
	Address  string
	Attempts []error
}

func (e *DownloadExhaustedError) Error() string {
	return ManualSaveMessage
}

func (e *DownloadExhaustedError) Unwrap() []error {
	return e.Attempts
}

type strategyError struct {
	strategy string
	err      error
}

func (e *strategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.strategy, e.err)
}

func (e *strategyError) Unwrap() error {
	return e.err
}
