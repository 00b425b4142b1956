package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusError      JobStatus = "error"
)

// IsFailure reports whether the service gave up on the job.
func (s JobStatus) IsFailure() bool {
	return s == StatusFailed || s == StatusError
}

// IsTerminal reports whether no further transition can be observed.
// Unknown statuses are treated as in progress.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s.IsFailure()
}

// Job mirrors the descriptor returned by POST /image-gen and by the status endpoint.
type Job struct {
	JobID  string            `json:"jobId,omitempty"`
	Status JobStatus         `json:"status"`
	Result *ResultDescriptor `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// ImageGenRequest is the effect job body sent to POST /image-gen.
type ImageGenRequest struct {
	Model           string `json:"model"`
	ToolType        string `json:"toolType"`
	EffectID        string `json:"effectId"`
	ImageURL        string `json:"imageUrl"`
	UserID          string `json:"userId"`
	RemoveWatermark bool   `json:"removeWatermark"`
	IsPrivate       bool   `json:"isPrivate"`
}

type ResultItem struct {
	MediaURL string `json:"mediaUrl,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Address returns mediaUrl, falling back to image.
func (i ResultItem) Address() string {
	if i.MediaURL != "" {
		return i.MediaURL
	}
	return i.Image
}

// ResultDescriptor accepts either a single result object or an ordered list of them.
type ResultDescriptor struct {
	Items []ResultItem
	list  bool
}

func SingleResult(item ResultItem) *ResultDescriptor {
	return &ResultDescriptor{Items: []ResultItem{item}}
}

func ResultList(items ...ResultItem) *ResultDescriptor {
	return &ResultDescriptor{Items: items, list: true}
}

// First returns the first candidate output.
func (r *ResultDescriptor) First() (ResultItem, bool) {
	if r == nil || len(r.Items) == 0 {
		return ResultItem{}, false
	}
	return r.Items[0], true
}

func (r *ResultDescriptor) IsList() bool {
	return r != nil && r.list
}

func (r *ResultDescriptor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		r.Items, r.list = nil, false
		return nil
	case data[0] == '[':
		var items []ResultItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode result list: %w", err)
		}
		r.Items, r.list = items, true
		return nil
	case data[0] == '{':
		var item ResultItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
		r.Items, r.list = []ResultItem{item}, false
		return nil
	default:
		return fmt.Errorf("decode result: unexpected token %q", data[0])
	}
}

func (r ResultDescriptor) MarshalJSON() ([]byte, error) {
	if !r.list && len(r.Items) == 1 {
		return json.Marshal(r.Items[0])
	}
	items := r.Items
	if items == nil {
		items = []ResultItem{}
	}
	return json.Marshal(items)
}
