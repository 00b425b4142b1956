package models

// Artifact is a retrieved result image.
type Artifact struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Source      string `json:"source"`
	Location    string `json:"location,omitempty"`
	Data        []byte `json:"-"`
}
