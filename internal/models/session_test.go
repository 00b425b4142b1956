package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionClear(t *testing.T) {
	s := NewSession("s1", time.Now())
	s.State = SessionComplete
	s.ContentAddress = "https://contents.example/a.jpg"
	s.Preview = "data:image/jpeg;base64,AAAA"
	s.ResultAddress = "https://contents.example/out.png"
	s.JobID = "j1"

	s.Clear()

	assert.Equal(t, SessionIdle, s.State)
	assert.False(t, s.HasUpload())
	assert.False(t, s.HasResult())
	assert.Empty(t, s.Preview)
	assert.Empty(t, s.JobID)
	assert.Equal(t, "s1", s.ID)
}
