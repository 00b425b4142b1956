package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobDecodesSingleResult(t *testing.T) {
	var job Job
	err := json.Unmarshal([]byte(`{"status":"completed","result":{"image":"C"}}`), &job)
	require.NoError(t, err)

	require.NotNil(t, job.Result)
	assert.False(t, job.Result.IsList())
	item, ok := job.Result.First()
	require.True(t, ok)
	assert.Equal(t, "C", item.Address())
}

func TestJobDecodesResultList(t *testing.T) {
	var job Job
	err := json.Unmarshal([]byte(`{"status":"completed","result":[{"mediaUrl":"A"},{"mediaUrl":"B"}]}`), &job)
	require.NoError(t, err)

	require.NotNil(t, job.Result)
	assert.True(t, job.Result.IsList())
	item, ok := job.Result.First()
	require.True(t, ok)
	assert.Equal(t, "A", item.Address())
}

func TestJobDecodesMissingResult(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{"status":"processing","result":null}`), &job))

	_, ok := job.Result.First()
	assert.False(t, ok)
}

func TestResultDescriptorRejectsScalar(t *testing.T) {
	var job Job
	err := json.Unmarshal([]byte(`{"status":"completed","result":"https://x"}`), &job)
	assert.Error(t, err)
}

func TestResultItemPrefersMediaURL(t *testing.T) {
	item := ResultItem{MediaURL: "https://media", Image: "https://image"}
	assert.Equal(t, "https://media", item.Address())
	assert.Equal(t, "https://image", ResultItem{Image: "https://image"}.Address())
	assert.Empty(t, ResultItem{}.Address())
}

func TestResultDescriptorKeepsShapeWhenEncoded(t *testing.T) {
	single, err := json.Marshal(SingleResult(ResultItem{MediaURL: "X"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mediaUrl":"X"}`, string(single))

	list, err := json.Marshal(ResultList(ResultItem{MediaURL: "X"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"mediaUrl":"X"}]`, string(list))
}

func TestJobStatusTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
		failure  bool
	}{
		{StatusQueued, false, false},
		{StatusProcessing, false, false},
		{JobStatus("rendering"), false, false},
		{StatusCompleted, true, false},
		{StatusFailed, true, true},
		{StatusError, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.failure, tt.status.IsFailure())
		})
	}
}
