package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusTerminal(t *testing.T) {
	tests := []struct {
		status    RunStatus
		terminal  bool
		succeeded bool
	}{
		{RunStatusReady, false, false},
		{RunStatusRunning, false, false},
		{RunStatusTimingOut, false, false},
		{RunStatusAborting, false, false},
		{RunStatusSucceeded, true, true},
		{RunStatusFailed, true, false},
		{RunStatusTimedOut, true, false},
		{RunStatusAborted, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.succeeded, tt.status.IsSucceeded())
		})
	}
}

func TestRunUnmarshal(t *testing.T) {
	data := `{
		"id": "run-1",
		"actId": "act-1",
		"status": "succeeded",
		"startedAt": "2017-01-01T00:00:00.000Z",
		"finishedAt": null,
		"defaultKeyValueStoreId": "store-1",
		"options": {"build": "latest", "memoryMbytes": 1024}
	}`

	var run Run
	require.NoError(t, json.Unmarshal([]byte(data), &run))

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "act-1", run.ActorID)
	assert.Equal(t, RunStatusSucceeded, run.Status)
	require.NotNil(t, run.StartedAt)
	assert.True(t, run.StartedAt.Equal(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, run.FinishedAt == nil || run.FinishedAt.IsZero())
	assert.Equal(t, "store-1", run.DefaultKeyValueStoreID)
	assert.Equal(t, 1024, run.Options.MemoryMbytes)
	assert.Nil(t, run.Output)
}

func TestRunClone(t *testing.T) {
	run := &Run{ID: "run-1", Status: RunStatusSucceeded}
	clone := run.Clone()
	clone.Output = &Record{Body: "x"}

	assert.Nil(t, run.Output)
	assert.Equal(t, run.ID, clone.ID)
	assert.Nil(t, (*Run)(nil).Clone())
}

func TestParseRecordBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		raw         string
		want        interface{}
		wantErr     bool
	}{
		{
			name:        "json object",
			contentType: "application/json; charset=utf-8",
			raw:         `{"a":"b"}`,
			want:        map[string]interface{}{"a": "b"},
		},
		{
			name:        "empty json",
			contentType: "application/json",
			raw:         "",
			want:        nil,
		},
		{
			name:        "plain text",
			contentType: "text/plain; charset=utf-8",
			raw:         "some-output",
			want:        "some-output",
		},
		{
			name:        "binary",
			contentType: "image/png",
			raw:         "\x89PNG",
			want:        []byte("\x89PNG"),
		},
		{
			name:        "broken json",
			contentType: "application/json",
			raw:         "{",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecordBody(tt.contentType, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2017-01-01T00:00:00.000Z", "2017-01-01T00:00:00Z", "2017-01-01"} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, ts.Equal(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)), s)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}
