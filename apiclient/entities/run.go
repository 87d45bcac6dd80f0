package entities

import (
	"encoding/json"
	"strings"
)

// RunStatus represents the lifecycle status of an actor run
type RunStatus string

const (
	RunStatusReady     RunStatus = "READY"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusTimingOut RunStatus = "TIMING-OUT"
	RunStatusTimedOut  RunStatus = "TIMED-OUT"
	RunStatusAborting  RunStatus = "ABORTING"
	RunStatusAborted   RunStatus = "ABORTED"
)

// UnmarshalJSON handles case-insensitive status unmarshaling
func (s *RunStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = RunStatus(strings.ToUpper(str))
	return nil
}

// IsTerminal reports whether the run has finished. The platform never moves a
// run out of a terminal status.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusAborted:
		return true
	}
	return false
}

// IsSucceeded reports whether the run finished successfully
func (s RunStatus) IsSucceeded() bool {
	return s == RunStatusSucceeded
}

// RunMeta describes how a run was started
type RunMeta struct {
	Origin    string `json:"origin,omitempty"`
	ClientIP  string `json:"clientIp,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// RunOptions holds the effective run options chosen by the platform
type RunOptions struct {
	Build        string `json:"build,omitempty"`
	TimeoutSecs  int    `json:"timeoutSecs,omitempty"`
	MemoryMbytes int    `json:"memoryMbytes,omitempty"`
}

// Run represents one execution of an actor
type Run struct {
	ID                     string      `json:"id"`
	ActorID                string      `json:"actId"`
	UserID                 string      `json:"userId,omitempty"`
	Status                 RunStatus   `json:"status,omitempty"`
	StatusMessage          string      `json:"statusMessage,omitempty"`
	StartedAt              *CustomTime `json:"startedAt,omitempty"`
	FinishedAt             *CustomTime `json:"finishedAt,omitempty"`
	BuildID                string      `json:"buildId,omitempty"`
	BuildNumber            string      `json:"buildNumber,omitempty"`
	ExitCode               *int        `json:"exitCode,omitempty"`
	DefaultKeyValueStoreID string      `json:"defaultKeyValueStoreId,omitempty"`
	DefaultDatasetID       string      `json:"defaultDatasetId,omitempty"`
	DefaultRequestQueueID  string      `json:"defaultRequestQueueId,omitempty"`
	Meta                   *RunMeta    `json:"meta,omitempty"`
	Options                *RunOptions `json:"options,omitempty"`

	// Output is never sent by the platform; it is attached after the run's
	// OUTPUT record has been fetched.
	Output *Record `json:"output,omitempty"`
}

// Clone returns a shallow copy of the run, safe to attach output to
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// RunActorRequest represents a request to start an actor run.
// Empty fields are not sent.
type RunActorRequest struct {
	ActorID     string
	Token       string
	ContentType string
	Body        []byte
	Build       string
	Memory      int
}

// GetRunRequest represents a request for a run's current state
type GetRunRequest struct {
	ActorID string
	RunID   string
	Token   string
	// WaitForFinishSecs asks the platform to hold the request open until the
	// run finishes or this many seconds pass.
	WaitForFinishSecs int
}
