package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
	"github.com/kubiyabot/actor-sdk/internal/metrics"
)

// CallOptions configures a single Call. The zero value waits for the run,
// fetches its output and uses the client's default token.
type CallOptions struct {
	// Token overrides the default credential for every request of this call.
	Token string

	// ContentType of a string or []byte input. Required for those inputs,
	// ignored for anything else (which is sent as JSON).
	ContentType string

	// Build tag or number to run instead of the actor's default build.
	Build string

	// Memory limit for the run in megabytes; 0 keeps the actor's default.
	Memory int

	// WaitSecs bounds how long Call waits for the run to finish.
	// nil waits up to the client's maximum; 0 returns right after the run starts.
	WaitSecs *int

	// FetchOutput set to false skips reading the OUTPUT record.
	FetchOutput *bool

	// DisableBodyParser returns the OUTPUT record body as raw bytes.
	DisableBodyParser bool
}

// Int returns a pointer to v, for CallOptions.WaitSecs
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for CallOptions.FetchOutput
func Bool(v bool) *bool { return &v }

// Call starts actorID with input, waits for the run to finish and returns it.
//
// When the run succeeds its OUTPUT record is attached as Run.Output. When it
// ends in any other terminal status Call returns a *CallError holding the run.
// If the wait budget runs out first, the last observed run is returned with no
// error. Errors from the platform API are returned unchanged.
func (c *Client) Call(ctx context.Context, actorID string, input interface{}, opts *CallOptions) (*entities.Run, error) {
	if opts == nil {
		opts = &CallOptions{}
	}
	startedAt := c.now()

	run, outcome, err := c.call(ctx, actorID, input, opts, startedAt)
	if c.metrics {
		metrics.RecordCall(outcome, c.now().Sub(startedAt).Seconds())
	}
	return run, err
}

func (c *Client) call(ctx context.Context, actorID string, input interface{}, opts *CallOptions, startedAt time.Time) (*entities.Run, string, error) {
	req, err := buildRunRequest(actorID, input, opts)
	if err != nil {
		return nil, metrics.OutcomeError, err
	}

	run, err := c.ops.RunActor(ctx, req)
	if err != nil {
		return nil, metrics.OutcomeError, err
	}
	if run == nil {
		return nil, metrics.OutcomeError, fmt.Errorf("platform returned no run for actor %s", actorID)
	}
	c.debugf("Started run %s of actor %s (status=%s)", run.ID, actorID, run.Status)

	wait := c.maxWait
	if opts.WaitSecs != nil {
		wait = waitDuration(*opts.WaitSecs)
	}
	if wait <= 0 {
		return run, metrics.OutcomeStarted, nil
	}

	run, err = c.waitForFinish(ctx, actorID, run, opts.Token, startedAt.Add(wait))
	if err != nil {
		return nil, metrics.OutcomeError, err
	}

	if !run.Status.IsTerminal() {
		c.debugf("Run %s still %s after waiting %s", run.ID, run.Status, wait)
		return run, metrics.OutcomeUnfinished, nil
	}

	if !run.Status.IsSucceeded() {
		return nil, metrics.OutcomeFailed, &CallError{Run: run}
	}

	if opts.FetchOutput != nil && !*opts.FetchOutput {
		return run, metrics.OutcomeSucceeded, nil
	}

	record, err := c.ops.GetRecord(ctx, &entities.GetRecordRequest{
		StoreID:           run.DefaultKeyValueStoreID,
		Key:               entities.OutputRecordKey,
		Token:             opts.Token,
		DisableBodyParser: opts.DisableBodyParser,
	})
	if err != nil {
		return nil, metrics.OutcomeError, err
	}

	finished := run.Clone()
	finished.Output = record
	return finished, metrics.OutcomeSucceeded, nil
}

// waitForFinish polls the run one request at a time until it reaches a
// terminal status or the deadline passes. Each poll asks the platform to hold
// the request for the whole remaining budget.
func (c *Client) waitForFinish(ctx context.Context, actorID string, run *entities.Run, token string, deadline time.Time) (*entities.Run, error) {
	last := run
	for !last.Status.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		remaining := deadline.Sub(c.now())
		if remaining <= 0 {
			break
		}

		polled, err := c.ops.GetRun(ctx, &entities.GetRunRequest{
			ActorID:           actorID,
			RunID:             run.ID,
			Token:             token,
			WaitForFinishSecs: ceilSeconds(remaining),
		})
		if err != nil {
			return nil, err
		}
		if c.metrics {
			metrics.RecordPoll(polled == nil)
		}

		if polled == nil {
			c.debugf("Run %s not available yet, polling again", run.ID)
			continue
		}
		last = polled
	}
	return last, nil
}

// waitDuration converts secs, saturating at the largest time.Duration
func waitDuration(secs int) time.Duration {
	if int64(secs) > maxWaitSecs {
		return time.Duration(maxWaitSecs) * time.Second
	}
	return time.Duration(secs) * time.Second
}

const maxWaitSecs = math.MaxInt64 / int64(time.Second)

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func buildRunRequest(actorID string, input interface{}, opts *CallOptions) (*entities.RunActorRequest, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, invalid("actorId", "must not be empty")
	}
	if opts.Memory < 0 {
		return nil, invalid("memory", "must not be negative, got %d", opts.Memory)
	}
	if opts.WaitSecs != nil && *opts.WaitSecs < 0 {
		return nil, invalid("waitSecs", "must not be negative, got %d", *opts.WaitSecs)
	}

	req := &entities.RunActorRequest{
		ActorID: actorID,
		Token:   opts.Token,
		Build:   opts.Build,
		Memory:  opts.Memory,
	}

	body, contentType, err := encodeValue(input, opts.ContentType)
	if err != nil {
		return nil, err
	}
	req.Body = body
	req.ContentType = contentType

	return req, nil
}

// encodeValue turns an input or record value into a request body.
// Strings and bytes are sent as-is with the given content type; everything
// else is sent as indented JSON. A nil value produces no body.
func encodeValue(value interface{}, contentType string) ([]byte, string, error) {
	switch v := value.(type) {
	case nil:
		return nil, "", nil
	case string:
		if contentType == "" {
			return nil, "", invalid("contentType", "is required when the input is a string")
		}
		return []byte(v), withCharset(contentType), nil
	case []byte:
		if contentType == "" {
			return nil, "", invalid("contentType", "is required when the input is a byte slice")
		}
		return v, withCharset(contentType), nil
	default:
		body, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, "", invalid("input", "cannot be serialized to JSON: %v", err)
		}
		return body, jsonContentType, nil
	}
}

func withCharset(contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "charset=") {
		return contentType
	}
	return contentType + charsetSuffix
}
