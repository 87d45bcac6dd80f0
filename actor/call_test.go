package actor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubiyabot/actor-sdk/apiclient"
	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeOps records every request and answers from per-test handlers
type fakeOps struct {
	runReqs    []*entities.RunActorRequest
	getRunReqs []*entities.GetRunRequest
	recordReqs []*entities.GetRecordRequest

	runActor  func(req *entities.RunActorRequest) (*entities.Run, error)
	getRun    func(req *entities.GetRunRequest) (*entities.Run, error)
	getRecord func(req *entities.GetRecordRequest) (*entities.Record, error)
}

func (f *fakeOps) RunActor(_ context.Context, req *entities.RunActorRequest) (*entities.Run, error) {
	f.runReqs = append(f.runReqs, req)
	return f.runActor(req)
}

func (f *fakeOps) GetRun(_ context.Context, req *entities.GetRunRequest) (*entities.Run, error) {
	f.getRunReqs = append(f.getRunReqs, req)
	if f.getRun == nil {
		return nil, errors.New("unexpected GetRun")
	}
	return f.getRun(req)
}

func (f *fakeOps) GetRecord(_ context.Context, req *entities.GetRecordRequest) (*entities.Record, error) {
	f.recordReqs = append(f.recordReqs, req)
	if f.getRecord == nil {
		return nil, errors.New("unexpected GetRecord")
	}
	return f.getRecord(req)
}

func startedRun(status entities.RunStatus) func(*entities.RunActorRequest) (*entities.Run, error) {
	return func(req *entities.RunActorRequest) (*entities.Run, error) {
		return &entities.Run{
			ID:                     "some-run-id",
			ActorID:                req.ActorID,
			Status:                 status,
			DefaultKeyValueStoreID: "some-store-id",
		}, nil
	}
}

func polledRun(status entities.RunStatus) *entities.Run {
	return &entities.Run{
		ID:                     "some-run-id",
		ActorID:                "some-act-id",
		Status:                 status,
		DefaultKeyValueStoreID: "some-store-id",
	}
}

func outputRecord(req *entities.GetRecordRequest) (*entities.Record, error) {
	return &entities.Record{Key: req.Key, ContentType: "application/json; charset=utf-8", Body: map[string]interface{}{"foo": "bar"}}, nil
}

func newTestClient(ops Operations) (*Client, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(ops, WithClock(clock.now), WithMetrics(false)), clock
}

func TestCall(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		opts  *CallOptions
		ops   func(clock *fakeClock) *fakeOps

		wantBody        string
		wantContentType string
		wantWaits       []int
		wantStatus      entities.RunStatus
		wantOutput      bool
		wantRecordReqs  int
	}{
		{
			name:  "string input with every option",
			input: "something",
			opts: &CallOptions{
				Token:       "some-token",
				ContentType: "text/plain",
				Build:       "xxx",
				Memory:      1024,
			},
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantBody:        "something",
			wantContentType: "text/plain; charset=utf-8",
			wantWaits:       []int{999999},
			wantStatus:      entities.RunStatusSucceeded,
			wantOutput:      true,
			wantRecordReqs:  1,
		},
		{
			name: "no input and no options",
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantWaits:      []int{999999},
			wantStatus:     entities.RunStatusSucceeded,
			wantOutput:     true,
			wantRecordReqs: 1,
		},
		{
			name:  "structured input is sent as json",
			input: map[string]interface{}{"a": "b"},
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantBody:        "{\n  \"a\": \"b\"\n}",
			wantContentType: "application/json; charset=utf-8",
			wantWaits:       []int{999999},
			wantStatus:      entities.RunStatusSucceeded,
			wantOutput:      true,
			wantRecordReqs:  1,
		},
		{
			name: "fetch output disabled",
			opts: &CallOptions{FetchOutput: Bool(false)},
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						return polledRun(entities.RunStatusSucceeded), nil
					},
				}
			},
			wantWaits:  []int{999999},
			wantStatus: entities.RunStatusSucceeded,
		},
		{
			name: "wait budget runs out",
			opts: &CallOptions{WaitSecs: Int(1)},
			ops: func(clock *fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(req *entities.GetRunRequest) (*entities.Run, error) {
						clock.advance(time.Duration(req.WaitForFinishSecs) * time.Second)
						return polledRun(entities.RunStatusRunning), nil
					},
				}
			},
			wantWaits:  []int{1},
			wantStatus: entities.RunStatusRunning,
		},
		{
			name: "null polls are retried",
			ops: func(*fakeClock) *fakeOps {
				polls := 0
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						polls++
						if polls < 3 {
							return nil, nil
						}
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantWaits:      []int{999999, 999999, 999999},
			wantStatus:     entities.RunStatusSucceeded,
			wantOutput:     true,
			wantRecordReqs: 1,
		},
		{
			name: "huge wait saturates instead of overflowing",
			opts: &CallOptions{WaitSecs: Int(math.MaxInt)},
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantWaits:      []int{int(maxWaitSecs)},
			wantStatus:     entities.RunStatusSucceeded,
			wantOutput:     true,
			wantRecordReqs: 1,
		},
		{
			name: "zero wait returns the started run",
			opts: &CallOptions{WaitSecs: Int(0)},
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{runActor: startedRun(entities.RunStatusReady)}
			},
			wantStatus: entities.RunStatusReady,
		},
		{
			name: "run already finished when started",
			ops: func(*fakeClock) *fakeOps {
				return &fakeOps{
					runActor:  startedRun(entities.RunStatusSucceeded),
					getRecord: outputRecord,
				}
			},
			wantStatus:     entities.RunStatusSucceeded,
			wantOutput:     true,
			wantRecordReqs: 1,
		},
		{
			name: "budget shrinks between polls",
			opts: &CallOptions{WaitSecs: Int(10)},
			ops: func(clock *fakeClock) *fakeOps {
				polls := 0
				return &fakeOps{
					runActor: startedRun(entities.RunStatusReady),
					getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
						polls++
						clock.advance(3500 * time.Millisecond)
						if polls < 2 {
							return polledRun(entities.RunStatusRunning), nil
						}
						return polledRun(entities.RunStatusSucceeded), nil
					},
					getRecord: outputRecord,
				}
			},
			wantWaits:      []int{10, 7},
			wantStatus:     entities.RunStatusSucceeded,
			wantOutput:     true,
			wantRecordReqs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
			ops := tt.ops(clock)
			client := New(ops, WithClock(clock.now), WithMetrics(false))

			run, err := client.Call(context.Background(), "some-act-id", tt.input, tt.opts)
			require.NoError(t, err)
			require.NotNil(t, run)
			assert.Equal(t, tt.wantStatus, run.Status)

			require.Len(t, ops.runReqs, 1)
			req := ops.runReqs[0]
			assert.Equal(t, "some-act-id", req.ActorID)
			assert.Equal(t, tt.wantBody, string(req.Body))
			assert.Equal(t, tt.wantContentType, req.ContentType)

			var waits []int
			for _, r := range ops.getRunReqs {
				assert.Equal(t, "some-run-id", r.RunID)
				waits = append(waits, r.WaitForFinishSecs)
			}
			assert.Equal(t, tt.wantWaits, waits)

			assert.Len(t, ops.recordReqs, tt.wantRecordReqs)
			if tt.wantOutput {
				require.NotNil(t, run.Output)
				assert.Equal(t, entities.OutputRecordKey, run.Output.Key)
				assert.Equal(t, map[string]interface{}{"foo": "bar"}, run.Output.Body)
				assert.Equal(t, "some-store-id", ops.recordReqs[0].StoreID)
			} else {
				assert.Nil(t, run.Output)
			}
		})
	}
}

func TestCallForwardsOptions(t *testing.T) {
	ops := &fakeOps{
		runActor: startedRun(entities.RunStatusRunning),
		getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
			return polledRun(entities.RunStatusSucceeded), nil
		},
		getRecord: func(req *entities.GetRecordRequest) (*entities.Record, error) {
			return &entities.Record{Key: req.Key, ContentType: "application/json", Body: []byte(`{"foo":"bar"}`)}, nil
		},
	}
	client, _ := newTestClient(ops)

	run, err := client.Call(context.Background(), "user/some-actor", nil, &CallOptions{
		Token:             "some-token",
		DisableBodyParser: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "some-token", ops.runReqs[0].Token)
	require.Len(t, ops.getRunReqs, 1)
	assert.Equal(t, "some-token", ops.getRunReqs[0].Token)
	assert.Equal(t, "user/some-actor", ops.getRunReqs[0].ActorID)
	require.Len(t, ops.recordReqs, 1)
	assert.Equal(t, "some-token", ops.recordReqs[0].Token)
	assert.True(t, ops.recordReqs[0].DisableBodyParser)
	assert.Equal(t, []byte(`{"foo":"bar"}`), run.Output.Body)
}

func TestCallDoesNotMutatePolledRun(t *testing.T) {
	finished := polledRun(entities.RunStatusSucceeded)
	ops := &fakeOps{
		runActor: startedRun(entities.RunStatusReady),
		getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
			return finished, nil
		},
		getRecord: outputRecord,
	}
	client, _ := newTestClient(ops)

	run, err := client.Call(context.Background(), "some-act-id", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, run.Output)
	assert.Nil(t, finished.Output)
}

func TestCallFailedRun(t *testing.T) {
	for _, status := range []entities.RunStatus{
		entities.RunStatusAborted,
		entities.RunStatusFailed,
		entities.RunStatusTimedOut,
	} {
		t.Run(string(status), func(t *testing.T) {
			ops := &fakeOps{
				runActor: startedRun(entities.RunStatusReady),
				getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
					return polledRun(status), nil
				},
			}
			client, _ := newTestClient(ops)

			run, err := client.Call(context.Background(), "some-act-id", nil, nil)
			assert.Nil(t, run)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRunFailed)

			var callErr *CallError
			require.ErrorAs(t, err, &callErr)
			assert.Equal(t, status, callErr.Run.Status)
			assert.Equal(t, "some-run-id", callErr.Run.ID)
			assert.Contains(t, err.Error(), string(status))
			assert.Empty(t, ops.recordReqs)
		})
	}
}

func TestCallValidation(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		input     interface{}
		opts      *CallOptions
		wantField string
	}{
		{name: "empty actor", actorID: "", wantField: "actorId"},
		{name: "blank actor", actorID: "   ", wantField: "actorId"},
		{name: "string without content type", actorID: "a", input: "x", wantField: "contentType"},
		{name: "bytes without content type", actorID: "a", input: []byte("x"), wantField: "contentType"},
		{name: "negative memory", actorID: "a", opts: &CallOptions{Memory: -1}, wantField: "memory"},
		{name: "negative wait", actorID: "a", opts: &CallOptions{WaitSecs: Int(-5)}, wantField: "waitSecs"},
		{name: "unserializable input", actorID: "a", input: make(chan int), wantField: "input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := &fakeOps{runActor: startedRun(entities.RunStatusReady)}
			client, _ := newTestClient(ops)

			_, err := client.Call(context.Background(), tt.actorID, tt.input, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Empty(t, ops.runReqs)
		})
	}
}

func TestCallPropagatesAPIErrors(t *testing.T) {
	apiErr := &apiclient.APIError{StatusCode: 401, Type: "token-not-valid", Message: "bad token"}

	t.Run("start", func(t *testing.T) {
		ops := &fakeOps{runActor: func(*entities.RunActorRequest) (*entities.Run, error) { return nil, apiErr }}
		client, _ := newTestClient(ops)

		_, err := client.Call(context.Background(), "some-act-id", nil, nil)
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("poll", func(t *testing.T) {
		ops := &fakeOps{
			runActor: startedRun(entities.RunStatusRunning),
			getRun:   func(*entities.GetRunRequest) (*entities.Run, error) { return nil, apiErr },
		}
		client, _ := newTestClient(ops)

		run, err := client.Call(context.Background(), "some-act-id", nil, nil)
		assert.Nil(t, run)
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("no run returned", func(t *testing.T) {
		ops := &fakeOps{runActor: func(*entities.RunActorRequest) (*entities.Run, error) { return nil, nil }}
		client, _ := newTestClient(ops)

		_, err := client.Call(context.Background(), "some-act-id", nil, nil)
		assert.Error(t, err)
	})
}

func TestCallHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ops := &fakeOps{
		runActor: startedRun(entities.RunStatusReady),
		getRun: func(*entities.GetRunRequest) (*entities.Run, error) {
			cancel()
			return nil, nil
		},
	}
	client, _ := newTestClient(ops)

	_, err := client.Call(ctx, "some-act-id", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, ops.getRunReqs, 1)
}

func TestWithCharset(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", withCharset("text/plain"))
	assert.Equal(t, "text/plain; charset=latin1", withCharset("text/plain; charset=latin1"))
	assert.Equal(t, "text/plain; Charset=UTF-8", withCharset("text/plain; Charset=UTF-8"))
}
