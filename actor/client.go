package actor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kubiyabot/actor-sdk/apiclient"
	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

// Operations is the subset of the platform API that Call depends on.
// *apiclient.Client implements it; tests substitute their own.
type Operations interface {
	// RunActor starts a run and returns it without waiting.
	RunActor(ctx context.Context, req *entities.RunActorRequest) (*entities.Run, error)

	// GetRun returns the current state of a run, holding the request open for
	// up to req.WaitForFinishSecs. A nil run with a nil error means the state
	// is not available yet.
	GetRun(ctx context.Context, req *entities.GetRunRequest) (*entities.Run, error)

	// GetRecord reads a key-value store record.
	GetRecord(ctx context.Context, req *entities.GetRecordRequest) (*entities.Record, error)
}

var _ Operations = (*apiclient.Client)(nil)

// Client calls actors through an Operations implementation
type Client struct {
	ops     Operations
	maxWait time.Duration
	now     func() time.Time
	debug   bool
	metrics bool
}

// Option configures a Client
type Option func(*Client)

// WithMaxWait sets how long Call waits when CallOptions.WaitSecs is nil
func WithMaxWait(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.maxWait = d
		}
	}
}

// WithClock replaces time.Now, used to measure the wait budget
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithDebug enables debug logging to stderr
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithMetrics toggles Prometheus call metrics
func WithMetrics(enabled bool) Option {
	return func(c *Client) {
		c.metrics = enabled
	}
}

// New creates a Client on top of ops
func New(ops Operations, opts ...Option) *Client {
	c := &Client{
		ops:     ops,
		maxWait: DefaultMaxWait,
		now:     time.Now,
		metrics: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv creates a Client backed by the platform API, authenticated with APIFY_TOKEN
func NewFromEnv(opts ...Option) *Client {
	return New(apiclient.New(os.Getenv(EnvToken)), opts...)
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}
