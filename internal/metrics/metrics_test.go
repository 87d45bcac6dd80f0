package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCall(t *testing.T) {
	before := testutil.ToFloat64(CallsTotal.WithLabelValues(OutcomeSucceeded))
	RecordCall(OutcomeSucceeded, 1.5)
	assert.Equal(t, before+1, testutil.ToFloat64(CallsTotal.WithLabelValues(OutcomeSucceeded)))
}

func TestRecordPoll(t *testing.T) {
	beforeRun := testutil.ToFloat64(PollsTotal.WithLabelValues("run"))
	beforeEmpty := testutil.ToFloat64(PollsTotal.WithLabelValues("empty"))

	RecordPoll(false)
	RecordPoll(true)
	RecordPoll(true)

	assert.Equal(t, beforeRun+1, testutil.ToFloat64(PollsTotal.WithLabelValues("run")))
	assert.Equal(t, beforeEmpty+2, testutil.ToFloat64(PollsTotal.WithLabelValues("empty")))
}
