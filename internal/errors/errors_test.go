package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/apiclient"
	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantCode int
	}{
		{
			name:     "validation",
			err:      &actor.ValidationError{Field: "actorId", Reason: "must not be empty"},
			wantType: ErrorTypeValidation,
			wantCode: ExitCodeValidation,
		},
		{
			name:     "failed run",
			err:      &actor.CallError{Run: &entities.Run{ID: "r", ActorID: "a", Status: entities.RunStatusAborted}},
			wantType: ErrorTypeRun,
			wantCode: ExitCodeRun,
		},
		{
			name:     "auth",
			err:      &apiclient.APIError{StatusCode: 401, Message: "bad token"},
			wantType: ErrorTypeAuth,
			wantCode: ExitCodeAuth,
		},
		{
			name:     "api",
			err:      fmt.Errorf("starting run: %w", &apiclient.APIError{StatusCode: 500}),
			wantType: ErrorTypeAPI,
			wantCode: ExitCodeAPI,
		},
		{
			name:     "network",
			err:      &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			wantType: ErrorTypeNetwork,
			wantCode: ExitCodeNetwork,
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantType: ErrorTypeNetwork,
			wantCode: ExitCodeNetwork,
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			wantType: ErrorTypeRuntime,
			wantCode: ExitCodeRuntime,
		},
		{
			name:     "already classified",
			err:      ConfigError(errors.New("bad config")),
			wantType: ErrorTypeConfig,
			wantCode: ExitCodeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cliErr := FromError(tt.err)
			assert.Equal(t, tt.wantType, cliErr.Type)
			assert.Equal(t, tt.wantCode, ExitCodeFromError(cliErr))
			assert.ErrorIs(t, cliErr, tt.err)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitCodeSuccess, ExitCodeFromError(nil))
	assert.Equal(t, ExitCodeRuntime, ExitCodeFromError(errors.New("x")))
	assert.Equal(t, ExitCodeRun, ExitCodeFromError(fmt.Errorf("wrapped: %w", RunError(errors.New("x")))))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))
	assert.Equal(t, "✗ Run Failed: boom", FormatError(RunError(errors.New("boom"))))
	assert.Equal(t, "✗ Validation Error: bad\n\nsee help", FormatError(ValidationError(errors.New("bad"), "see help")))
}
