package errors

import (
	"context"
	"errors"
	"net"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/apiclient"
)

// FromError maps an SDK error onto the CLI error categories
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	if errors.Is(err, actor.ErrInvalidArgument) {
		return ValidationError(err, "Run with --help for usage.")
	}
	if errors.Is(err, actor.ErrRunFailed) {
		return RunError(err)
	}
	if apiclient.IsAuthError(err) {
		return AuthErrorWithContext(err, "Check APIFY_TOKEN or pass --token.")
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return APIError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return NetworkError(err)
	}

	return RuntimeError(err)
}
