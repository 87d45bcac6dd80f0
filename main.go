package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/kubiyabot/actor-sdk/internal/cli"
	"github.com/kubiyabot/actor-sdk/internal/config"
	clierrors "github.com/kubiyabot/actor-sdk/internal/errors"
	"github.com/kubiyabot/actor-sdk/internal/sentry"
	"github.com/kubiyabot/actor-sdk/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := sentry.Initialize(version.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer sentry.Flush(2 * time.Second)

	cfg, err := config.Load()
	if err != nil {
		return fail(clierrors.ConfigError(err))
	}

	if err := cli.Execute(cfg); err != nil {
		return fail(clierrors.FromError(err))
	}
	return clierrors.ExitCodeSuccess
}

func fail(err *clierrors.CLIError) int {
	if err.Type != clierrors.ErrorTypeValidation {
		sentry.CaptureError(err.Err, map[string]string{"component": "cli"}, nil)
	}
	fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(clierrors.FormatError(err)))
	return clierrors.ExitCodeFromError(err)
}
