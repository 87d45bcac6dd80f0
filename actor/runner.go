package actor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/kubiyabot/actor-sdk/internal/sentry"
	"github.com/kubiyabot/actor-sdk/internal/version"
)

// Runner runs an actor's user function and exits with its status.
// Main uses a Runner wired to the real process; tests build their own.
type Runner struct {
	Exit   func(code int)
	Fs     afero.Fs
	Lookup LookupFunc
	Setenv func(key, value string) error
	Getwd  func() (string, error)
	Stderr io.Writer
}

// DefaultRunner returns a Runner bound to the current process
func DefaultRunner() *Runner {
	return &Runner{
		Exit:   os.Exit,
		Fs:     afero.NewOsFs(),
		Lookup: os.LookupEnv,
		Setenv: os.Setenv,
		Getwd:  os.Getwd,
		Stderr: os.Stderr,
	}
}

// Main runs fn and exits the process: 0 when fn returns nil, 91 when it
// returns an error or panics. fn's context is cancelled on SIGINT or SIGTERM.
//
// When neither APIFY_LOCAL_STORAGE_DIR nor APIFY_TOKEN is set, Main points
// APIFY_LOCAL_STORAGE_DIR at ./apify_storage so local storage works out of
// the box.
func Main(fn func(ctx context.Context) error) {
	DefaultRunner().Run(fn)
}

// Run executes fn and passes its exit code to r.Exit
func (r *Runner) Run(fn func(ctx context.Context) error) {
	if fn == nil {
		panic("actor: Main requires a non-nil user function")
	}

	if err := sentry.Initialize(version.Version); err != nil {
		fmt.Fprintf(r.Stderr, "WARNING: %v\n", err)
	}

	code := r.run(fn)
	sentry.Flush(2 * time.Second)
	r.Exit(code)
}

func (r *Runner) run(fn func(ctx context.Context) error) (code int) {
	if err := r.ensureLocalStorageDir(); err != nil {
		fmt.Fprintf(r.Stderr, "WARNING: failed to prepare local storage: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tags := r.sentryTags()

	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(r.Stderr, "User function panicked: %v\n", p)
			sentry.CapturePanic(ctx, p, tags)
			code = ExitCodeUserFuncFailed
		}
	}()

	if err := fn(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "User function failed: %v\n", err)
		sentry.CaptureError(err, tags, nil)
		return ExitCodeUserFuncFailed
	}
	return 0
}

func (r *Runner) ensureLocalStorageDir() error {
	if v, ok := r.Lookup(EnvLocalStorageDir); ok && v != "" {
		return nil
	}
	if v, ok := r.Lookup(EnvToken); ok && v != "" {
		return nil
	}

	cwd, err := r.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	dir := filepath.Join(cwd, LocalStorageDirName)
	if err := r.Setenv(EnvLocalStorageDir, dir); err != nil {
		return fmt.Errorf("failed to set %s: %w", EnvLocalStorageDir, err)
	}
	return r.Fs.MkdirAll(dir, 0o755)
}

func (r *Runner) sentryTags() map[string]string {
	tags := map[string]string{}
	if v, ok := r.Lookup(EnvActorID); ok {
		tags["actor_id"] = v
	}
	if v, ok := r.Lookup(EnvActorRunID); ok {
		tags["actor_run_id"] = v
	}
	return tags
}
