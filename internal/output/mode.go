package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Mode represents the output style
type Mode int

const (
	// ModeInteractive shows spinners and styled summaries
	ModeInteractive Mode = iota
	// ModePlain prints one line per event with no animation
	ModePlain
)

var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"ACTOR_SDK_CI_MODE",
	"APIFY_IS_AT_HOME",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"JENKINS_URL",
	"BUILDKITE",
	"TRAVIS",
}

// IsCI detects if the CLI is running non-interactively: in a CI system, on
// the actor platform, or with stderr redirected
func IsCI() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	fd := os.Stderr.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// DetectMode picks the output mode for the current process
func DetectMode() Mode {
	if IsCI() {
		return ModePlain
	}
	return ModeInteractive
}
