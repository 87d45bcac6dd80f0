package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the platform API used when APIFY_API_BASE_URL is unset
	DefaultBaseURL = "https://api.apify.com"

	// DefaultMaxWait bounds `call` when --wait-secs is not given
	DefaultMaxWait = 999999 * time.Second
)

type Config struct {
	Token   string
	BaseURL string
	Debug   bool
	MaxWait time.Duration
}

// Load reads the configuration from the environment. Variables in a .env
// file in the working directory (or ACTOR_SDK_ENV_FILE) fill in whatever the
// environment leaves unset.
func Load() (*Config, error) {
	envFile := os.Getenv("ACTOR_SDK_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	baseURL := os.Getenv("APIFY_API_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxWait := DefaultMaxWait
	if v := strings.TrimSpace(os.Getenv("ACTOR_SDK_MAX_WAIT")); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("ACTOR_SDK_MAX_WAIT must be a positive number of seconds, got %q", v)
		}
		maxWait = time.Duration(secs) * time.Second
	}

	return &Config{
		Token:   os.Getenv("APIFY_TOKEN"),
		BaseURL: strings.TrimRight(baseURL, "/"),
		Debug:   os.Getenv("ACTOR_SDK_DEBUG") == "true",
		MaxWait: maxWait,
	}, nil
}
