package cli

import (
	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/apiclient"
	"github.com/kubiyabot/actor-sdk/internal/config"
)

// apiRequestsPerSecond keeps parallel calls under the platform's per-token limit
const apiRequestsPerSecond = 30

func newAPIClient(cfg *config.Config) *apiclient.Client {
	return apiclient.New(cfg.Token,
		apiclient.WithBaseURL(cfg.BaseURL),
		apiclient.WithDebug(cfg.Debug),
		apiclient.WithRateLimit(apiRequestsPerSecond, apiRequestsPerSecond),
	)
}

func newActorClient(cfg *config.Config) *actor.Client {
	return actor.New(newAPIClient(cfg),
		actor.WithMaxWait(cfg.MaxWait),
		actor.WithDebug(cfg.Debug),
	)
}
