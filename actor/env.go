package actor

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

// LookupFunc reads a configuration value, like os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Env is a snapshot of the platform environment of a running actor.
// A field is nil when its variable is unset, empty or malformed.
type Env struct {
	ActorID                *string    `json:"actId" yaml:"actId"`
	ActorRunID             *string    `json:"actRunId" yaml:"actRunId"`
	UserID                 *string    `json:"userId" yaml:"userId"`
	Token                  *string    `json:"token" yaml:"token"`
	StartedAt              *time.Time `json:"startedAt" yaml:"startedAt"`
	TimeoutAt              *time.Time `json:"timeoutAt" yaml:"timeoutAt"`
	DefaultKeyValueStoreID *string    `json:"defaultKeyValueStoreId" yaml:"defaultKeyValueStoreId"`
	DefaultDatasetID       *string    `json:"defaultDatasetId" yaml:"defaultDatasetId"`
	MemoryMbytes           *int       `json:"memoryMbytes" yaml:"memoryMbytes"`
}

// GetEnv reads the actor environment from the process environment
func GetEnv() Env {
	return GetEnvFrom(os.LookupEnv)
}

// GetEnvFrom reads the actor environment through lookup
func GetEnvFrom(lookup LookupFunc) Env {
	return Env{
		ActorID:                envString(lookup, EnvActorID),
		ActorRunID:             envString(lookup, EnvActorRunID),
		UserID:                 envString(lookup, EnvUserID),
		Token:                  envString(lookup, EnvToken),
		StartedAt:              envTime(lookup, EnvStartedAt),
		TimeoutAt:              envTime(lookup, EnvTimeoutAt),
		DefaultKeyValueStoreID: envString(lookup, EnvDefaultKeyValueStoreID),
		DefaultDatasetID:       envString(lookup, EnvDefaultDatasetID),
		MemoryMbytes:           envInt(lookup, EnvMemoryMbytes),
	}
}

func envString(lookup LookupFunc, key string) *string {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func envTime(lookup LookupFunc, key string) *time.Time {
	v := envString(lookup, key)
	if v == nil {
		return nil
	}
	t, err := entities.ParseTimestamp(strings.TrimSpace(*v))
	if err != nil {
		return nil
	}
	return &t
}

func envInt(lookup LookupFunc, key string) *int {
	v := envString(lookup, key)
	if v == nil {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return nil
	}
	return &i
}

// MapLookup adapts a map to a LookupFunc
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
