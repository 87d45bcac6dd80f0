package actor

import "time"

// Environment variables set by the platform for a running actor
const (
	EnvActorID                = "APIFY_ACT_ID"
	EnvActorRunID             = "APIFY_ACT_RUN_ID"
	EnvUserID                 = "APIFY_USER_ID"
	EnvToken                  = "APIFY_TOKEN"
	EnvStartedAt              = "APIFY_STARTED_AT"
	EnvTimeoutAt              = "APIFY_TIMEOUT_AT"
	EnvDefaultKeyValueStoreID = "APIFY_DEFAULT_KEY_VALUE_STORE_ID"
	EnvDefaultDatasetID       = "APIFY_DEFAULT_DATASET_ID"
	EnvMemoryMbytes           = "APIFY_MEMORY_MBYTES"
	EnvLocalStorageDir        = "APIFY_LOCAL_STORAGE_DIR"
	EnvProxyPassword          = "APIFY_PROXY_PASSWORD"
	EnvProxyHostname          = "APIFY_PROXY_HOSTNAME"
	EnvProxyPort              = "APIFY_PROXY_PORT"
)

// Fallbacks used when the actor runs outside the platform
const (
	LocalProxyHostname  = "proxy.apify.com"
	LocalProxyPort      = 8000
	LocalStorageDirName = "apify_storage"
)

const (
	// DefaultMaxWait bounds Call when CallOptions.WaitSecs is nil
	DefaultMaxWait = 999999 * time.Second

	// ExitCodeUserFuncFailed is the exit code Main uses when the user function fails
	ExitCodeUserFuncFailed = 91

	jsonContentType = "application/json; charset=utf-8"
	charsetSuffix   = "; charset=utf-8"
)
