package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

func TestCreateStatusBadge(t *testing.T) {
	for _, status := range []entities.RunStatus{
		entities.RunStatusReady,
		entities.RunStatusRunning,
		entities.RunStatusSucceeded,
		entities.RunStatusFailed,
		entities.RunStatusTimedOut,
		entities.RunStatusAborted,
		entities.RunStatus("weird"),
	} {
		assert.Contains(t, CreateStatusBadge(status), strings.ToUpper(string(status)))
	}
}

func TestCreateRunSummary(t *testing.T) {
	assert.Empty(t, CreateRunSummary(nil))

	out := CreateRunSummary(&entities.Run{
		ID:                     "run-1",
		ActorID:                "act-1",
		Status:                 entities.RunStatusSucceeded,
		DefaultKeyValueStoreID: "store-1",
	})
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "act-1")
	assert.Contains(t, out, "store-1")
	assert.NotContains(t, out, "Dataset")
}
