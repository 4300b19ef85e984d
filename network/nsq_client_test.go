package network_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.gbv.de/nationallizenzen/nl-export/network"
)

func TestNSQNotifierUnreachable(t *testing.T) {
	// Nothing listens on port 1.
	notifier, err := network.NewNSQNotifier("127.0.0.1:1", "nl_export", testLogger)
	require.Nil(t, err)
	defer notifier.Stop()
	assert.Equal(t, "nl_export", notifier.Topic)

	err = notifier.Publish(&network.ExportEvent{
		Identifier: "springer",
		Format:     "csv",
		FinishedAt: time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "springer")
}
