package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GROUPS_FILEPATH", "groups.yaml")
	t.Setenv("BADGER_FILEPATH", "/tmp/agent")
	t.Setenv("NUMBER_OF_WORKERS", "4")
	t.Setenv("BUFFER_SIZE", "64")
	t.Setenv("AGENT_FIRST_NAME", "Corrade")
	t.Setenv("AGENT_LAST_NAME", "Resident")
}

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(4, config.NumberOfWorkers)
	req.Equal(100, config.CallbackQueueLength)
	req.Equal(5*time.Second, config.DeliveryTimeout)
	req.Equal(time.Duration(0), config.NotificationThrottle)
	req.True(config.EnableRLV)
	req.False(config.RLVRemoveOnRevoke)
	req.False(config.HTTPEnabled)
	req.Equal("127.0.0.1:8080", config.Address())
	req.Equal("Corrade Resident", config.AgentName())
}

func TestLoadConfig_Overrides(t *testing.T) {
	req := require.New(t)
	setRequired(t)
	t.Setenv("HTTP_ENABLED", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("CALLBACK_THROTTLE", "250ms")
	t.Setenv("RLV_REMOVE_ON_REVOKE", "true")

	config, err := LoadConfig()

	req.NoError(err)
	req.True(config.HTTPEnabled)
	req.Equal(9090, config.Port)
	req.Equal(250*time.Millisecond, config.CallbackThrottle)
	req.True(config.RLVRemoveOnRevoke)
}

func TestLoadConfig_Invalid(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	// Given a worker pool without workers
	t.Setenv("NUMBER_OF_WORKERS", "0")

	// Then the configuration is refused
	_, err := LoadConfig()
	req.Error(err)

	t.Setenv("NUMBER_OF_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "LOUD")
	_, err = LoadConfig()
	req.Error(err)
}
