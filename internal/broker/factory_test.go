package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
)

func TestNew_Paper(t *testing.T) {
	brk, err := New(Settings{Name: "paper", PaperBalance: 5000})

	require.NoError(t, err)
	assert.Equal(t, "paper", brk.Name())
}

func TestNew_BybitMissingCredentials(t *testing.T) {
	_, err := New(Settings{Name: "bybit"})

	require.Error(t, err)
	var agentErr *errors.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, errors.ErrorCategoryCredentials, agentErr.Category)
	assert.True(t, agentErr.IsFatal())
}

func TestNew_UnsupportedBroker(t *testing.T) {
	_, err := New(Settings{Name: "mt5"})

	require.Error(t, err)
	var agentErr *errors.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, errors.ErrorCategoryConfiguration, agentErr.Category)
	assert.Contains(t, err.Error(), "unsupported broker")
}
