package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeError_Timeout(t *testing.T) {
	err := CategorizeError(fmt.Errorf("context deadline exceeded"), "feed", "getUpdates")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryTimeout, err.Category)
	assert.True(t, err.IsRetryable())
	assert.False(t, err.IsFatal())
}

func TestCategorizeError_Network(t *testing.T) {
	err := CategorizeError(fmt.Errorf("dial tcp 1.2.3.4:443: connection refused"), "feed", "getUpdates")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryNetwork, err.Category)
	assert.True(t, err.IsRetryable())
}

func TestCategorizeError_Credentials(t *testing.T) {
	err := CategorizeError(fmt.Errorf("telegram API error: Unauthorized"), "feed", "getUpdates")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryCredentials, err.Category)
	assert.False(t, err.IsRetryable())
	assert.True(t, err.IsFatal())
}

func TestCategorizeError_RateLimit(t *testing.T) {
	err := CategorizeError(fmt.Errorf("openai API error: rate limit exceeded"), "extractor", "extract")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryRateLimit, err.Category)
	assert.True(t, err.IsRetryable())
}

func TestCategorizeError_InsufficientBalance(t *testing.T) {
	err := CategorizeError(fmt.Errorf("insufficient balance for order"), "router", "entry")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryOrder, err.Category)
	assert.False(t, err.IsRetryable())
}

func TestCategorizeError_UnknownDefaultsToTemporary(t *testing.T) {
	err := CategorizeError(fmt.Errorf("something unexpected happened"), "router", "entry")

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryTemporary, err.Category)
	assert.True(t, err.IsRetryable())
}

func TestCategorizeError_PassesThroughAgentError(t *testing.T) {
	original := NewCredentialsError("broker", "create", "missing API key")

	categorized := CategorizeError(original, "other", "op")

	assert.Same(t, original, categorized)
}

func TestCategorizeError_Nil(t *testing.T) {
	assert.Nil(t, CategorizeError(nil, "feed", "getUpdates"))
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryNetwork, "feed", "getUpdates"))
}

func TestAgentError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("connection reset")
	err := NewNetworkError("notifications", "sendMessage", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "NETWORK:notifications")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestConstructorCategories(t *testing.T) {
	assert.Equal(t, ErrorCategoryConfiguration, NewConfigurationError("config", "validate", "bad value").Category)
	assert.Equal(t, ErrorCategoryCredentials, NewCredentialsError("broker", "create", "missing key").Category)
	assert.Equal(t, ErrorCategoryExtraction, NewExtractionError("agent", "extract", fmt.Errorf("bad JSON")).Category)

	assert.True(t, NewConfigurationError("config", "validate", "bad value").IsFatal())
	assert.True(t, NewCredentialsError("broker", "create", "missing key").IsFatal())
	assert.False(t, NewExtractionError("agent", "extract", fmt.Errorf("bad JSON")).IsFatal())
}
