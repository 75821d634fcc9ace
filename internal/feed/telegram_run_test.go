package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/signal-trade-agent/internal/errors"
	"github.com/ducminhle1904/signal-trade-agent/internal/logger"
)

func newFeedLogger(t *testing.T) *logger.Logger {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	log, err := logger.NewLogger("test")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return log
}

func newTestSource(t *testing.T, serverURL string) *TelegramSource {
	t.Helper()
	return &TelegramSource{
		client:       resty.New().SetBaseURL(serverURL),
		pollInterval: time.Millisecond,
		log:          newFeedLogger(t),
	}
}

func TestRun_StopsOnUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	defer server.Close()

	source := newTestSource(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := source.Run(ctx, func(ctx context.Context, msg Message) {
		t.Fatal("no message expected")
	})

	require.Error(t, err)
	var agentErr *errors.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, errors.ErrorCategoryCredentials, agentErr.Category)
	assert.False(t, agentErr.IsRetryable())
}

func TestRun_DeliversChannelPostAndAdvancesOffset(t *testing.T) {
	var mu sync.Mutex
	var offsets []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		offsets = append(offsets, r.URL.Query().Get("offset"))
		first := len(offsets) == 1
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if first {
			fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"channel_post":{"message_id":11,"date":1730000000,"text":"BUYING GOLD @ MARKET ENTRY 3989.75 SL 3987.2","chat":{"id":-1001234567890,"title":"Signals"}}}]}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	}))
	defer server.Close()

	source := newTestSource(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	received := make(chan Message, 1)
	err := source.Run(ctx, func(ctx context.Context, msg Message) {
		received <- msg
		cancel()
	})

	assert.ErrorIs(t, err, context.Canceled)

	msg := <-received
	assert.Equal(t, int64(11), msg.ID)
	assert.Equal(t, int64(-1001234567890), msg.ChatID)
	assert.Equal(t, "Signals", msg.ChatTitle)
	assert.Contains(t, msg.Text, "BUYING GOLD")

	assert.Equal(t, int64(8), source.offset)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, offsets)
	assert.Equal(t, "0", offsets[0])
}
