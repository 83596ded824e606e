package actions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kauanbdsi/instagram-botter/backoff"
	"github.com/kauanbdsi/instagram-botter/config"
	"github.com/kauanbdsi/instagram-botter/session"
	"github.com/kauanbdsi/instagram-botter/utils"
)

func testLogger() *utils.Logger {
	return utils.NewLogger(io.Discard, "ERROR")
}

func newCountingServer(t *testing.T, status int) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestSession() *session.Session {
	cfg := &config.Config{
		LogLevel:       "ERROR",
		UserAgent:      "test-agent/1.0",
		DefaultHeaders: map[string]string{},
		HTTPRetries:    0,
		MaxAttempts:    1,
	}
	instant := backoff.NewSleeper(0, func(time.Duration) {})
	return session.New(cfg, testLogger(), nil, session.WithSleeper(instant))
}

func TestForName(t *testing.T) {
	for _, name := range []string{ActionLike, ActionFollow} {
		handler, err := ForName(name)
		require.NoError(t, err)
		assert.NotNil(t, handler)
	}

	_, err := ForName("poke")
	assert.Error(t, err)
}

func TestDryRunMakesNoNetworkCalls(t *testing.T) {
	srv, hits := newCountingServer(t, http.StatusOK)
	sess := newTestSession()

	assert.True(t, LikePost(context.Background(), sess, testLogger(), srv.URL, true))
	assert.True(t, FollowUser(context.Background(), sess, testLogger(), srv.URL, true))
	assert.EqualValues(t, 0, atomic.LoadInt64(hits), "dry run must not touch the network")
}

func TestLikePostSuccess(t *testing.T) {
	srv, hits := newCountingServer(t, http.StatusOK)
	sess := newTestSession()

	assert.True(t, LikePost(context.Background(), sess, testLogger(), srv.URL, false))
	assert.EqualValues(t, 1, atomic.LoadInt64(hits))
}

func TestFollowUserNonOKIsFailure(t *testing.T) {
	srv, _ := newCountingServer(t, http.StatusForbidden)
	sess := newTestSession()

	assert.False(t, FollowUser(context.Background(), sess, testLogger(), srv.URL, false))
}

func TestLikePostNoResponseIsFailure(t *testing.T) {
	srv, _ := newCountingServer(t, http.StatusOK)
	deadURL := srv.URL
	srv.Close()

	sess := newTestSession()

	// With the server gone, every attempt errors out and the executor
	// returns no result; the handler converts that to false.
	assert.False(t, LikePost(context.Background(), sess, testLogger(), deadURL, false))
}
