package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeStreamsNewTweets(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscribe"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// wait until the handler has registered the consumer before posting
	require.Eventually(t, func() bool {
		return len(srv.ListConsumers()) == 1
	}, time.Second, 10*time.Millisecond)

	rec, created := doJSON(t, srv, http.MethodPost, "/api/tweets", map[string]any{
		"content": "realtime hello",
		"userId":  "u1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt wireEvent
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "newTweet", evt.Event)
	require.NotNil(t, evt.Payload)
	assert.Equal(t, created["id"], evt.Payload.Post.ID)
	assert.Equal(t, "realtime hello", evt.Payload.Post.Content)
}

func TestDisconnectedConsumerIsCleanedUp(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscribe"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool {
		return len(srv.ListConsumers()) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return len(srv.ListConsumers()) == 0
	}, time.Second, 10*time.Millisecond)
}
