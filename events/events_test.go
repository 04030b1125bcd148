package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickersim/tickersim/models"
)

func recvEvent(t *testing.T, ch <-chan *PostEvent) *PostEvent {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	em := NewEventManager()
	defer em.Shutdown()

	ch1, cleanup1, err := em.Subscribe("c1", nil)
	require.NoError(t, err)
	defer cleanup1()

	ch2, cleanup2, err := em.Subscribe("c2", nil)
	require.NoError(t, err)
	defer cleanup2()

	require.NoError(t, em.Publish(&models.Post{ID: "tweet_1"}))

	assert.Equal(t, "tweet_1", recvEvent(t, ch1).Post.ID)
	assert.Equal(t, "tweet_1", recvEvent(t, ch2).Post.ID)
}

func TestPerSubscriberOrdering(t *testing.T) {
	em := NewEventManager()
	defer em.Shutdown()

	ch, cleanup, err := em.Subscribe("c1", nil)
	require.NoError(t, err)
	defer cleanup()

	for _, id := range []string{"tweet_1", "tweet_2", "tweet_3"} {
		require.NoError(t, em.Publish(&models.Post{ID: id}))
	}

	for _, want := range []string{"tweet_1", "tweet_2", "tweet_3"} {
		assert.Equal(t, want, recvEvent(t, ch).Post.ID)
	}
}

func TestUnsubscribedConsumerStopsReceiving(t *testing.T) {
	em := NewEventManager()
	defer em.Shutdown()

	ch, cleanup, err := em.Subscribe("c1", nil)
	require.NoError(t, err)

	require.NoError(t, em.Publish(&models.Post{ID: "tweet_1"}))
	recvEvent(t, ch)

	cleanup()
	require.NoError(t, em.Publish(&models.Post{ID: "tweet_2"}))

	select {
	case evt := <-ch:
		t.Fatalf("received event after unsubscribe: %v", evt.Post.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriberFilter(t *testing.T) {
	em := NewEventManager()
	defer em.Shutdown()

	botOnly := func(evt *PostEvent) bool { return evt.Post.IsBot }
	ch, cleanup, err := em.Subscribe("c1", botOnly)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, em.Publish(&models.Post{ID: "tweet_1", IsBot: false}))
	require.NoError(t, em.Publish(&models.Post{ID: "tweet_2", IsBot: true}))

	assert.Equal(t, "tweet_2", recvEvent(t, ch).Post.ID)
}

func TestPublishAfterShutdownFails(t *testing.T) {
	em := NewEventManager()
	em.Shutdown()

	assert.Error(t, em.Publish(&models.Post{ID: "tweet_1"}))

	_, _, err := em.Subscribe("c1", nil)
	assert.Error(t, err)
}
