package events

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishFansOut(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	first := feed.Subscribe()
	second := feed.Subscribe()
	assert.Equal(t, 2, feed.SubscriberCount())

	ev := Event{Name: "job-change", Payload: json.RawMessage(`{"operation":"INSERT"}`)}
	feed.Publish(ev)

	for _, sub := range []*Subscription{first, second} {
		select {
		case got := <-sub.C:
			assert.Equal(t, ev.Name, got.Name)
			assert.JSONEq(t, string(ev.Payload), string(got.Payload))
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	slow := feed.Subscribe()

	// Overfill the subscriber's buffer without draining it. Publish must
	// return promptly every time.
	published := subscriberBuffer + 5
	done := make(chan struct{})
	go func() {
		for i := 0; i < published; i++ {
			feed.Publish(Event{
				Name:    "contact-change",
				Payload: json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i)),
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	assert.Equal(t, subscriberBuffer, len(slow.C), "subscriber keeps a full buffer, the rest drop")

	// What did arrive is the oldest prefix, in order.
	first := <-slow.C
	assert.JSONEq(t, `{"seq":0}`, string(first.Payload))
}

func TestSubscriptionClose(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	sub := feed.Subscribe()
	sub.Close()
	assert.Equal(t, 0, feed.SubscriberCount())

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Closing twice is harmless.
	sub.Close()

	// Publishing to a feed with no subscribers is a no-op.
	feed.Publish(Event{Name: "job-change", Payload: json.RawMessage(`{}`)})
}

func TestFeedCloseDetachesSubscribers(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe()

	feed.Close()
	feed.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, feed.SubscriberCount())
}
