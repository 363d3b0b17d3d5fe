// Package events fans change notifications from the database out to
// connected admin clients. Row-level triggers publish each insert, update and
// delete on the watched tables as JSON on a NOTIFY channel; a single listener
// per process forwards them to every subscriber.
package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Event is one change notification ready to be written to a client.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// channelEvents maps NOTIFY channels to the SSE event names clients see.
var channelEvents = map[string]string{
	"job_change":     "job-change",
	"resume_change":  "resume-change",
	"contact_change": "contact-change",
}

// subscriberBuffer bounds each subscriber's queue. Delivery is at-most-once:
// a subscriber that falls behind misses events instead of stalling the feed.
const subscriberBuffer = 16

// Subscription is one consumer's view of the feed. Close it when the client
// disconnects.
type Subscription struct {
	C    chan Event
	feed *Feed
}

// Close detaches the subscription and releases its channel.
func (s *Subscription) Close() {
	s.feed.unsubscribe(s)
}

// Feed owns the database listener and the set of subscribers.
type Feed struct {
	mu       sync.RWMutex
	subs     map[*Subscription]struct{}
	listener *pq.Listener
	done     chan struct{}
	once     sync.Once
}

// NewFeed returns a feed with no event source attached. Subscribers of an
// unstarted feed only ever see heartbeats from their connection handler.
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[*Subscription]struct{}),
		done: make(chan struct{}),
	}
}

// Start dials the database and begins forwarding notifications. An error
// leaves the feed usable but sourceless; callers log it and move on.
func (f *Feed) Start(dsn string) error {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("change feed listener: %v", err)
		}
	})
	for channel := range channelEvents {
		if err := listener.Listen(channel); err != nil {
			_ = listener.Close()
			return err
		}
	}
	f.listener = listener
	go f.run()
	return nil
}

func (f *Feed) run() {
	// Periodic ping so a silently dropped connection reconnects.
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case n := <-f.listener.Notify:
			if n == nil {
				// Reconnect marker; events in between are lost, which is
				// within the at-most-once contract.
				continue
			}
			name, ok := channelEvents[n.Channel]
			if !ok {
				continue
			}
			f.Publish(Event{Name: name, Payload: json.RawMessage(n.Extra)})
		case <-ping.C:
			if err := f.listener.Ping(); err != nil {
				log.Printf("change feed ping: %v", err)
			}
		case <-f.done:
			return
		}
	}
}

// Publish delivers an event to every subscriber, skipping those whose buffer
// is full.
func (f *Feed) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs {
		select {
		case sub.C <- ev:
		default:
		}
	}
}

// Subscribe registers a new consumer.
func (f *Feed) Subscribe() *Subscription {
	sub := &Subscription{
		C:    make(chan Event, subscriberBuffer),
		feed: f,
	}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

func (f *Feed) unsubscribe(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[s]; !ok {
		return
	}
	delete(f.subs, s)
	close(s.C)
}

// SubscriberCount reports how many clients are attached.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Close stops the listener and detaches every subscriber.
func (f *Feed) Close() {
	f.once.Do(func() {
		close(f.done)
		if f.listener != nil {
			_ = f.listener.Close()
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for sub := range f.subs {
			delete(f.subs, sub)
			close(sub.C)
		}
	})
}
