// Package events fans newly created posts out to connected viewers. Delivery
// is best-effort: a slow subscriber's buffer overflowing means dropped events
// for that subscriber only, never backpressure on the append path.
package events

import (
	"fmt"
	"log/slog"

	"github.com/tickersim/tickersim/models"
)

// PostEvent is the single event type on the stream: a post was appended.
type PostEvent struct {
	Post *models.Post `json:"post"`
}

// EventManager owns the subscriber set from a single goroutine; all
// registration and fan-out funnels through the ops channel, so no locking is
// needed around the subscriber list.
type EventManager struct {
	subs []*Subscriber

	ops        chan *operation
	closed     chan struct{}
	done       chan struct{}
	bufferSize int

	log *slog.Logger
}

func NewEventManager() *EventManager {
	em := &EventManager{
		ops:        make(chan *operation),
		closed:     make(chan struct{}),
		done:       make(chan struct{}),
		bufferSize: 256,
		log:        slog.Default().With("system", "events"),
	}
	go em.run()
	return em
}

const (
	opSubscribe = iota
	opUnsubscribe
	opSend
)

type operation struct {
	op  int
	sub *Subscriber
	evt *PostEvent
}

type Subscriber struct {
	outgoing chan *PostEvent

	filter func(*PostEvent) bool

	ident string
}

func (em *EventManager) run() {
	for {
		select {
		case op := <-em.ops:
			em.handle(op)
		case <-em.closed:
			for _, s := range em.subs {
				close(s.outgoing)
			}
			em.subs = nil
			close(em.done)
			return
		}
	}
}

func (em *EventManager) handle(op *operation) {
	switch op.op {
	case opSubscribe:
		em.subs = append(em.subs, op.sub)
		subscribersActive.Inc()
	case opUnsubscribe:
		for i, s := range em.subs {
			if s == op.sub {
				em.subs[i] = em.subs[len(em.subs)-1]
				em.subs = em.subs[:len(em.subs)-1]
				subscribersActive.Dec()
				break
			}
		}
	case opSend:
		eventsPublished.Inc()
		for _, s := range em.subs {
			if s.filter != nil && !s.filter(op.evt) {
				continue
			}
			select {
			case s.outgoing <- op.evt:
			default:
				eventsDropped.Inc()
				em.log.Warn("subscriber buffer full, dropping event", "ident", s.ident)
			}
		}
	}
}

// Publish enqueues a new-post event for fan-out to every current subscriber.
// Events reach each subscriber in publish order.
func (em *EventManager) Publish(post *models.Post) error {
	select {
	case em.ops <- &operation{op: opSend, evt: &PostEvent{Post: post}}:
		return nil
	case <-em.closed:
		return fmt.Errorf("event manager shut down")
	}
}

// Subscribe registers a new consumer. The returned channel is buffered;
// callers that fall behind miss events rather than blocking publishers.
// The cleanup func must be called when the consumer disconnects.
func (em *EventManager) Subscribe(ident string, filter func(*PostEvent) bool) (<-chan *PostEvent, func(), error) {
	sub := &Subscriber{
		outgoing: make(chan *PostEvent, em.bufferSize),
		filter:   filter,
		ident:    ident,
	}

	select {
	case em.ops <- &operation{op: opSubscribe, sub: sub}:
	case <-em.closed:
		return nil, nil, fmt.Errorf("event manager shut down")
	}

	cleanup := func() {
		select {
		case em.ops <- &operation{op: opUnsubscribe, sub: sub}:
		case <-em.closed:
		}
	}

	return sub.outgoing, cleanup, nil
}

// Shutdown stops the fan-out loop and closes all subscriber channels.
// Publish and Subscribe fail afterwards.
func (em *EventManager) Shutdown() {
	close(em.closed)
	<-em.done
}
