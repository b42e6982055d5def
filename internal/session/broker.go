package session

import (
	"context"
	"sync"
)

type subscriber struct {
	origin string
	ch     chan Change
}

// Broker fans changes out to the watchers of a session.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{
		subs: map[string]map[*subscriber]struct{}{},
	}
}

func (b *Broker) Subscribe(ctx context.Context, sessionID string, origin string) (<-chan Change, error) {
	sub := &subscriber{
		origin: origin,
		ch:     make(chan Change, 8),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	subs, exists := b.subs[sessionID]
	if !exists {
		subs = map[*subscriber]struct{}{}
		b.subs[sessionID] = subs
	}

	subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(sessionID, sub)
	}()

	return sub.ch, nil
}

func (b *Broker) unsubscribe(sessionID string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, exists := b.subs[sessionID]
	if !exists {
		return
	}

	if _, exists := subs[sub]; !exists {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.subs, sessionID)
	}

	close(sub.ch)
}

// Publish notifies every watcher of the session but the ones
// sharing the change origin. Slow watchers miss notifications
// instead of blocking the publisher.
func (b *Broker) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[change.SessionID] {
		if sub.origin == change.Origin {
			continue
		}

		select {
		case sub.ch <- change:
		default:
		}
	}
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for sessionID, subs := range b.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.subs, sessionID)
	}
}
