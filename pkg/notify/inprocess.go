package notify

import (
	"context"
	"sync"
)

// Listener receives change events. Listeners run on the notifier's dispatch
// goroutine, so they should hand heavy work off rather than block it.
type Listener func(Event)

// InProcessNotifier fans events out to registered listeners within the same
// process. Dispatch happens off the mutation path on a single goroutine, so
// events for one notifier are delivered in order.
type InProcessNotifier struct {
	mu        sync.RWMutex
	listeners []Listener
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewInProcessNotifier creates a notifier and starts its dispatch loop.
func NewInProcessNotifier() *InProcessNotifier {
	n := &InProcessNotifier{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	go n.dispatch()
	return n
}

// Subscribe registers a listener for all future events.
func (n *InProcessNotifier) Subscribe(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// DataChanged queues the event for dispatch. If the buffer is full the event
// is dropped: a missed refresh signal is cheaper than a blocked mutation.
func (n *InProcessNotifier) DataChanged(_ context.Context, event Event) {
	select {
	case n.events <- event:
	default:
	}
}

func (n *InProcessNotifier) dispatch() {
	for {
		select {
		case event := <-n.events:
			n.mu.RLock()
			listeners := make([]Listener, len(n.listeners))
			copy(listeners, n.listeners)
			n.mu.RUnlock()
			for _, l := range listeners {
				l(event)
			}
		case <-n.done:
			return
		}
	}
}

// Close stops the dispatch loop. Queued but undelivered events are dropped.
func (n *InProcessNotifier) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)
	})
	return nil
}
