package store

import (
	"fmt"
	"log/slog"
	"sync"
)

// Subscriber receives every snapshot published by the store. A returned
// error or a panic is reported to the store's error handler and never
// prevents later subscribers from being notified. Snapshots arrive in
// version order; a subscriber must not mutate the store before returning.
type Subscriber func(*Snapshot) error

type subscription struct {
	id uint64
	fn Subscriber
}

type subscriberList struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

func (l *subscriberList) add(fn Subscriber) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *subscriberList) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *subscriberList) list() []subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]subscription(nil), l.subs...)
}

func (l *subscriberList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// publish calls every subscriber in registration order.
func (l *subscriberList) publish(snap *Snapshot, onError func(error)) {
	for _, s := range l.list() {
		if err := deliver(s, snap); err != nil {
			onError(err)
		}
	}
}

func deliver(s subscription, snap *Snapshot) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("subscriber %d panicked: %v", s.id, p)
		}
	}()
	if err := s.fn(snap); err != nil {
		return fmt.Errorf("subscriber %d: %w", s.id, err)
	}
	return nil
}

func logSubscriberError(err error) {
	slog.Default().Warn("store_subscriber_failed", "error", err.Error())
}
