package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 100 * time.Millisecond

// SignalRepository is an in-process pub/sub hub keyed by topic. Topics
// are user IDs for live notification delivery.
type SignalRepository interface {
	Subscribe(topic string) (<-chan *Notification, func(), error)
	Publish(topic string, notification *Notification) error
}

type subscriber struct {
	id string
	ch chan *Notification
}

type signalRepository struct {
	mu        sync.Mutex
	topics    map[string][]subscriber
	topicSize int
}

// NewSignalRepository creates a hub whose per-subscriber channels buffer
// topicSize notifications.
func NewSignalRepository(topicSize int) SignalRepository {
	return &signalRepository{
		topics:    make(map[string][]subscriber),
		topicSize: topicSize,
	}
}

// Subscribe registers a listener on the topic. The returned cancel func
// removes the listener and closes its channel; it must be called exactly
// once.
func (r *signalRepository) Subscribe(topic string) (<-chan *Notification, func(), error) {
	sub := subscriber{
		id: uuid.New().String(),
		ch: make(chan *Notification, r.topicSize),
	}

	r.mu.Lock()
	r.topics[topic] = append(r.topics[topic], sub)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		subs := r.topics[topic]
		for i, s := range subs {
			if s.id == sub.id {
				r.topics[topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(r.topics[topic]) == 0 {
			delete(r.topics, topic)
		}
		close(sub.ch)
	}

	return sub.ch, cancel, nil
}

// Publish fans the notification out to every listener without blocking
// the caller. Slow listeners are skipped after a short timeout.
func (r *signalRepository) Publish(topic string, notification *Notification) error {
	r.mu.Lock()
	subs := make([]subscriber, len(r.topics[topic]))
	copy(subs, r.topics[topic])
	r.mu.Unlock()

	if len(subs) == 0 {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"topic":           topic,
		"subscribers":     len(subs),
	}).Debug("Publishing notification")

	for _, s := range subs {
		go func(ch chan *Notification) {
			select {
			case ch <- notification:
			case <-time.After(publishTimeout):
				logrus.WithFields(logrus.Fields{
					"notification_id": notification.ID,
					"topic":           topic,
				}).Warn("Dropped notification, subscriber channel blocked")
			}
		}(s.ch)
	}
	return nil
}
