// Package livefeed fans feedback change events out to connected
// dashboard clients. Every subscriber sees every event; filtering by
// query happens client-side.
package livefeed

import (
	"log/slog"
	"sync"

	"github.com/spacesedan/brandpulse/internal/metrics"
	"github.com/spacesedan/brandpulse/internal/models"
)

const subscriberBufferSize = 16

type Hub struct {
	mu   sync.Mutex
	subs map[chan models.FeedbackRecord]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan models.FeedbackRecord]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its event channel
// plus a cancel func. Cancel is safe to call more than once.
func (h *Hub) Subscribe() (<-chan models.FeedbackRecord, func()) {
	ch := make(chan models.FeedbackRecord, subscriberBufferSize)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	metrics.LiveFeedSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
			metrics.LiveFeedSubscribers.Dec()
		})
	}

	return ch, cancel
}

// Broadcast delivers one record to every subscriber. A subscriber that
// cannot keep up has the event dropped rather than blocking the feed;
// the dashboard recovers by re-querying the store.
func (h *Hub) Broadcast(record models.FeedbackRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- record:
		default:
			slog.Warn("[LiveFeed] Subscriber too slow, dropping event",
				slog.String("record_id", record.ID))
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
