package service

import (
	"sync"

	"scanmask/internal/modules/timeline/dto"
)

// Hub fans engine events out to subscribers. A slow subscriber loses
// progress events; stop and completion events evict the oldest queued event
// instead of being dropped.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan dto.Event
}

func NewHub() *Hub {
	return &Hub{subs: map[int]chan dto.Event{}}
}

func (h *Hub) Subscribe(buffer int) (<-chan dto.Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan dto.Event, buffer)
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *Hub) Publish(event dto.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
			continue
		default:
		}
		if event.Kind == dto.EventProgress {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}
