package store

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// hub fans snapshots out to subscribers without ever blocking the writer.
type hub struct {
	// mu is held while sending so Unsubscribe never closes a channel
	// mid-send.
	mu     sync.Mutex
	subs   []chan Snapshot
	closed bool
	last   uint64 // Seq of the newest published snapshot
	log    zerolog.Logger

	seq atomic.Uint64
}

// next returns the Seq for a snapshot about to be read.
func (h *hub) next() uint64 {
	return h.seq.Add(1)
}

func (h *hub) Subscribe(buffer int) <-chan Snapshot {
	ch := make(chan Snapshot, max(1, buffer))
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs = append(h.subs, ch)
	return ch
}

func (h *hub) Unsubscribe(ch <-chan Snapshot) {
	if ch == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s == ch {
			last := len(h.subs) - 1
			h.subs[i] = h.subs[last]
			h.subs[last] = nil
			h.subs = h.subs[:last]
			close(s)
			return
		}
	}
}

// publish delivers snap unless a newer snapshot already went out.
func (h *hub) publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if snap.Seq != 0 {
		if snap.Seq <= h.last {
			h.log.Debug().Uint64("seq", snap.Seq).Uint64("last", h.last).Msg("stale snapshot not published")
			return
		}
		h.last = snap.Seq
	}
	for _, ch := range h.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full: drop the oldest, then deliver the newest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
			h.log.Debug().Int("queue_cap", cap(ch)).Msg("snapshot dropped (subscriber slow)")
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}
