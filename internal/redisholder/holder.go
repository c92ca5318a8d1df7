// Package redisholder keeps the active redis client behind an atomic so the
// health loop can swap in a fresh connection without racing callers.
package redisholder

import (
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

type Holder struct {
	v atomic.Value // stores box
}

// box keeps the stored concrete type constant: atomic.Value rejects a store
// whose dynamic type differs from the previous one, and a reconnect may
// downgrade a cluster client to a single-node client.
type box struct {
	c redis.UniversalClient
}

func NewHolder(initial redis.UniversalClient) *Holder {
	h := &Holder{}
	h.v.Store(box{c: initial})
	return h
}

// Get returns the current client; callers must not retain it across calls.
func (h *Holder) Get() redis.UniversalClient {
	b, _ := h.v.Load().(box)
	return b.c
}

func (h *Holder) swap(newc redis.UniversalClient) (old redis.UniversalClient) {
	b, _ := h.v.Load().(box)
	h.v.Store(box{c: newc})
	return b.c
}

func (h *Holder) Close() error {
	if c := h.Get(); c != nil {
		return c.Close()
	}
	return nil
}
