package surface

import (
	"sync/atomic"
)

// World is a set of colliders answering nearest-hit queries.
// A World must not be modified while it is being queried.
type World struct {
	colliders []Query
}

// NewWorld creates a world from the given colliders.
func NewWorld(colliders ...Query) *World {
	return &World{colliders: colliders}
}

// Add appends a collider.
func (w *World) Add(c Query) {
	w.colliders = append(w.colliders, c)
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.colliders)
}

// Raycast returns the nearest hit over all colliders.
func (w *World) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	ray.Direction = ray.Direction.Normalize()

	var best Hit
	found := false
	for _, c := range w.colliders {
		hit, ok := c.Raycast(ray, maxDistance)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// Counter wraps a Query and counts the casts made through it.
type Counter struct {
	Query Query
	casts atomic.Int64
}

// NewCounter wraps q.
func NewCounter(q Query) *Counter {
	return &Counter{Query: q}
}

// Raycast forwards to the wrapped query.
func (c *Counter) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	c.casts.Add(1)
	return c.Query.Raycast(ray, maxDistance)
}

// Count returns the number of casts since the last Reset.
func (c *Counter) Count() int64 {
	return c.casts.Load()
}

// Reset zeroes the counter and returns the previous count.
func (c *Counter) Reset() int64 {
	return c.casts.Swap(0)
}
