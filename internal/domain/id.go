package domain

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NextID returns a strictly increasing identifier derived from the wall
// clock in milliseconds. Two calls inside the same millisecond never
// collide: the later one is bumped past the earlier.
func NextID() int64 {
	for {
		last := lastID.Load()
		id := time.Now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		if lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}
