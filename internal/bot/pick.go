package bot

import (
	"math/rand"
	"sync/atomic"
)

// PickRandom returns one phrase from the pool uniformly at random. Every
// call is independent; there is no "don't repeat the last variant"
// guarantee. Used for per-intent phrase pools.
func PickRandom(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.Intn(len(pool))]
}

// Rotation cycles through a pool with an incrementing index. The fallback
// pool uses this instead of PickRandom so consecutive fallbacks within one
// process never repeat back to back.
type Rotation struct {
	n atomic.Uint64
}

// Next returns the next phrase in round-robin order.
func (r *Rotation) Next(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	i := r.n.Add(1) - 1
	return pool[i%uint64(len(pool))]
}
