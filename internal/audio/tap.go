package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and keeps the most recent samples in a ring buffer
// so the renderer can show what was just played.
type Tap struct {
	Source beep.Streamer

	mu   sync.RWMutex
	ring [][2]float64
	next int
}

// NewTap records the last size samples of src.
func NewTap(src beep.Streamer, size int) *Tap {
	return &Tap{
		Source: src,
		ring:   make([][2]float64, size),
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 && len(t.ring) > 0 {
		t.mu.Lock()
		for _, s := range samples[:n] {
			t.ring[t.next] = s
			t.next = (t.next + 1) % len(t.ring)
		}
		t.mu.Unlock()
	}
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to n recent samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = max(0, min(n, len(t.ring)))
	out := make([][2]float64, n)
	start := (t.next - n + len(t.ring)) % max(1, len(t.ring))
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}

// Level is the RMS of the last n samples averaged over both channels.
func (t *Tap) Level(n int) float64 {
	s := t.Snapshot(n)
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += (v[0]*v[0] + v[1]*v[1]) / 2
	}
	return math.Sqrt(sum / float64(len(s)))
}
