// Package sensor implements a Node's distance sensor (§4.5): a thread-safe
// holder for the latest measured distance, and a background updater that
// polls the Target for its ground-truth position and turns that into a
// noisy distance reading.
package sensor

import (
	"math"
	"sync"
)

// Data holds the most recently measured distance between a node's sensor
// and the target. It starts at +Inf until the first measurement lands,
// mirroring the original's np.inf default.
type Data struct {
	mu       sync.Mutex
	distance float64
}

// New returns a Data primed with a +Inf distance.
func New() *Data {
	return &Data{distance: math.Inf(1)}
}

// GetDistance returns the current measured distance.
func (d *Data) GetDistance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.distance
}

// SetDistance updates the measured distance.
func (d *Data) SetDistance(distance float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.distance = distance
}
