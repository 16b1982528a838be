// Package target implements the Target role (§4.6): a reader/writer-safe
// position cell, a trajectory updater that advances it along waypoints,
// the GetPosition gRPC handler, and the facade tying them together.
package target

import (
	"sync"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

// Data holds the target's current ground-truth position behind an
// RWMutex, replacing the source's hand-rolled fair reader/writer lock with
// Go's native (writer-preferring) equivalent.
type Data struct {
	mu  sync.RWMutex
	pos geo.Vector3
}

// NewData returns a Data starting at startPos.
func NewData(startPos geo.Vector3) *Data {
	return &Data{pos: startPos}
}

// GetPosition returns the current position.
func (d *Data) GetPosition() geo.Vector3 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pos
}

// SetPosition updates the current position.
func (d *Data) SetPosition(pos geo.Vector3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = pos
}
