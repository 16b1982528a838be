// Package netstate holds the Network coordinator's shared domain state: the
// node registry and the activation flag (§4.1, §4.4).
//
// The Python source guards these two fields with independent hand-rolled
// fair reader/writer locks (separate semaphore pairs for _nodes and
// _is_active) so readers and writers interleave without starvation. Go's
// sync.RWMutex already gives that fairness guarantee against the runtime's
// scheduler, so a single RWMutex replaces both lock pairs. AddNode and
// StartNetwork each need to observe-then-mutate both the registry and the
// flag as one atomic step (§4.4's "already active" check must not race with
// a concurrent activation), so the two fields share one mutex rather than
// two: guarding them independently would reopen exactly the race the
// original's separate locks were designed around.
package netstate

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

// NodeRecord is a sensor node's registered position and data-plane address.
type NodeRecord struct {
	Position    geo.Vector3
	BindAddress string
}

// Registry tracks registered nodes and the network's activation flag.
type Registry struct {
	mu         sync.RWMutex
	nodes      map[int32]NodeRecord
	active     bool
	activating bool
}

// New returns an empty, inactive Registry.
func New() *Registry {
	return &Registry{nodes: make(map[int32]NodeRecord)}
}

// AddNode registers a node's position and bind address. It fails if the
// network is already active or the node ID is already registered.
func (r *Registry) AddNode(nodeID int32, pos geo.Vector3, bindAddress string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.activating {
		return ErrNetworkActive
	}
	if _, exists := r.nodes[nodeID]; exists {
		return fmt.Errorf("%w: node %d", ErrNodeAlreadyRegistered, nodeID)
	}
	r.nodes[nodeID] = NodeRecord{Position: pos, BindAddress: bindAddress}
	return nil
}

// NodesSnapshot returns a copy of the currently registered nodes.
func (r *Registry) NodesSnapshot() map[int32]NodeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[int32]NodeRecord, len(r.nodes))
	for id, rec := range r.nodes {
		snapshot[id] = rec
	}
	return snapshot
}

// NodeCount returns the number of registered nodes.
func (r *Registry) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// IsActive reports whether the network has been activated.
func (r *Registry) IsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// BeginActivation validates that the network is neither active nor already
// being activated, marks activation as in progress, and returns a snapshot
// of the registered nodes at that moment. While activation is in progress,
// AddNode and a second BeginActivation both fail: the caller is expected to
// configure the dealer and solver against the returned snapshot and then
// call CommitActivation before any handler can observe the network as
// active, so GetTargetGlobalPosition can never race against an
// uninitialized dealer or solver.
func (r *Registry) BeginActivation() (map[int32]NodeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.activating {
		return nil, ErrNetworkActive
	}
	snapshot := make(map[int32]NodeRecord, len(r.nodes))
	for id, rec := range r.nodes {
		snapshot[id] = rec
	}
	r.activating = true
	return snapshot, nil
}

// CommitActivation flips the network to active. Call only after the dealer
// and solver have been fully configured against the snapshot BeginActivation
// returned.
func (r *Registry) CommitActivation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
	r.activating = false
}
