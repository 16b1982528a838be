// Package dealer implements the Network coordinator's scatter/gather
// distance-collection round (§4.2). The original source uses a ZeroMQ
// DEALER socket connected to every node's ROUTER socket, broadcasting the
// "GetDistance" token and polling for "<node_id>:<distance>" replies with a
// bounded timeout. This package reproduces the same protocol and timeout
// semantics over NATS core pub/sub: each node listens on its own subject
// (derived from its registered bind address) and replies to a shared inbox
// subject for the round, which the dealer drains with a per-message
// deadline exactly like the original's zmq.Poller loop.
package dealer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/netstate"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// PollTimeout bounds how long a single gather round waits for the next
// reply before giving up on outstanding nodes, mirroring the 5s
// zmq.Poller timeout in the reference implementation. It is a var rather
// than a const so tests can shorten it.
var PollTimeout = 5 * time.Second

// Msg is a transport-agnostic inbound message: a node's distance reply, or
// a GetDistance request delivered to a node's router.
type Msg struct {
	Subject string
	Reply   string
	Data    []byte
}

// Subscription is the subset of *nats.Subscription the dealer depends on.
type Subscription interface {
	NextMsg(timeout time.Duration) (*Msg, error)
	Unsubscribe() error
}

// Conn is the subset of *nats.Conn the dealer depends on, kept narrow so
// tests can substitute an in-memory fake instead of a running NATS server.
type Conn interface {
	NewInbox() string
	PublishRequest(subject, reply string, data []byte) error
	SubscribeSync(subject string) (Subscription, error)
}

// Dealer collects distance measurements from registered nodes over one
// round at a time, serialized by mu so concurrent GetTargetGlobalPosition
// calls don't interleave replies from different rounds onto the same
// subscription.
type Dealer struct {
	conn Conn

	mu      sync.Mutex
	subject map[int32]string // node ID -> node's GetDistance subject
}

// New wraps an existing connection. Connect must be called before
// RequestDistances to populate the node subject table.
func New(conn Conn) *Dealer {
	return &Dealer{conn: conn, subject: make(map[int32]string)}
}

// Connect records each node's subject, derived from its registered bind
// address, for use in subsequent rounds. It replaces the dealer's node set
// wholesale, matching the original's one-shot connect-at-activation
// behavior.
func (d *Dealer) Connect(nodes map[int32]netstate.NodeRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.subject = make(map[int32]string, len(nodes))
	for id, rec := range nodes {
		d.subject[id] = NodeSubject(rec.BindAddress)
	}
}

// NodeSubject derives a node's data-plane subject from its bind address.
// The address itself (e.g. "tcp://*:5551" in the original scheme) is
// opaque to NATS subject routing, so nodes and the dealer agree on the
// convention "node.distance.<bind_address>".
func NodeSubject(bindAddress string) string {
	return fmt.Sprintf("node.distance.%s", bindAddress)
}

// RequestDistances runs one scatter/gather round: it broadcasts
// wire.GetDistanceRequest to every connected node's subject and collects
// replies on a fresh inbox subject until either every node has answered or
// PollTimeout elapses with no new reply, whichever comes first. Partial
// results are returned without error, per §4.2.
func (d *Dealer) RequestDistances(ctx context.Context) (map[int32]float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subjects := make(map[int32]string, len(d.subject))
	for id, subj := range d.subject {
		subjects[id] = subj
	}

	distances := make(map[int32]float64, len(subjects))
	if len(subjects) == 0 {
		return distances, nil
	}

	inbox := d.conn.NewInbox()
	sub, err := d.conn.SubscribeSync(inbox)
	if err != nil {
		return nil, fmt.Errorf("dealer: subscribe to inbox: %w", err)
	}
	defer sub.Unsubscribe()

	for _, subj := range subjects {
		if err := d.conn.PublishRequest(subj, inbox, []byte(wire.GetDistanceRequest)); err != nil {
			return nil, fmt.Errorf("dealer: publish request to %s: %w", subj, err)
		}
	}

	needed := len(subjects)
	for len(distances) < needed {
		select {
		case <-ctx.Done():
			return distances, nil
		default:
		}

		msg, err := sub.NextMsg(PollTimeout)
		if err != nil {
			// Timeout or closed subscription: return what's collected so far.
			return distances, nil
		}

		nodeID, dist, err := wire.ParseDistanceReply(string(msg.Data))
		if err != nil {
			continue
		}
		distances[nodeID] = dist
	}

	return distances, nil
}
