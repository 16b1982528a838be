// Package noderouter implements a Node's data-plane endpoint (§4.5): it
// listens for GetDistance requests from the Network coordinator's dealer
// and replies with the node's latest sensor distance. The original source
// binds a ZeroMQ ROUTER socket per node; this package subscribes to a
// per-node NATS subject instead, replying on the subject the dealer
// supplied as its inbox, which plays the same role as ZeroMQ's per-frame
// reply identity.
package noderouter

import (
	"context"

	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// Msg is the inbound request delivered to a subscription handler.
type Msg struct {
	Subject string
	Reply   string
	Data    []byte
}

// Subscription is returned by Conn.Subscribe.
type Subscription interface {
	Unsubscribe() error
}

// Conn is the subset of *nats.Conn the router depends on.
type Conn interface {
	Subscribe(subject string, handler func(*Msg)) (Subscription, error)
	Publish(subject string, data []byte) error
}

// DistanceSource reports the node's latest measured distance.
type DistanceSource interface {
	GetDistance() float64
}

// Router answers data-plane distance requests for one node.
type Router struct {
	conn    Conn
	sensor  DistanceSource
	nodeID  int32
	subject string
	log     logging.Logger

	sub Subscription
}

// New builds a Router bound to subject, sourcing readings from sensor.
func New(conn Conn, sensor DistanceSource, nodeID int32, subject string, log logging.Logger) *Router {
	if log == nil {
		log = logging.Noop()
	}
	return &Router{conn: conn, sensor: sensor, nodeID: nodeID, subject: subject, log: log}
}

// Start subscribes to the node's subject and begins answering requests
// asynchronously, returning once the subscription is established.
func (r *Router) Start() error {
	sub, err := r.conn.Subscribe(r.subject, r.handle)
	if err != nil {
		return err
	}
	r.sub = sub
	r.log.Info(context.Background(), "node router listening",
		logging.Int("node_id", int(r.nodeID)),
		logging.String("subject", r.subject))
	return nil
}

// Stop unsubscribes the router.
func (r *Router) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Unsubscribe()
}

func (r *Router) handle(msg *Msg) {
	if msg.Reply == "" {
		return
	}

	switch string(msg.Data) {
	case wire.GetDistanceRequest:
		distance := r.sensor.GetDistance()
		reply := wire.FormatDistanceReply(r.nodeID, distance)
		if err := r.conn.Publish(msg.Reply, []byte(reply)); err != nil {
			r.log.Warn(context.Background(), "failed to publish distance reply",
				logging.Int("node_id", int(r.nodeID)), logging.String("error", err.Error()))
			return
		}
		r.log.Debug(context.Background(), "sent distance",
			logging.Int("node_id", int(r.nodeID)))
	default:
		r.log.Debug(context.Background(), "dropping unknown data-plane request",
			logging.Int("node_id", int(r.nodeID)))
	}
}
