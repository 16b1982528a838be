// Package nodeclient implements a Node's registration handshake with the
// Network coordinator (§4.5), the Go counterpart of the source's NodeStub.
package nodeclient

import (
	"context"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// NetworkClient is the subset of wire.NetworkServiceClient the node needs.
type NetworkClient interface {
	AddNode(ctx context.Context, in *wire.AddNodeRequest) (*wire.AddNodeResponse, error)
}

// Client registers a node with the Network coordinator.
type Client struct {
	network     NetworkClient
	nodeID      int32
	pos         geo.Vector3
	bindAddress string
	log         logging.Logger
}

// New builds a registration Client for a node.
func New(network NetworkClient, nodeID int32, pos geo.Vector3, bindAddress string, log logging.Logger) *Client {
	if log == nil {
		log = logging.Noop()
	}
	return &Client{network: network, nodeID: nodeID, pos: pos, bindAddress: bindAddress, log: log}
}

// AddNodeToNetwork registers the node and reports whether the Network
// coordinator accepted it.
func (c *Client) AddNodeToNetwork(ctx context.Context) bool {
	resp, err := c.network.AddNode(ctx, &wire.AddNodeRequest{
		NodeId:      c.nodeID,
		X:           wire.Float(c.pos.X),
		Y:           wire.Float(c.pos.Y),
		Z:           wire.Float(c.pos.Z),
		BindAddress: c.bindAddress,
	})
	if err != nil {
		c.log.Warn(ctx, "failed to register with network coordinator",
			logging.Int("node_id", int(c.nodeID)), logging.String("error", err.Error()))
		return false
	}

	ok := resp.Status == int32(wire.NSOK)
	if ok {
		c.log.Info(ctx, "node registered with network coordinator", logging.Int("node_id", int(c.nodeID)))
	} else {
		c.log.Warn(ctx, "network coordinator rejected node registration", logging.Int("node_id", int(c.nodeID)))
	}
	return ok
}
