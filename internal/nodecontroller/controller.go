// Package nodecontroller wires together a Node's sensor, its registration
// client, and its data-plane router (§4.5), the Go counterpart of the
// source's NodeController facade.
package nodecontroller

import (
	"context"

	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/nodeclient"
	"github.com/signalsfoundry/multilat-sensor-net/internal/noderouter"
	"github.com/signalsfoundry/multilat-sensor-net/internal/sensor"
)

// Controller owns a node's sensor, registration client, and data-plane
// router, starting them in the same order as the reference NodeController:
// sensor first, then registration, then (only on successful registration)
// the router.
type Controller struct {
	Sensor *sensor.Controller
	client *nodeclient.Client
	router *noderouter.Router
	log    logging.Logger
}

// New builds a node Controller. subject is the data-plane subject this
// node's router will listen on.
func New(
	sensorCtrl *sensor.Controller,
	client *nodeclient.Client,
	conn noderouter.Conn,
	distanceSource noderouter.DistanceSource,
	nodeID int32,
	subject string,
	log logging.Logger,
) *Controller {
	if log == nil {
		log = logging.Noop()
	}
	return &Controller{
		Sensor: sensorCtrl,
		client: client,
		router: noderouter.New(conn, distanceSource, nodeID, subject, log),
		log:    log,
	}
}

// Start starts the sensor's measurement loop, attempts registration with
// the Network coordinator, and, only if registration succeeds, starts the
// data-plane router. It returns whether the node became fully operational.
func (c *Controller) Start(ctx context.Context) bool {
	c.Sensor.Start(ctx)

	if !c.client.AddNodeToNetwork(ctx) {
		c.log.Warn(ctx, "node registration failed; data-plane router not started")
		return false
	}

	if err := c.router.Start(); err != nil {
		c.log.Warn(ctx, "failed to start data-plane router", logging.String("error", err.Error()))
		return false
	}
	return true
}

// Stop stops the data-plane router.
func (c *Controller) Stop() error {
	return c.router.Stop()
}
