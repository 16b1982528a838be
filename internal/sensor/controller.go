package sensor

import (
	"context"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
)

// Controller is a facade coordinating a node's Data and Updater, mirroring
// SensorController's role of wiring the domain object to its background
// measurement loop.
type Controller struct {
	data    *Data
	updater *Updater
}

// NewController builds a sensor Controller for a node at pos, polling
// client for the target's position.
func NewController(nodeID int32, pos geo.Vector3, client TargetClient, accuracy, freq float64, log logging.Logger) *Controller {
	data := New()
	updater := NewUpdater(data, client, nodeID, pos, accuracy, freq, log)
	return &Controller{data: data, updater: updater}
}

// Start launches the measurement loop in a background goroutine and
// returns immediately; the loop runs until ctx is cancelled, logging and
// continuing through transient gRPC errors.
func (c *Controller) Start(ctx context.Context) {
	go func() {
		_ = c.updater.Run(ctx)
	}()
}

// GetDistance returns the most recently measured distance.
func (c *Controller) GetDistance() float64 {
	return c.data.GetDistance()
}
