package sensor

import (
	"context"
	"math/rand"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// DefaultAccuracy is the half-width [m] of the uniform noise added to each
// distance measurement.
const DefaultAccuracy = 0.003

// DefaultFrequency is the default measurement rate [Hz].
const DefaultFrequency = 40.0

// TargetClient is the subset of wire.TargetServiceClient the updater needs,
// kept as an interface so tests can substitute a fake target.
type TargetClient interface {
	GetPosition(ctx context.Context, in *wire.GetPositionRequest) (*wire.GetPositionResponse, error)
}

// Updater runs the sensor's measurement loop: poll the Target for its
// position, compute the noisy Euclidean distance, and store it in Data. It
// replaces the Python source's daemon thread with a goroutine governed by
// context cancellation.
type Updater struct {
	data     *Data
	client   TargetClient
	nodeID   int32
	pos      geo.Vector3
	accuracy float64
	interval time.Duration
	log      logging.Logger
	rng      *rand.Rand
}

// NewUpdater builds an Updater. freq is in Hz; accuracy is the uniform
// noise half-width in meters.
func NewUpdater(data *Data, client TargetClient, nodeID int32, pos geo.Vector3, accuracy, freq float64, log logging.Logger) *Updater {
	if log == nil {
		log = logging.Noop()
	}
	if freq <= 0 {
		freq = DefaultFrequency
	}
	return &Updater{
		data:     data,
		client:   client,
		nodeID:   nodeID,
		pos:      pos,
		accuracy: accuracy,
		interval: time.Duration(float64(time.Second) / freq),
		log:      log,
		rng:      rand.New(rand.NewSource(int64(nodeID) + 1)),
	}
}

// Run polls the target and updates the measured distance until ctx is
// cancelled. A transient gRPC failure is logged and the loop continues at
// the next tick rather than exiting, unlike the source's thread, which
// exits on grpc.RpcError.
func (u *Updater) Run(ctx context.Context) error {
	u.log.Info(ctx, "sensor updater starting", logging.Int("node_id", int(u.nodeID)))

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		if err := u.measureOnce(ctx); err != nil {
			u.log.Warn(ctx, "sensor measurement failed, continuing",
				logging.Int("node_id", int(u.nodeID)),
				logging.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			u.log.Info(ctx, "sensor updater stopped", logging.Int("node_id", int(u.nodeID)))
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (u *Updater) measureOnce(ctx context.Context) error {
	resp, err := u.client.GetPosition(ctx, &wire.GetPositionRequest{NodeId: u.nodeID})
	if err != nil {
		return err
	}

	target := geo.Vector3{X: float64(resp.X), Y: float64(resp.Y), Z: float64(resp.Z)}
	distance := u.pos.Distance(target) + u.noise()
	u.data.SetDistance(distance)
	return nil
}

func (u *Updater) noise() float64 {
	return u.accuracy * (2*u.rng.Float64() - 1)
}
