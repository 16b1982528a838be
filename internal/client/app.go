package client

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
	"google.golang.org/grpc"
)

// ErrNetworkStartFailed is returned when the one-shot StartNetwork call at
// the beginning of a run does not report SS_OK.
var ErrNetworkStartFailed = errors.New("client: network failed to start")

// NetworkClient is the subset of wire.NetworkServiceClient the App depends
// on, narrowed for testability.
type NetworkClient interface {
	StartNetwork(ctx context.Context, in *wire.StartNetworkRequest, opts ...grpc.CallOption) (*wire.StartNetworkResponse, error)
	GetTargetGlobalPosition(ctx context.Context, in *wire.GetTargetGlobalPositionRequest, opts ...grpc.CallOption) (*wire.GetTargetGlobalPositionResponse, error)
}

// App drives the client role (§4.7): it starts the distributed network
// once, then loops requesting the target's global position at a fixed
// frequency, feeding each measurement into a Tracker and appending the
// smoothed prediction to a CSV trajectory, grounded on client_app.py's
// ClientApp.
type App struct {
	client   NetworkClient
	clientID int32
	interval time.Duration
	tracker  *Tracker
	log      logging.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

// NewApp builds an App requesting the target position at freq Hz.
func NewApp(client NetworkClient, clientID int32, freq float64, opts ...Option) *App {
	a := &App{
		client:   client,
		clientID: clientID,
		interval: time.Duration(float64(time.Second) / freq),
		tracker:  NewTracker(),
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the network, then loops writing one CSV row per tracked
// position to out until the RPC transport fails or ctx is cancelled. A
// TS_ERROR on a given tick (e.g. a partial gather round) is logged and
// skipped; tracking resumes on the next tick since the client's cadence is
// independent of any one tick's outcome.
func (a *App) Run(ctx context.Context, out io.Writer) error {
	startResp, err := a.client.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: a.clientID})
	if err != nil {
		return fmt.Errorf("client: StartNetwork: %w", err)
	}
	if startResp.Status != int32(wire.SSOK) {
		return ErrNetworkStartFailed
	}
	a.log.Info(ctx, "network started", logging.Int("n_nodes", int(startResp.NNodes)))

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"timestamp", "x", "y", "z"}); err != nil {
		return fmt.Errorf("client: writing csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("client: writing csv header: %w", err)
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		resp, err := a.client.GetTargetGlobalPosition(ctx, &wire.GetTargetGlobalPositionRequest{ClientId: a.clientID})
		if err != nil {
			return fmt.Errorf("client: GetTargetGlobalPosition: %w", err)
		}
		if resp.Status == int32(wire.TSError) {
			a.log.Info(ctx, "network returned TS_ERROR; skipping tick")
			continue
		}

		measurement := geo.Vector3{X: float64(resp.X), Y: float64(resp.Y), Z: float64(resp.Z)}
		pred := a.tracker.Observe(measurement)

		row := []string{
			time.Now().UTC().Format(time.RFC3339Nano),
			fmt.Sprintf("%.3f", pred.X),
			fmt.Sprintf("%.3f", pred.Y),
			fmt.Sprintf("%.3f", pred.Z),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("client: writing csv row: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("client: writing csv row: %w", err)
		}

		a.log.Debug(ctx, "tracked target",
			logging.Any("x", pred.X), logging.Any("y", pred.Y), logging.Any("z", pred.Z))
	}
}
