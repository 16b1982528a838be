// Package network implements the Network coordinator (§4.4): the
// registration/activation state machine, the bounded worker pool that
// fronts its three gRPC handlers, and the glue between the shared node
// registry, the distance dealer, and the multilateration solver.
package network

import (
	"context"
	"math"

	"github.com/signalsfoundry/multilat-sensor-net/internal/dealer"
	"github.com/signalsfoundry/multilat-sensor-net/internal/estimator"
	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/netstate"
	"github.com/signalsfoundry/multilat-sensor-net/internal/observability"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// defaultWorkers bounds the number of AddNode/StartNetwork/
// GetTargetGlobalPosition handlers that run concurrently.
const defaultWorkers = 8

// Service implements wire.NetworkServiceServer.
type Service struct {
	registry  *netstate.Registry
	dealer    *dealer.Dealer
	estimator *estimator.Solver
	collector *observability.NetworkCollector
	log       logging.Logger
	pool      *pool
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers overrides the worker pool size.
func WithWorkers(n int) Option {
	return func(s *Service) { s.pool = newPool(n) }
}

// WithCollector attaches a metrics collector.
func WithCollector(c *observability.NetworkCollector) Option {
	return func(s *Service) { s.collector = c }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New builds a Network coordinator Service around the given registry,
// dealer, and solver.
func New(registry *netstate.Registry, d *dealer.Dealer, solver *estimator.Solver, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		dealer:    d,
		estimator: solver,
		log:       logging.Noop(),
		pool:      newPool(defaultWorkers),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close stops the service's worker pool.
func (s *Service) Close() {
	s.pool.close()
}

// AddNode registers a sensor node's position and bind address (§4.4.1).
func (s *Service) AddNode(ctx context.Context, req *wire.AddNodeRequest) (*wire.AddNodeResponse, error) {
	res, err := s.pool.submit(ctx, func() (interface{}, error) {
		return s.addNode(req)
	})
	if err != nil {
		return nil, ToStatusError(err)
	}
	return res.(*wire.AddNodeResponse), nil
}

func (s *Service) addNode(req *wire.AddNodeRequest) (*wire.AddNodeResponse, error) {
	pos := geo.Vector3{X: float64(req.X), Y: float64(req.Y), Z: float64(req.Z)}
	if !finite(pos) {
		s.log.Warn(context.Background(), "rejecting AddNode with non-finite position",
			logging.Int("node_id", int(req.NodeId)))
		return &wire.AddNodeResponse{Status: int32(wire.NSError)}, nil
	}

	if err := s.registry.AddNode(req.NodeId, pos, req.BindAddress); err != nil {
		s.log.Info(context.Background(), "AddNode rejected",
			logging.Int("node_id", int(req.NodeId)),
			logging.String("error", err.Error()))
		s.reportRegistry()
		return &wire.AddNodeResponse{Status: int32(wire.NSError)}, nil
	}

	s.log.Info(context.Background(), "node registered", logging.Int("node_id", int(req.NodeId)))
	s.reportRegistry()
	return &wire.AddNodeResponse{Status: int32(wire.NSOK)}, nil
}

// StartNetwork activates the network: it connects the dealer and configures
// the solver against the current registry snapshot before flipping the
// activation flag observable to other handlers (§4.4.2).
func (s *Service) StartNetwork(ctx context.Context, req *wire.StartNetworkRequest) (*wire.StartNetworkResponse, error) {
	res, err := s.pool.submit(ctx, func() (interface{}, error) {
		return s.startNetwork(req)
	})
	if err != nil {
		return nil, ToStatusError(err)
	}
	return res.(*wire.StartNetworkResponse), nil
}

func (s *Service) startNetwork(req *wire.StartNetworkRequest) (*wire.StartNetworkResponse, error) {
	nodes, err := s.registry.BeginActivation()
	if err != nil {
		s.log.Info(context.Background(), "StartNetwork rejected",
			logging.Int("client_id", int(req.ClientId)),
			logging.String("error", err.Error()))
		return &wire.StartNetworkResponse{Status: int32(wire.SSError), NNodes: int32(s.registry.NodeCount())}, nil
	}

	s.dealer.Connect(nodes)
	positions := make(map[int32]geo.Vector3, len(nodes))
	for id, rec := range nodes {
		positions[id] = rec.Position
	}
	s.estimator.SetSensorPositions(positions)

	s.registry.CommitActivation()

	s.log.Info(context.Background(), "network started",
		logging.Int("client_id", int(req.ClientId)),
		logging.Int("n_nodes", len(nodes)))
	s.reportRegistry()

	return &wire.StartNetworkResponse{Status: int32(wire.SSOK), NNodes: int32(len(nodes))}, nil
}

// GetTargetGlobalPosition runs one scatter/gather round and solves for the
// target's position (§4.4.3).
func (s *Service) GetTargetGlobalPosition(ctx context.Context, req *wire.GetTargetGlobalPositionRequest) (*wire.GetTargetGlobalPositionResponse, error) {
	res, err := s.pool.submit(ctx, func() (interface{}, error) {
		return s.getTargetGlobalPosition(ctx, req)
	})
	if err != nil {
		return nil, ToStatusError(err)
	}
	return res.(*wire.GetTargetGlobalPositionResponse), nil
}

func (s *Service) getTargetGlobalPosition(ctx context.Context, req *wire.GetTargetGlobalPositionRequest) (*wire.GetTargetGlobalPositionResponse, error) {
	if !s.registry.IsActive() {
		s.log.Info(context.Background(), "GetTargetGlobalPosition rejected: network inactive",
			logging.Int("client_id", int(req.ClientId)))
		return errorPositionResponse(), nil
	}

	ctx, span := observability.StartSpan(ctx, "multilatsensornet/network", "dealer.RequestDistances")
	distances, err := s.dealer.RequestDistances(ctx)
	span.End()
	if err != nil {
		s.log.Warn(context.Background(), "dealer round failed", logging.String("error", err.Error()))
		return errorPositionResponse(), nil
	}
	if s.collector != nil {
		s.collector.ObserveDealerRound(s.registry.NodeCount(), len(distances))
	}

	pos, err := s.estimator.EstimatePosition(distances)
	if err != nil {
		s.log.Warn(context.Background(), "solver failed", logging.String("error", err.Error()))
		return errorPositionResponse(), nil
	}

	return &wire.GetTargetGlobalPositionResponse{
		Status: int32(wire.TSOK),
		X:      wire.Float(pos.X),
		Y:      wire.Float(pos.Y),
		Z:      wire.Float(pos.Z),
	}, nil
}

func errorPositionResponse() *wire.GetTargetGlobalPositionResponse {
	return &wire.GetTargetGlobalPositionResponse{
		Status: int32(wire.TSError),
		X:      wire.Float(geo.Infinity.X),
		Y:      wire.Float(geo.Infinity.Y),
		Z:      wire.Float(geo.Infinity.Z),
	}
}

func (s *Service) reportRegistry() {
	if s.collector == nil {
		return
	}
	s.collector.SetRegistryCounts(s.registry.NodeCount(), s.registry.IsActive())
}

func finite(v geo.Vector3) bool {
	return !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0) &&
		!math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z)
}
