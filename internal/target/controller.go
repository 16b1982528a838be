package target

import (
	"context"
	"net"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/observability"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Controller is a facade bundling the Data cell, the trajectory Updater,
// and the gRPC server exposing GetPosition, mirroring
// target_controller.py's TargetController.
type Controller struct {
	data       *Data
	updater    *Updater
	grpcServer *grpc.Server
	log        logging.Logger
}

// NewController builds a target Controller starting at waypoints[0] and
// advancing through waypoints at freq Hz.
func NewController(waypoints []geo.Vector3, freq float64, loopPath bool, log logging.Logger) (*Controller, error) {
	if log == nil {
		log = logging.Noop()
	}
	if len(waypoints) == 0 {
		return nil, ErrMalformedTrajectory
	}

	data := NewData(waypoints[0])
	updater, err := NewUpdater(data, waypoints, freq, loopPath, log)
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		requestIDInterceptor(log),
		observability.UnaryServerTracingInterceptor("multilatsensornet/target"),
	))
	grpcServer.RegisterService(&wire.TargetServiceServiceDesc, NewService(data))

	return &Controller{data: data, updater: updater, grpcServer: grpcServer, log: log}, nil
}

// Start launches the trajectory updater in a background goroutine. It does
// not block; call Serve to run the gRPC server.
func (c *Controller) Start(ctx context.Context) {
	go c.updater.Run(ctx)
}

// Serve blocks serving GetPosition on lis until the server is stopped.
func (c *Controller) Serve(lis net.Listener) error {
	return c.grpcServer.Serve(lis)
}

// Stop gracefully stops the gRPC server, stopping it forcibly if in-flight
// RPCs have not finished within shutdownGrace.
func (c *Controller) Stop() {
	stopped := make(chan struct{})
	go func() {
		c.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		c.grpcServer.Stop()
	}
}

const shutdownGrace = 5 * time.Second

// GetPosition returns the target's current position directly, for use by
// callers embedded in the same process (e.g. tests).
func (c *Controller) GetPosition() geo.Vector3 {
	return c.data.GetPosition()
}

const requestIDMetadataKey = "x-request-id"

func requestIDInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestIDMetadataKey); len(vals) > 0 && vals[0] != "" {
				ctx = logging.ContextWithRequestID(ctx, vals[0])
			}
		}
		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(logging.String("method", info.FullMethod)))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		return handler(ctx, req)
	}
}
