package network

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/observability"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Controller is a facade bundling the gRPC server, the metrics HTTP
// server, and the Network Service, mirroring the role cmd/nbi-server/main.go
// plays for the constellation simulator's NBI surface.
type Controller struct {
	grpcServer    *grpc.Server
	metricsServer *http.Server
	service       *Service
	log           logging.Logger
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	GRPCAddr    string
	MetricsAddr string
	Log         logging.Logger
}

// NewController wires a Service into a gRPC server with request-ID and
// metrics interceptors, plus a /metrics HTTP handler.
func NewController(service *Service, collector *observability.NetworkCollector, cfg ControllerConfig) *Controller {
	log := cfg.Log
	if log == nil {
		log = logging.Noop()
	}

	interceptors := []grpc.UnaryServerInterceptor{
		requestIDInterceptor(log),
		observability.UnaryServerTracingInterceptor("multilatsensornet/network"),
	}
	if collector != nil {
		interceptors = append(interceptors, collector.UnaryServerInterceptor())
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	grpcServer.RegisterService(&wire.NetworkServiceServiceDesc, service)

	var metricsServer *http.Server
	if collector != nil && cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	}

	return &Controller{grpcServer: grpcServer, metricsServer: metricsServer, service: service, log: log}
}

// Serve blocks serving gRPC on lis and, if configured, HTTP metrics on the
// configured address, until the server is stopped.
func (c *Controller) Serve(lis net.Listener) error {
	if c.metricsServer != nil {
		go func() {
			if err := c.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				c.log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
			}
		}()
	}
	return c.grpcServer.Serve(lis)
}

// Stop gracefully stops the gRPC server, the metrics server, and the
// underlying Service's worker pool. If ctx is done before in-flight RPCs
// finish, the gRPC server is stopped forcibly.
func (c *Controller) Stop(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		c.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		c.grpcServer.Stop()
	}
	c.service.Close()
	if c.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = c.metricsServer.Shutdown(shutdownCtx)
	}
}

const requestIDMetadataKey = "x-request-id"

// requestIDInterceptor mirrors the constellation simulator's NBI
// request-ID interceptor: it sources a request ID from inbound metadata
// when present, otherwise mints one, and attaches a per-request logger.
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
