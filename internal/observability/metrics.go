package observability

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// NetworkCollector bundles Prometheus metrics for the Network coordinator's
// gRPC surface and provides helpers to wire them into gRPC servers and HTTP
// handlers.
type NetworkCollector struct {
	gatherer prometheus.Gatherer

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec

	RegisteredNodes prometheus.Gauge
	NetworkActive   prometheus.Gauge
	DealerRounds    prometheus.Counter
	DealerReplies   *prometheus.HistogramVec
}

// NewNetworkCollector registers Network Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewNetworkCollector(reg prometheus.Registerer) (*NetworkCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_requests_total",
		Help: "Total number of handled Network RPCs, labeled by service, method, and status code.",
	}, []string{"service", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "network_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Network RPC latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"service", "method"})
	durations, err = registerHistogramVec(reg, durations, "network_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	registered, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "network_registered_nodes",
		Help: "Current number of nodes registered with the Network coordinator.",
	}), "network_registered_nodes")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "network_active",
		Help: "1 if the distributed network has been activated via StartNetwork, 0 otherwise.",
	}), "network_active")
	if err != nil {
		return nil, err
	}

	rounds, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "network_dealer_rounds_total",
		Help: "Total number of distance scatter/gather rounds run by the dealer.",
	}), "network_dealer_rounds_total")
	if err != nil {
		return nil, err
	}

	replies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_dealer_round_replies",
		Help:    "Number of node replies collected per scatter/gather round.",
		Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 24, 32},
	}, []string{"outcome"})
	replies, err = registerHistogramVec(reg, replies, "network_dealer_round_replies")
	if err != nil {
		return nil, err
	}

	return &NetworkCollector{
		gatherer:        gatherer,
		RPCRequests:     requests,
		RPCDurations:    durations,
		RegisteredNodes: registered,
		NetworkActive:   active,
		DealerRounds:    rounds,
		DealerReplies:   replies,
	}, nil
}

// UnaryServerInterceptor records request counts and durations for unary RPCs.
func (c *NetworkCollector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		if c == nil {
			return resp, err
		}

		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		service, method := SplitMethod(fullMethod)
		code := status.Code(err).String()

		if c.RPCRequests != nil {
			c.RPCRequests.WithLabelValues(service, method, code).Inc()
		}
		if c.RPCDurations != nil {
			c.RPCDurations.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
		}

		return resp, err
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *NetworkCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetRegistryCounts drives the registered-node and activation gauges directly
// from the Network coordinator's guarded accessors.
func (c *NetworkCollector) SetRegistryCounts(nodes int, active bool) {
	if c == nil {
		return
	}
	if c.RegisteredNodes != nil {
		c.RegisteredNodes.Set(float64(nodes))
	}
	if c.NetworkActive != nil {
		if active {
			c.NetworkActive.Set(1)
		} else {
			c.NetworkActive.Set(0)
		}
	}
}

// ObserveDealerRound records the outcome of one scatter/gather round.
func (c *NetworkCollector) ObserveDealerRound(expected, received int) {
	if c == nil {
		return
	}
	if c.DealerRounds != nil {
		c.DealerRounds.Inc()
	}
	if c.DealerReplies == nil {
		return
	}
	outcome := "partial"
	if received >= expected {
		outcome = "complete"
	}
	c.DealerReplies.WithLabelValues(outcome).Observe(float64(received))
}

// SplitMethod parses a fully-qualified gRPC method name into service and method
// components. It tolerates empty strings and partial paths, returning
// "unknown"/"unknown" when parsing fails.
func SplitMethod(fullMethod string) (string, string) {
	if fullMethod == "" {
		return "unknown", "unknown"
	}
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 2 {
		return "unknown", "unknown"
	}
	service := parts[len(parts)-2]
	method := parts[len(parts)-1]
	if dot := strings.LastIndex(service, "."); dot >= 0 && dot+1 < len(service) {
		service = service[dot+1:]
	}
	if service == "" {
		service = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	return service, method
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
