package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/signalsfoundry/multilat-sensor-net/internal/config"
	"github.com/signalsfoundry/multilat-sensor-net/internal/dealer"
	"github.com/signalsfoundry/multilat-sensor-net/internal/estimator"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/netstate"
	"github.com/signalsfoundry/multilat-sensor-net/internal/network"
	"github.com/signalsfoundry/multilat-sensor-net/internal/observability"
)

func main() {
	grpcAddr := flag.String("grpc-addr", ":50052", "TCP address the Network coordinator's gRPC server listens on")
	metricsAddr := flag.String("metrics-addr", ":9091", "HTTP address for Prometheus /metrics")
	natsURL := flag.String("nats-url", nats.DefaultURL, "NATS server URL used for the data-plane scatter/gather fabric")
	workers := flag.Int("workers", 8, "size of the bounded worker pool fronting the three Network RPCs")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	configPath := flag.String("config", "", "optional YAML config file pre-filling flag defaults")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("network: " + err.Error() + "\n")
			os.Exit(1)
		}
		if cfg.Network != nil {
			applyNetworkConfig(cfg.Network, grpcAddr, metricsAddr, natsURL, workers, verbose)
			// Re-apply explicit command-line flags so they take precedence over the config file.
			flag.Parse()
		}
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level})
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewNetworkCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Error(ctx, "failed to connect to NATS", logging.String("url", *natsURL), logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer nc.Close()

	registry := netstate.New()
	d := dealer.New(dealer.WrapConn(nc))
	solver := estimator.New()

	service := network.New(registry, d, solver,
		network.WithWorkers(*workers),
		network.WithCollector(collector),
		network.WithLogger(log),
	)

	controller := network.NewController(service, collector, network.ControllerConfig{
		GRPCAddr:    *grpcAddr,
		MetricsAddr: *metricsAddr,
		Log:         log,
	})

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", *grpcAddr), logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "starting Network coordinator", logging.String("grpc_addr", *grpcAddr))
	go func() {
		if err := controller.Serve(lis); err != nil {
			log.Error(ctx, "gRPC server exited", logging.String("error", err.Error()))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down Network coordinator")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	controller.Stop(shutdownCtx)
}

func applyNetworkConfig(cfg *config.NetworkConfig, grpcAddr, metricsAddr, natsURL *string, workers *int, verbose *bool) {
	if cfg.GRPCAddr != "" {
		*grpcAddr = cfg.GRPCAddr
	}
	if cfg.MetricsAddr != "" {
		*metricsAddr = cfg.MetricsAddr
	}
	if cfg.NATSURL != "" {
		*natsURL = cfg.NATSURL
	}
	if cfg.Workers != 0 {
		*workers = cfg.Workers
	}
	if cfg.Verbose {
		*verbose = true
	}
}
