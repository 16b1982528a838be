package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"

	"github.com/signalsfoundry/multilat-sensor-net/internal/config"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/target"
)

func main() {
	grpcAddr := flag.String("grpc-addr", ":50051", "TCP address the Target's gRPC server listens on")
	trajectoryPath := flag.String("trajectory", "", "path to a JSON trajectory document ({\"waypoints\": [[x,y,z], ...]})")
	frequency := flag.Float64("frequency", 1.0, "trajectory update frequency [Hz]")
	loopPath := flag.Bool("loop-path", false, "wrap back to the first waypoint instead of stopping after the last")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	configPath := flag.String("config", "", "optional YAML config file pre-filling flag defaults")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("target: " + err.Error() + "\n")
			os.Exit(1)
		}
		if cfg.Target != nil {
			applyTargetConfig(cfg.Target, grpcAddr, trajectoryPath, frequency, loopPath, verbose)
			// Re-apply explicit command-line flags so they take precedence over the config file.
			flag.Parse()
		}
	}

	if *trajectoryPath == "" {
		os.Stderr.WriteString("target: --trajectory is required\n")
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level})
	ctx := context.Background()

	waypoints, err := target.LoadWaypoints(*trajectoryPath)
	if err != nil {
		log.Error(ctx, "failed to load trajectory", logging.String("path", *trajectoryPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	ctrl, err := target.NewController(waypoints, *frequency, *loopPath, log)
	if err != nil {
		log.Error(ctx, "failed to build target controller", logging.String("error", err.Error()))
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", *grpcAddr), logging.String("error", err.Error()))
		os.Exit(1)
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info(ctx, "starting target", logging.String("grpc_addr", *grpcAddr), logging.Int("waypoints", len(waypoints)))
	ctrl.Start(runCtx)

	go func() {
		if err := ctrl.Serve(lis); err != nil {
			log.Error(ctx, "gRPC server exited", logging.String("error", err.Error()))
		}
	}()

	<-runCtx.Done()
	log.Info(ctx, "shutting down target")
	ctrl.Stop()
}

func applyTargetConfig(cfg *config.TargetConfig, grpcAddr, trajectoryPath *string, frequency *float64, loopPath, verbose *bool) {
	if cfg.GRPCAddr != "" {
		*grpcAddr = cfg.GRPCAddr
	}
	if cfg.TrajectoryPath != "" {
		*trajectoryPath = cfg.TrajectoryPath
	}
	if cfg.Frequency != 0 {
		*frequency = cfg.Frequency
	}
	if cfg.LoopPath {
		*loopPath = true
	}
	if cfg.Verbose {
		*verbose = true
	}
}
