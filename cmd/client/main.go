package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalsfoundry/multilat-sensor-net/internal/client"
	"github.com/signalsfoundry/multilat-sensor-net/internal/config"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

func main() {
	clientID := flag.Int("client-id", 1, "client ID")
	networkServiceAddr := flag.String("network-service-addr", "localhost:50052", "Network coordinator gRPC service address")
	frequency := flag.Float64("frequency", 15, "target position request frequency [Hz] (10-20Hz for low-speed targets, 20-30Hz for high-speed)")
	outputPath := flag.String("output", "", "CSV output path for the tracked trajectory (defaults to data/run_<timestamp>.csv)")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	configPath := flag.String("config", "", "optional YAML config file pre-filling flag defaults")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("client: " + err.Error() + "\n")
			os.Exit(1)
		}
		if cfg.Client != nil {
			applyClientConfig(cfg.Client, clientID, networkServiceAddr, frequency, outputPath, verbose)
			// Re-apply explicit command-line flags so they take precedence over the config file.
			flag.Parse()
		}
	}

	if *outputPath == "" {
		*outputPath = filepath.Join("data", "run_"+time.Now().UTC().Format("20060102_150405")+".csv")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level})
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Error(ctx, "failed to create output directory", logging.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := os.Create(*outputPath)
	if err != nil {
		log.Error(ctx, "failed to create output file", logging.String("path", *outputPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer out.Close()

	conn, err := grpc.NewClient(*networkServiceAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error(ctx, "failed to dial Network coordinator", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close()

	networkClient := wire.NewNetworkServiceClient(conn)
	app := client.NewApp(networkClient, int32(*clientID), *frequency, client.WithLogger(log))

	log.Info(ctx, "starting client", logging.Int("client_id", *clientID), logging.String("output", *outputPath))
	if err := app.Run(ctx, out); err != nil {
		log.Error(ctx, "client run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "client finished")
}

func applyClientConfig(cfg *config.ClientConfig, clientID *int, networkServiceAddr *string, frequency *float64, outputPath *string, verbose *bool) {
	if cfg.ClientID != 0 {
		*clientID = int(cfg.ClientID)
	}
	if cfg.NetworkServiceAddr != "" {
		*networkServiceAddr = cfg.NetworkServiceAddr
	}
	if cfg.Frequency != 0 {
		*frequency = cfg.Frequency
	}
	if cfg.OutputPath != "" {
		*outputPath = cfg.OutputPath
	}
	if cfg.Verbose {
		*verbose = true
	}
}
