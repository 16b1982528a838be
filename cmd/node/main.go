package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalsfoundry/multilat-sensor-net/internal/config"
	"github.com/signalsfoundry/multilat-sensor-net/internal/dealer"
	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
	"github.com/signalsfoundry/multilat-sensor-net/internal/nodeclient"
	"github.com/signalsfoundry/multilat-sensor-net/internal/nodecontroller"
	"github.com/signalsfoundry/multilat-sensor-net/internal/noderouter"
	"github.com/signalsfoundry/multilat-sensor-net/internal/sensor"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// targetClientAdapter drops the variadic grpc.CallOption parameter from
// wire.TargetServiceClient.GetPosition so it satisfies sensor.TargetClient.
type targetClientAdapter struct {
	cc *wire.TargetServiceClient
}

func (a targetClientAdapter) GetPosition(ctx context.Context, in *wire.GetPositionRequest) (*wire.GetPositionResponse, error) {
	return a.cc.GetPosition(ctx, in)
}

// networkClientAdapter drops the variadic grpc.CallOption parameter from
// wire.NetworkServiceClient.AddNode so it satisfies nodeclient.NetworkClient.
type networkClientAdapter struct {
	cc *wire.NetworkServiceClient
}

func (a networkClientAdapter) AddNode(ctx context.Context, in *wire.AddNodeRequest) (*wire.AddNodeResponse, error) {
	return a.cc.AddNode(ctx, in)
}

func main() {
	nodeID := flag.Int("node-id", 0, "node ID")
	x := flag.Float64("x", 0, "sensor position X")
	y := flag.Float64("y", 0, "sensor position Y")
	z := flag.Float64("z", 0, "sensor position Z")
	bindAddress := flag.String("bind-address", "", "data-plane bind address registered with the Network coordinator; the node serves subject node.distance.<bind-address> (defaults to node.distance.<node-id>)")
	targetServiceAddr := flag.String("target-service-addr", "localhost:50051", "Target gRPC service address")
	networkServiceAddr := flag.String("network-service-addr", "localhost:50052", "Network coordinator gRPC service address")
	natsURL := flag.String("nats-url", nats.DefaultURL, "NATS server URL used for the data-plane scatter/gather fabric")
	accuracy := flag.Float64("accuracy", sensor.DefaultAccuracy, "uniform noise half-width added to distance measurements [m]")
	frequency := flag.Float64("frequency", sensor.DefaultFrequency, "distance measurement frequency [Hz]")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	configPath := flag.String("config", "", "optional YAML config file pre-filling flag defaults")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("node: " + err.Error() + "\n")
			os.Exit(1)
		}
		if cfg.Node != nil {
			applyNodeConfig(cfg.Node, nodeID, x, y, z, bindAddress, targetServiceAddr, networkServiceAddr, natsURL, accuracy, frequency, verbose)
			// Re-apply explicit command-line flags so they take precedence over the config file.
			flag.Parse()
		}
	}

	if *bindAddress == "" {
		*bindAddress = fmt.Sprintf("node.distance.%d", *nodeID)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level})
	ctx := context.Background()

	pos := geo.Vector3{X: *x, Y: *y, Z: *z}

	targetConn, err := grpc.NewClient(*targetServiceAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error(ctx, "failed to dial Target service", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer targetConn.Close()
	targetClient := targetClientAdapter{cc: wire.NewTargetServiceClient(targetConn)}

	networkConn, err := grpc.NewClient(*networkServiceAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error(ctx, "failed to dial Network coordinator", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer networkConn.Close()
	networkClient := networkClientAdapter{cc: wire.NewNetworkServiceClient(networkConn)}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Error(ctx, "failed to connect to NATS", logging.String("url", *natsURL), logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer nc.Close()

	sensorCtrl := sensor.NewController(int32(*nodeID), pos, targetClient, *accuracy, *frequency, log)
	client := nodeclient.New(networkClient, int32(*nodeID), pos, *bindAddress, log)
	subject := dealer.NodeSubject(*bindAddress)

	ctrl := nodecontroller.New(sensorCtrl, client, noderouter.WrapConn(nc), sensorCtrl, int32(*nodeID), subject, log)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info(ctx, "starting node", logging.Int("node_id", *nodeID), logging.String("subject", subject))
	if !ctrl.Start(runCtx) {
		log.Error(ctx, "node failed to start", logging.Int("node_id", *nodeID))
		os.Exit(1)
	}

	<-runCtx.Done()
	log.Info(ctx, "shutting down node", logging.Int("node_id", *nodeID))
	if err := ctrl.Stop(); err != nil {
		log.Warn(ctx, "error stopping node router", logging.String("error", err.Error()))
	}
}

func applyNodeConfig(
	cfg *config.NodeConfig,
	nodeID *int,
	x, y, z *float64,
	bindAddress, targetServiceAddr, networkServiceAddr, natsURL *string,
	accuracy, frequency *float64,
	verbose *bool,
) {
	if cfg.NodeID != 0 {
		*nodeID = int(cfg.NodeID)
	}
	*x, *y, *z = cfg.X, cfg.Y, cfg.Z
	if cfg.BindAddress != "" {
		*bindAddress = cfg.BindAddress
	}
	if cfg.TargetServiceAddr != "" {
		*targetServiceAddr = cfg.TargetServiceAddr
	}
	if cfg.NetworkServiceAddr != "" {
		*networkServiceAddr = cfg.NetworkServiceAddr
	}
	if cfg.NATSURL != "" {
		*natsURL = cfg.NATSURL
	}
	if cfg.Accuracy != 0 {
		*accuracy = cfg.Accuracy
	}
	if cfg.Frequency != 0 {
		*frequency = cfg.Frequency
	}
	if cfg.Verbose {
		*verbose = true
	}
}
