// Package config loads the optional per-role YAML configuration files
// accepted by each binary's --config flag, letting a deployment check in
// one file per role instead of a long CLI invocation. Grounded on
// timo-kang-vpnctl's internal/config package, which uses the same
// section-per-role YAML shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for whichever single role a --config file
// targets. A deployment only ever populates the section matching the
// binary it configures.
type Config struct {
	Node    *NodeConfig    `yaml:"node,omitempty"`
	Target  *TargetConfig  `yaml:"target,omitempty"`
	Network *NetworkConfig `yaml:"network,omitempty"`
	Client  *ClientConfig  `yaml:"client,omitempty"`
}

// NodeConfig configures cmd/node.
type NodeConfig struct {
	NodeID             int32   `yaml:"node_id"`
	X                  float64 `yaml:"x"`
	Y                  float64 `yaml:"y"`
	Z                  float64 `yaml:"z"`
	BindAddress        string  `yaml:"bind_address"`
	TargetServiceAddr  string  `yaml:"target_service_addr"`
	NetworkServiceAddr string  `yaml:"network_service_addr"`
	NATSURL            string  `yaml:"nats_url"`
	Accuracy           float64 `yaml:"accuracy"`
	Frequency          float64 `yaml:"frequency"`
	Verbose            bool    `yaml:"verbose"`
}

// TargetConfig configures cmd/target.
type TargetConfig struct {
	GRPCAddr       string  `yaml:"grpc_addr"`
	TrajectoryPath string  `yaml:"trajectory_path"`
	Frequency      float64 `yaml:"frequency"`
	LoopPath       bool    `yaml:"loop_path"`
	Verbose        bool    `yaml:"verbose"`
}

// NetworkConfig configures cmd/network.
type NetworkConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	NATSURL     string `yaml:"nats_url"`
	Workers     int    `yaml:"workers"`
	Verbose     bool   `yaml:"verbose"`
}

// ClientConfig configures cmd/client.
type ClientConfig struct {
	ClientID           int32   `yaml:"client_id"`
	NetworkServiceAddr string  `yaml:"network_service_addr"`
	Frequency          float64 `yaml:"frequency"`
	OutputPath         string  `yaml:"output_path"`
	Verbose            bool    `yaml:"verbose"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
