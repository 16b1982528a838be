package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesNodeSection(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "node.yaml")
	contents := `
node:
  node_id: 3
  x: 1.5
  y: 2.5
  z: 0.5
  bind_address: "node.distance.3"
  target_service_addr: "localhost:50051"
  network_service_addr: "localhost:50052"
  accuracy: 0.003
  frequency: 40
  verbose: true
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Node == nil {
		t.Fatal("cfg.Node = nil, want populated section")
	}
	if cfg.Node.NodeID != 3 || cfg.Node.BindAddress != "node.distance.3" || !cfg.Node.Verbose {
		t.Fatalf("cfg.Node = %+v, unexpected values", cfg.Node)
	}
}

func TestLoadParsesClientSection(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "client.yaml")
	contents := `
client:
  client_id: 1
  network_service_addr: "localhost:50052"
  frequency: 15
  output_path: "data/run.csv"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Client == nil || cfg.Client.Frequency != 15 {
		t.Fatalf("cfg.Client = %+v, unexpected values", cfg.Client)
	}
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestLoadReturnsErrorForMalformedYAML(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "bad.yaml")
	if err := os.WriteFile(path, []byte("not: [valid"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}
