package nodeclient

import (
	"context"
	"testing"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

type fakeNetworkClient struct {
	status int32
	err    error
	got    *wire.AddNodeRequest
}

func (f *fakeNetworkClient) AddNode(ctx context.Context, in *wire.AddNodeRequest) (*wire.AddNodeResponse, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &wire.AddNodeResponse{Status: f.status}, nil
}

func TestAddNodeToNetworkSuccess(t *testing.T) {
	fc := &fakeNetworkClient{status: int32(wire.NSOK)}
	c := New(fc, 3, geo.Vector3{X: 1, Y: 2, Z: 3}, "tcp://node3:5553", nil)

	if !c.AddNodeToNetwork(context.Background()) {
		t.Fatal("AddNodeToNetwork() = false, want true")
	}
	if fc.got.NodeId != 3 || fc.got.BindAddress != "tcp://node3:5553" {
		t.Fatalf("request = %+v, unexpected", fc.got)
	}
}

func TestAddNodeToNetworkRejected(t *testing.T) {
	fc := &fakeNetworkClient{status: int32(wire.NSError)}
	c := New(fc, 3, geo.Vector3{}, "addr", nil)

	if c.AddNodeToNetwork(context.Background()) {
		t.Fatal("AddNodeToNetwork() = true, want false")
	}
}

func TestAddNodeToNetworkRPCFailure(t *testing.T) {
	fc := &fakeNetworkClient{err: context.DeadlineExceeded}
	c := New(fc, 3, geo.Vector3{}, "addr", nil)

	if c.AddNodeToNetwork(context.Background()) {
		t.Fatal("AddNodeToNetwork() = true, want false on RPC error")
	}
}
