package client

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
	"google.golang.org/grpc"
)

// errPositionsExhausted simulates a transport failure once a test's scripted
// tick responses run out, giving Run a deterministic way to stop.
var errPositionsExhausted = errors.New("fake: no more scripted positions")

type fakeNetworkClient struct {
	startResp *wire.StartNetworkResponse
	startErr  error

	positions []*wire.GetTargetGlobalPositionResponse
	calls     int
}

func (f *fakeNetworkClient) StartNetwork(ctx context.Context, in *wire.StartNetworkRequest, opts ...grpc.CallOption) (*wire.StartNetworkResponse, error) {
	return f.startResp, f.startErr
}

func (f *fakeNetworkClient) GetTargetGlobalPosition(ctx context.Context, in *wire.GetTargetGlobalPositionRequest, opts ...grpc.CallOption) (*wire.GetTargetGlobalPositionResponse, error) {
	if f.calls >= len(f.positions) {
		f.calls++
		return nil, errPositionsExhausted
	}
	resp := f.positions[f.calls]
	f.calls++
	return resp, nil
}

func TestAppRunFailsWhenNetworkStartRejected(t *testing.T) {
	fc := &fakeNetworkClient{startResp: &wire.StartNetworkResponse{Status: int32(wire.SSError)}}
	app := NewApp(fc, 1, 1000)

	var buf bytes.Buffer
	if err := app.Run(context.Background(), &buf); err != ErrNetworkStartFailed {
		t.Fatalf("Run() error = %v, want ErrNetworkStartFailed", err)
	}
}

func TestAppRunSkipsTickOnTSErrorWithoutStopping(t *testing.T) {
	fc := &fakeNetworkClient{
		startResp: &wire.StartNetworkResponse{Status: int32(wire.SSOK), NNodes: 4},
		positions: []*wire.GetTargetGlobalPositionResponse{
			{Status: int32(wire.TSError)},
		},
	}
	app := NewApp(fc, 1, 1000)

	var buf bytes.Buffer
	err := app.Run(context.Background(), &buf)
	if !errors.Is(err, errPositionsExhausted) {
		t.Fatalf("Run() error = %v, want wrapped errPositionsExhausted", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "timestamp") {
		t.Fatalf("output = %q, want only the csv header (TS_ERROR tick produces no row)", buf.String())
	}
}

func TestAppRunWritesCSVRows(t *testing.T) {
	fc := &fakeNetworkClient{
		startResp: &wire.StartNetworkResponse{Status: int32(wire.SSOK), NNodes: 4},
		positions: []*wire.GetTargetGlobalPositionResponse{
			{Status: int32(wire.TSOK), X: 1, Y: 2, Z: 3},
			{Status: int32(wire.TSOK), X: 1.1, Y: 2.1, Z: 3.1},
			{Status: int32(wire.TSError)},
		},
	}
	app := NewApp(fc, 1, 2000)

	var buf bytes.Buffer
	err := app.Run(context.Background(), &buf)
	if !errors.Is(err, errPositionsExhausted) {
		t.Fatalf("Run() error = %v, want wrapped errPositionsExhausted", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows; the trailing TS_ERROR tick is skipped)", len(lines))
	}
}
