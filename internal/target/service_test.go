package target

import (
	"context"
	"testing"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

func TestServiceGetPositionAlwaysOK(t *testing.T) {
	pos := geo.Vector3{X: 1, Y: 2, Z: 3}
	data := NewData(pos)
	svc := NewService(data)

	resp, err := svc.GetPosition(context.Background(), &wire.GetPositionRequest{NodeId: 7})
	if err != nil {
		t.Fatalf("GetPosition() error = %v", err)
	}
	if resp.Status != int32(wire.PSOK) {
		t.Fatalf("Status = %d, want PS_OK", resp.Status)
	}
	if float64(resp.X) != pos.X || float64(resp.Y) != pos.Y || float64(resp.Z) != pos.Z {
		t.Fatalf("position = (%v,%v,%v), want %+v", resp.X, resp.Y, resp.Z, pos)
	}
}

func TestServiceGetPositionReflectsUpdates(t *testing.T) {
	data := NewData(geo.Vector3{})
	svc := NewService(data)

	data.SetPosition(geo.Vector3{X: 5, Y: 6, Z: 7})
	resp, err := svc.GetPosition(context.Background(), &wire.GetPositionRequest{NodeId: 1})
	if err != nil {
		t.Fatalf("GetPosition() error = %v", err)
	}
	if resp.X != 5 || resp.Y != 6 || resp.Z != 7 {
		t.Fatalf("position = (%v,%v,%v), want (5,6,7)", resp.X, resp.Y, resp.Z)
	}
}
