package target

import (
	"testing"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

func TestNewControllerRejectsEmptyWaypoints(t *testing.T) {
	if _, err := NewController(nil, 10, false, nil); err == nil {
		t.Fatal("NewController() error = nil, want malformed trajectory error")
	}
}

func TestNewControllerStartsAtFirstWaypoint(t *testing.T) {
	waypoints := []geo.Vector3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	c, err := NewController(waypoints, 10, false, nil)
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	if got := c.GetPosition(); got != waypoints[0] {
		t.Fatalf("GetPosition() = %+v, want %+v", got, waypoints[0])
	}
}
