package target

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
	"github.com/signalsfoundry/multilat-sensor-net/internal/logging"
)

// trajectoryDocument is the on-disk format from §6:
// {"waypoints": [[x, y, z], ...]}.
type trajectoryDocument struct {
	Waypoints [][]float64 `json:"waypoints"`
}

// LoadWaypoints reads and validates a trajectory document from path.
func LoadWaypoints(path string) ([]geo.Vector3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("target: read trajectory file: %w", err)
	}
	return ParseWaypoints(data)
}

// ParseWaypoints validates and decodes a trajectory document's bytes.
func ParseWaypoints(data []byte) ([]geo.Vector3, error) {
	var doc trajectoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTrajectory, err)
	}
	if len(doc.Waypoints) == 0 {
		return nil, fmt.Errorf("%w: no waypoints found", ErrMalformedTrajectory)
	}

	waypoints := make([]geo.Vector3, len(doc.Waypoints))
	for i, entry := range doc.Waypoints {
		if len(entry) != 3 {
			return nil, fmt.Errorf("%w: waypoint %d has %d elements, want 3", ErrMalformedTrajectory, i, len(entry))
		}
		waypoints[i] = geo.Vector3{X: entry[0], Y: entry[1], Z: entry[2]}
	}
	return waypoints, nil
}

// Updater advances the target's position through a trajectory at a fixed
// frequency, looping back to the first waypoint when loopPath is set.
type Updater struct {
	data      *Data
	waypoints []geo.Vector3
	interval  time.Duration
	loopPath  bool
	log       logging.Logger
}

// NewUpdater builds an Updater bound to data. freq is in Hz.
func NewUpdater(data *Data, waypoints []geo.Vector3, freq float64, loopPath bool, log logging.Logger) (*Updater, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("%w: no waypoints found", ErrMalformedTrajectory)
	}
	if log == nil {
		log = logging.Noop()
	}
	if freq <= 0 {
		return nil, fmt.Errorf("target: update frequency must be positive, got %v", freq)
	}
	return &Updater{
		data:      data,
		waypoints: waypoints,
		interval:  time.Duration(float64(time.Second) / freq),
		loopPath:  loopPath,
		log:       log,
	}, nil
}

// Run advances the target's position along the trajectory until the
// trajectory completes (when loopPath is false) or ctx is cancelled.
func (u *Updater) Run(ctx context.Context) {
	u.log.Info(ctx, "trajectory updater starting", logging.Int("waypoints", len(u.waypoints)))

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	index := 0
	for {
		wp := u.waypoints[index]
		u.data.SetPosition(wp)
		u.log.Debug(ctx, "advanced target position",
			logging.Any("x", wp.X), logging.Any("y", wp.Y), logging.Any("z", wp.Z))

		select {
		case <-ctx.Done():
			u.log.Info(ctx, "trajectory updater stopped")
			return
		case <-ticker.C:
		}

		index++
		if index >= len(u.waypoints) {
			if !u.loopPath {
				u.log.Info(ctx, "trajectory updater finished non-looping path")
				return
			}
			index = 0
		}
	}
}
