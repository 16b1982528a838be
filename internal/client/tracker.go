package client

import (
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

// Tracker feeds successive target position measurements through a
// KalmanFilter, initializing the filter's state on the first measurement
// and computing dt between ticks from wall-clock time, grounded on the
// reference tracker's tracker_core/get_predicted_position shape.
type Tracker struct {
	kalman      *KalmanFilter
	initialized bool
	prevTime    time.Time
	predicted   geo.Vector3
}

// NewTracker returns an uninitialized Tracker.
func NewTracker() *Tracker {
	k := NewKalmanFilter()
	k.SetState(geo.Vector3{})
	return &Tracker{kalman: k, prevTime: time.Now()}
}

// Observe feeds one measurement through the filter and records the
// resulting prediction.
func (t *Tracker) Observe(measurement geo.Vector3) geo.Vector3 {
	if !t.initialized {
		t.initialized = true
		t.kalman.SetState(measurement)
		t.prevTime = time.Now()
	}

	now := time.Now()
	dt := now.Sub(t.prevTime).Seconds()
	t.prevTime = now

	t.kalman.UpdateMatrices(dt)
	t.kalman.Predict()
	t.kalman.Update(measurement)

	t.predicted = t.kalman.State()
	return t.predicted
}

// PredictedPosition returns the most recent prediction.
func (t *Tracker) PredictedPosition() geo.Vector3 {
	return t.predicted
}
