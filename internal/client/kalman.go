// Package client implements the Client tracker collaborator (§4.7): a
// constant-velocity Kalman filter with white-noise acceleration as process
// noise, a per-tick Tracker built around it,
// and the App that drives the control-plane RPCs and writes predictions to
// CSV.
package client

import (
	"gonum.org/v1/gonum/mat"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

// accelerationNoiseX/Y/Z are the process-noise acceleration components
// used to build the process covariance matrix Q, matching the reference
// tracker's fixed noise model.
const (
	accelerationNoiseX = 2.0
	accelerationNoiseY = 2.0
	accelerationNoiseZ = 2.0
)

// measurementVariance is the assumed variance of a GetTargetGlobalPosition
// measurement along each axis.
const measurementVariance = 0.0016

// KalmanFilter tracks a 6D state [x, y, z, vx, vy, vz] under a constant
// velocity motion model, correcting predictions against 3D position
// measurements. It generalizes the reference tracker's raw NumPy matrix
// algebra onto gonum.org/v1/gonum/mat, the same numerical library used by
// the Network coordinator's multilateration solver.
type KalmanFilter struct {
	x *mat.VecDense // state [x,y,z,vx,vy,vz]
	p *mat.Dense    // state covariance, 6x6
	f *mat.Dense    // state transition, 6x6, depends on dt
	q *mat.Dense    // process covariance, 6x6, depends on dt
	r *mat.Dense    // measurement covariance, 3x3
	h *mat.Dense    // measurement matrix, 3x6
}

// NewKalmanFilter returns a filter initialized at the origin with zero
// velocity, high position confidence, and low velocity confidence.
func NewKalmanFilter() *KalmanFilter {
	k := &KalmanFilter{
		x: mat.NewVecDense(6, nil),
		p: mat.NewDense(6, 6, nil),
		f: mat.NewDense(6, 6, nil),
		q: mat.NewDense(6, 6, nil),
		r: mat.NewDense(3, 3, []float64{
			measurementVariance, 0, 0,
			0, measurementVariance, 0,
			0, 0, measurementVariance,
		}),
		h: mat.NewDense(3, 6, []float64{
			1, 0, 0, 0, 0, 0,
			0, 1, 0, 0, 0, 0,
			0, 0, 1, 0, 0, 0,
		}),
	}
	for i := 0; i < 3; i++ {
		k.p.Set(i, i, 1)
	}
	for i := 3; i < 6; i++ {
		k.p.Set(i, i, 100)
	}
	return k
}

// SetState resets the filter to pos with zero velocity, discarding any
// prior track.
func (k *KalmanFilter) SetState(pos geo.Vector3) {
	k.x.SetVec(0, pos.X)
	k.x.SetVec(1, pos.Y)
	k.x.SetVec(2, pos.Z)
	k.x.SetVec(3, 0)
	k.x.SetVec(4, 0)
	k.x.SetVec(5, 0)
}

// State returns the filter's current position estimate.
func (k *KalmanFilter) State() geo.Vector3 {
	return geo.Vector3{X: k.x.AtVec(0), Y: k.x.AtVec(1), Z: k.x.AtVec(2)}
}

// UpdateMatrices rebuilds the state transition and process covariance
// matrices for an elapsed time dt, in seconds.
func (k *KalmanFilter) UpdateMatrices(dt float64) {
	dt2 := dt * dt
	dt3 := dt2 * dt
	dt4 := dt3 * dt

	k.f.Set(0, 0, 1)
	k.f.Set(1, 1, 1)
	k.f.Set(2, 2, 1)
	k.f.Set(3, 3, 1)
	k.f.Set(4, 4, 1)
	k.f.Set(5, 5, 1)
	k.f.Set(0, 3, dt)
	k.f.Set(1, 4, dt)
	k.f.Set(2, 5, dt)

	k.q.Set(0, 0, dt4/4*accelerationNoiseX)
	k.q.Set(1, 1, dt4/4*accelerationNoiseY)
	k.q.Set(2, 2, dt4/4*accelerationNoiseZ)
	k.q.Set(0, 3, dt3/2*accelerationNoiseX)
	k.q.Set(3, 0, dt3/2*accelerationNoiseX)
	k.q.Set(1, 4, dt3/2*accelerationNoiseY)
	k.q.Set(4, 1, dt3/2*accelerationNoiseY)
	k.q.Set(2, 5, dt3/2*accelerationNoiseZ)
	k.q.Set(5, 2, dt3/2*accelerationNoiseZ)
	k.q.Set(3, 3, dt2*accelerationNoiseX)
	k.q.Set(4, 4, dt2*accelerationNoiseY)
	k.q.Set(5, 5, dt2*accelerationNoiseZ)
}

// Predict extrapolates the state and covariance forward using the current
// F and Q matrices.
func (k *KalmanFilter) Predict() {
	var x mat.VecDense
	x.MulVec(k.f, k.x)
	k.x = &x

	var fp, fpft mat.Dense
	fp.Mul(k.f, k.p)
	fpft.Mul(&fp, k.f.T())
	fpft.Add(&fpft, k.q)
	k.p = &fpft
}

// Update corrects the predicted state against a position measurement z.
func (k *KalmanFilter) Update(z geo.Vector3) {
	zv := mat.NewVecDense(3, []float64{z.X, z.Y, z.Z})

	var hx mat.VecDense
	hx.MulVec(k.h, k.x)

	var y mat.VecDense
	y.SubVec(zv, &hx)

	var hp, s mat.Dense
	hp.Mul(k.h, k.p)
	s.Mul(&hp, k.h.T())
	s.Add(&s, k.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		// Singular innovation covariance: skip the correction this tick
		// rather than propagate a NaN state.
		return
	}

	var pht, gain mat.Dense
	pht.Mul(k.p, k.h.T())
	gain.Mul(&pht, &sInv)

	var correction mat.VecDense
	correction.MulVec(&gain, &y)

	var x mat.VecDense
	x.AddVec(k.x, &correction)
	k.x = &x

	ident := mat.NewDiagDense(6, []float64{1, 1, 1, 1, 1, 1})
	var gh, ighp mat.Dense
	gh.Mul(&gain, k.h)
	ighp.Sub(ident, &gh)

	var p mat.Dense
	p.Mul(&ighp, k.p)
	k.p = &p
}
