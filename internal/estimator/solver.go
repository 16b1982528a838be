// Package estimator implements the multilateration solver (§4.3): given a
// set of known sensor positions and a concurrent set of measured distances,
// it estimates the 3D position that best explains the measurements in a
// non-linear least-squares sense.
//
// The residual for sensor i is ||p - s_i|| - d_i. This is solved with a
// damped Gauss-Newton (Levenberg-Marquardt) iteration: at each step the
// Jacobian of the residual vector with respect to p is assembled and the
// normal equations (J^T J + lambda*I) delta = -J^T r are solved with
// gonum.org/v1/gonum/mat's VecDense.SolveVec, generalizing the QR-based
// solve used for the linear least-squares step of the scatter/gather
// pipeline in the reference multilateration solver this package was
// modeled on, generalized here to the non-linear case and to an arbitrary
// number of sensors per round.
package estimator

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/signalsfoundry/multilat-sensor-net/internal/geo"
)

var (
	// ErrInsufficientMeasurements is returned when fewer than 3 (sensor,
	// distance) pairs are available for a solve.
	ErrInsufficientMeasurements = errors.New("estimator: fewer than 3 usable measurements")

	// ErrSolverDivergence is returned when the Levenberg-Marquardt iteration
	// fails to converge within the configured iteration budget, or when the
	// cost is not finite (e.g. an infinite distance measurement).
	ErrSolverDivergence = errors.New("estimator: solver failed to converge")
)

const (
	minMeasurements = 3
	maxIterations   = 100
	convergenceTol  = 1e-9
	initialLambda   = 1e-3
	lambdaUp        = 10.0
	lambdaDown      = 0.1
)

// Solver estimates a target's 3D position from sensor distance
// measurements using damped Gauss-Newton iteration. A Solver is safe for
// concurrent use: each EstimatePosition call serializes on an internal
// mutex and warm-starts from the previous estimate, matching the Network
// coordinator's single Multilateration instance shared across RPC handlers.
type Solver struct {
	mu              sync.Mutex
	sensorPositions map[int32]geo.Vector3
	initialGuess    geo.Vector3
}

// New returns a Solver with no sensors configured and an initial guess of
// the origin.
func New() *Solver {
	return &Solver{sensorPositions: make(map[int32]geo.Vector3)}
}

// SetSensorPositions replaces the solver's known sensor positions. It is
// called once per activation, from StartNetwork, before any concurrent
// EstimatePosition calls can occur.
func (s *Solver) SetSensorPositions(positions map[int32]geo.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sensorPositions = make(map[int32]geo.Vector3, len(positions))
	for id, pos := range positions {
		s.sensorPositions[id] = pos
	}
}

// EstimatePosition solves for the position that best explains distances,
// restricted to the intersection of distances' keys and the configured
// sensor positions. It requires at least 3 usable pairs.
func (s *Solver) EstimatePosition(distances map[int32]float64) (geo.Vector3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type pair struct {
		pos geo.Vector3
		d   float64
	}
	var pairs []pair
	for id, d := range distances {
		if pos, ok := s.sensorPositions[id]; ok {
			pairs = append(pairs, pair{pos: pos, d: d})
		}
	}
	if len(pairs) < minMeasurements {
		return geo.Vector3{}, ErrInsufficientMeasurements
	}

	guess := s.initialGuess
	lambda := initialLambda

	residuals := func(p geo.Vector3) []float64 {
		r := make([]float64, len(pairs))
		for i, pr := range pairs {
			r[i] = p.Distance(pr.pos) - pr.d
		}
		return r
	}
	cost := func(r []float64) float64 {
		sum := 0.0
		for _, v := range r {
			sum += v * v
		}
		return sum
	}

	r := residuals(guess)
	c := cost(r)

	for iter := 0; iter < maxIterations; iter++ {
		jac := mat.NewDense(len(pairs), 3, nil)
		for i, pr := range pairs {
			diff := guess.Sub(pr.pos)
			dist := diff.Norm()
			if dist < 1e-12 {
				dist = 1e-12
			}
			jac.Set(i, 0, diff.X/dist)
			jac.Set(i, 1, diff.Y/dist)
			jac.Set(i, 2, diff.Z/dist)
		}

		var jt, jtj mat.Dense
		jt.CloneFrom(jac.T())
		jtj.Mul(&jt, jac)

		rv := mat.NewVecDense(len(r), r)
		var jtr mat.VecDense
		jtr.MulVec(&jt, rv)

		accepted := false
		for attempt := 0; attempt < 20 && !accepted; attempt++ {
			var damped mat.Dense
			damped.CloneFrom(&jtj)
			for i := 0; i < 3; i++ {
				damped.Set(i, i, damped.At(i, i)+lambda)
			}

			var delta mat.VecDense
			if err := delta.SolveVec(&damped, &jtr); err != nil {
				lambda *= lambdaUp
				continue
			}

			candidate := geo.Vector3{
				X: guess.X - delta.AtVec(0),
				Y: guess.Y - delta.AtVec(1),
				Z: guess.Z - delta.AtVec(2),
			}
			candidateR := residuals(candidate)
			candidateC := cost(candidateR)

			if candidateC < c {
				guess = candidate
				r = candidateR
				improvement := c - candidateC
				c = candidateC
				lambda *= lambdaDown
				accepted = true
				if improvement < convergenceTol {
					s.initialGuess = guess
					return guess, nil
				}
			} else {
				lambda *= lambdaUp
			}
		}
		if !accepted {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return geo.Vector3{}, fmt.Errorf("%w: non-finite cost at iteration %d", ErrSolverDivergence, iter)
			}
			// No damped step lowers the cost any further: guess is already a
			// minimum to within floating-point precision.
			s.initialGuess = guess
			return guess, nil
		}
		if math.Sqrt(c) < convergenceTol {
			s.initialGuess = guess
			return guess, nil
		}
	}

	return geo.Vector3{}, fmt.Errorf("%w: exceeded %d iterations with residual %g", ErrSolverDivergence, maxIterations, math.Sqrt(c))
}
